package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crucial707/hci-assetdb/cmd/cli/config"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/seed"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/spf13/cobra"
)

// InitData registers database-level commands: export, import, seed, stats,
// health and optimize.
func InitData(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		exportCmd(),
		importCmd(),
		seedCmd(),
		statsCmd(),
		healthCmd(),
		optimizeCmd(),
	)
}

// ==========================
// EXPORT
// ==========================
func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all collections to a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			snap, err := svc.ExportData(context.Background())
			if err != nil {
				return err
			}

			b, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				fmt.Println(string(b))
				return nil
			}
			if err := os.WriteFile(out, b, 0644); err != nil {
				return err
			}
			fmt.Printf("Exported %d assets, %d users, %d maintenance records, %d categories to %s\n",
				len(snap.Assets), len(snap.Users), len(snap.MaintenanceRecords), len(snap.Categories), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "-", "output file (- for stdout)")

	return cmd
}

// ==========================
// IMPORT
// ==========================
func importCmd() *cobra.Command {
	var file string
	var clear bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore collections from a JSON snapshot",
		Long:  "Restore a snapshot produced by export. With --clear the mutable collections are wiped first; the audit trail is never wiped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}

			b, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			var snap models.Snapshot
			if err := json.Unmarshal(b, &snap); err != nil {
				return fmt.Errorf("invalid snapshot: %w", err)
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			opts := service.ImportOptions{ClearExisting: clear}
			if err := svc.ImportData(context.Background(), snap, opts); err != nil {
				return err
			}

			fmt.Println("Import complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "snapshot file to import")
	cmd.Flags().BoolVar(&clear, "clear", false, "wipe existing data before restoring")

	return cmd
}

// ==========================
// SEED
// ==========================
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty database with baseline data",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			seeded, err := seed.Run(context.Background(), svc)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Println("Database already has data; nothing seeded.")
				return nil
			}
			fmt.Println("Seeded baseline categories, admin user and demo assets.")
			return nil
		},
	}
}

// ==========================
// STATS
// ==========================
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inventory and sync statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			ctx := context.Background()
			stats, err := svc.Statistics(ctx)
			if err != nil {
				return err
			}
			syncStats, err := svc.SyncStats(ctx)
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"inventory": stats,
				"sync":      syncStats,
			}
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}
}

// ==========================
// HEALTH
// ==========================
func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check local database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			report := svc.HealthStatus(context.Background())
			b, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(b))

			if report.Status == service.HealthError {
				os.Exit(1)
			}
			return nil
		},
	}
}

// ==========================
// OPTIMIZE
// ==========================
func optimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Prune old audit entries and stale maintenance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			result, err := svc.Optimize(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Pruned %d audit entries and %d maintenance records\n",
				result.AuditPruned, result.MaintenancePruned)
			return nil
		},
	}
}
