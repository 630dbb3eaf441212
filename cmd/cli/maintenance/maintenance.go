package maintenance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/hci-assetdb/cmd/cli/config"
	"github.com/crucial707/hci-assetdb/cmd/cli/output"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Maintenance
// ==========================
func InitMaintenance(rootCmd *cobra.Command) {

	maintCmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Manage maintenance records",
	}

	maintCmd.AddCommand(
		listMaintenanceCmd(),
		upcomingMaintenanceCmd(),
		addMaintenanceCmd(),
		updateMaintenanceCmd(),
	)

	rootCmd.AddCommand(maintCmd)
}

// ==========================
// LIST
// ==========================
func listMaintenanceCmd() *cobra.Command {
	var assetID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maintenance records",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			ctx := context.Background()
			var records []models.MaintenanceRecord
			if assetID > 0 {
				records, err = svc.MaintenanceByAsset(ctx, assetID)
			} else {
				records, err = svc.ListMaintenanceRecords(ctx)
			}
			if err != nil {
				return err
			}

			renderRecords(records)
			return nil
		},
	}

	cmd.Flags().IntVar(&assetID, "asset", 0, "only records for this asset id")

	return cmd
}

// ==========================
// UPCOMING
// ==========================
func upcomingMaintenanceCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List scheduled maintenance due soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			records, err := svc.UpcomingMaintenance(context.Background(), days)
			if err != nil {
				return err
			}

			renderRecords(records)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "look-ahead window in days")

	return cmd
}

// ==========================
// ADD
// ==========================
func addMaintenanceCmd() *cobra.Command {

	var assetID int
	var date, mtype, description, priority, performedBy string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule maintenance for an asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			record := models.MaintenanceRecord{
				AssetID:         assetID,
				MaintenanceDate: when,
				MaintenanceType: mtype,
				Description:     description,
				Status:          models.MaintenanceScheduled,
				Priority:        models.MaintenancePriority(priority),
				PerformedBy:     performedBy,
			}

			created, err := svc.CreateMaintenanceRecord(context.Background(), record)
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(created, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().IntVar(&assetID, "asset", 0, "asset id")
	cmd.Flags().StringVar(&date, "date", "", "maintenance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&mtype, "type", "", "maintenance type")
	cmd.Flags().StringVar(&description, "description", "", "what needs doing")
	cmd.Flags().StringVar(&priority, "priority", "MEDIUM", "priority (LOW, MEDIUM, HIGH, CRITICAL)")
	cmd.Flags().StringVar(&performedBy, "performed-by", "", "technician")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateMaintenanceCmd() *cobra.Command {

	var patchJSON string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Apply a partial update to a maintenance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			var patch models.MaintenancePatch
			if err := json.Unmarshal([]byte(patchJSON), &patch); err != nil {
				return fmt.Errorf("invalid patch: %w", err)
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			updated, err := svc.UpdateMaintenanceRecord(context.Background(), id, patch)
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(updated, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&patchJSON, "patch", "{}", `patch as JSON, e.g. '{"status":"COMPLETED"}'`)

	return cmd
}

func renderRecords(records []models.MaintenanceRecord) {
	rows := make([][]interface{}, 0, len(records))
	for _, m := range records {
		rows = append(rows, []interface{}{
			m.ID, m.AssetID, m.MaintenanceDate.Format("2006-01-02"),
			m.MaintenanceType, m.Status, m.Priority,
		})
	}
	output.RenderTable([]string{"ID", "Asset", "Date", "Type", "Status", "Priority"}, rows)
}
