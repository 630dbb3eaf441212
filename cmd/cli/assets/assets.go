package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/crucial707/hci-assetdb/cmd/cli/config"
	"github.com/crucial707/hci-assetdb/cmd/cli/output"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/spf13/cobra"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets in the local database",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		getAssetCmd(),
		createAssetCmd(),
		updateAssetCmd(),
		deleteAssetCmd(),
		searchAssetsCmd(),
		findAssetsCmd(),
		transferAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	var status string
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			ctx := context.Background()
			var assets []models.Asset
			switch {
			case status != "":
				assets, err = svc.AssetsByStatus(ctx, models.AssetStatus(status))
			case category != "":
				assets, err = svc.AssetsByCategory(ctx, category)
			default:
				assets, err = svc.ListAssets(ctx)
			}
			if err != nil {
				return err
			}

			renderAssets(assets)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (AVAILABLE, ASSIGNED, IN_MAINTENANCE, RETIRED)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")

	return cmd
}

// ==========================
// GET
// ==========================
func getAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one asset as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[0])
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			asset, err := svc.GetAsset(context.Background(), id)
			if err != nil {
				return err
			}

			printJSON(asset)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createAssetCmd() *cobra.Command {

	var name, tag, category, status, condition, brand, model, serial, location, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			asset := models.Asset{
				Name:         name,
				AssetTag:     tag,
				Category:     category,
				Status:       models.AssetStatus(status),
				Condition:    models.AssetCondition(condition),
				Brand:        brand,
				Model:        model,
				SerialNumber: serial,
				Location:     location,
				Description:  description,
			}

			created, err := svc.CreateAsset(context.Background(), asset)
			if err != nil {
				return err
			}

			printJSON(created)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name")
	cmd.Flags().StringVar(&tag, "tag", "", "asset tag")
	cmd.Flags().StringVar(&category, "category", "", "asset category")
	cmd.Flags().StringVar(&status, "status", "", "status (defaults to AVAILABLE)")
	cmd.Flags().StringVar(&condition, "condition", "", "condition (defaults to GOOD)")
	cmd.Flags().StringVar(&brand, "brand", "", "brand")
	cmd.Flags().StringVar(&model, "model", "", "model")
	cmd.Flags().StringVar(&serial, "serial", "", "serial number")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&description, "description", "", "asset description")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateAssetCmd() *cobra.Command {

	var patchJSON string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Apply a partial update to an asset",
		Long:  "Apply a JSON patch to an asset. Fields absent from the patch keep their value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[0])
			}

			var patch models.AssetPatch
			if err := json.Unmarshal([]byte(patchJSON), &patch); err != nil {
				return fmt.Errorf("invalid patch: %w", err)
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			updated, err := svc.UpdateAsset(context.Background(), id, patch)
			if err != nil {
				return err
			}

			printJSON(updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&patchJSON, "patch", "{}", `patch as JSON, e.g. '{"status":"RETIRED"}'`)

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset and its maintenance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[0])
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			if err := svc.DeleteAsset(context.Background(), id); err != nil {
				return err
			}

			fmt.Println("Asset deleted")
			return nil
		},
	}
}

// ==========================
// SEARCH
// ==========================
func searchAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Substring search over asset fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			assets, err := svc.SearchAssets(context.Background(), args[0])
			if err != nil {
				return err
			}

			renderAssets(assets)
			return nil
		},
	}
}

// find runs the ranked search.
func findAssetsCmd() *cobra.Command {
	var category, status string
	var includeInactive bool
	var limit int

	cmd := &cobra.Command{
		Use:   "find [query]",
		Short: "Ranked search with filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			opts := service.SearchOptions{
				Category:        category,
				Status:          models.AssetStatus(status),
				IncludeInactive: includeInactive,
				Limit:           limit,
			}
			scored, err := svc.AdvancedSearch(context.Background(), args[0], opts)
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(scored))
			for _, s := range scored {
				rows = append(rows, []interface{}{s.Score, s.ID, s.Name, s.AssetTag, s.Category, s.Status})
			}
			output.RenderTable([]string{"Score", "ID", "Name", "Tag", "Category", "Status"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "restrict to a category")
	cmd.Flags().StringVar(&status, "status", "", "restrict to a status")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "include RETIRED assets")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 = all)")

	return cmd
}

// ==========================
// TRANSFER
// ==========================
func transferAssetCmd() *cobra.Command {
	var from, to, notes string

	cmd := &cobra.Command{
		Use:   "transfer [id]",
		Short: "Transfer an asset between users",
		Long:  "Reassign an asset, recording an audit entry and a completed Transfer maintenance record in one transaction.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid asset id %q", args[0])
			}
			if to == "" {
				return fmt.Errorf("--to is required")
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			asset, err := svc.TransferAsset(context.Background(), id, from, to, notes)
			if err != nil {
				return err
			}

			fmt.Printf("Asset %d transferred to %s\n", asset.ID, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "current holder")
	cmd.Flags().StringVar(&to, "to", "", "new holder")
	cmd.Flags().StringVar(&notes, "notes", "", "transfer notes")

	return cmd
}

func renderAssets(assets []models.Asset) {
	rows := make([][]interface{}, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, []interface{}{a.ID, a.Name, a.AssetTag, a.Category, a.Status, a.AssignedTo, a.SyncStatus})
	}
	output.RenderTable([]string{"ID", "Name", "Tag", "Category", "Status", "Assigned To", "Sync"}, rows)
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
