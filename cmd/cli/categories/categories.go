package categories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/crucial707/hci-assetdb/cmd/cli/config"
	"github.com/crucial707/hci-assetdb/cmd/cli/output"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Categories
// ==========================
func InitCategories(rootCmd *cobra.Command) {

	catCmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage asset categories",
	}

	catCmd.AddCommand(
		listCategoriesCmd(),
		createCategoryCmd(),
		deleteCategoryCmd(),
	)

	rootCmd.AddCommand(catCmd)
}

// ==========================
// LIST
// ==========================
func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			cats, err := svc.ListCategories(context.Background())
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(cats))
			for _, c := range cats {
				rows = append(rows, []interface{}{c.ID, c.Name, c.Description, c.Active})
			}
			output.RenderTable([]string{"ID", "Name", "Description", "Active"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createCategoryCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create category",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			created, err := svc.CreateCategory(context.Background(), models.Category{
				Name:        name,
				Description: description,
				Active:      true,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Category %d (%s) created\n", created.ID, created.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "category description")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			if err := svc.DeleteCategory(context.Background(), id); err != nil {
				return err
			}

			fmt.Println("Category deleted")
			return nil
		},
	}
}
