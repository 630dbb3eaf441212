package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/crucial707/hci-assetdb/cmd/cli/config"
	"github.com/crucial707/hci-assetdb/cmd/cli/output"
	"github.com/crucial707/hci-assetdb/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users in the local database",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		createUserCmd(),
		updateUserCmd(),
		deleteUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			users, err := svc.ListUsers(context.Background())
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username, u.FirstName + " " + u.LastName, u.Department, u.Role, u.Active})
			}
			output.RenderTable([]string{"ID", "Username", "Name", "Department", "Role", "Active"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {

	var username, email, first, last, department, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			user := models.User{
				Username:   username,
				Email:      email,
				FirstName:  first,
				LastName:   last,
				Department: department,
				Role:       models.UserRole(role),
				Active:     true,
			}

			created, err := svc.CreateUser(context.Background(), user)
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(created, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&first, "first-name", "", "first name")
	cmd.Flags().StringVar(&last, "last-name", "", "last name")
	cmd.Flags().StringVar(&department, "department", "", "department")
	cmd.Flags().StringVar(&role, "role", "USER", "role (USER, MANAGER, SUPER_ADMIN)")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateUserCmd() *cobra.Command {

	var patchJSON string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Apply a partial update to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			var patch models.UserPatch
			if err := json.Unmarshal([]byte(patchJSON), &patch); err != nil {
				return fmt.Errorf("invalid patch: %w", err)
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			updated, err := svc.UpdateUser(context.Background(), id, patch)
			if err != nil {
				return err
			}

			b, _ := json.MarshalIndent(updated, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&patchJSON, "patch", "{}", `patch as JSON, e.g. '{"active":false}'`)

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			svc, done, err := config.OpenService()
			if err != nil {
				return err
			}
			defer done()

			if err := svc.DeleteUser(context.Background(), id); err != nil {
				return err
			}

			fmt.Println("User deleted")
			return nil
		},
	}
}
