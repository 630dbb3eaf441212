package syncctl

import (
	"context"
	"errors"
	"fmt"

	cliconfig "github.com/crucial707/hci-assetdb/cmd/cli/config"
	appconfig "github.com/crucial707/hci-assetdb/internal/config"
	"github.com/crucial707/hci-assetdb/internal/store"
	"github.com/crucial707/hci-assetdb/internal/syncer"
	"github.com/spf13/cobra"
)

// InitSync registers the manual sync command on the root command.
func InitSync(rootCmd *cobra.Command) {
	rootCmd.AddCommand(syncCmd())
}

// syncCmd runs one reconciliation pass against the remote API: every row
// whose syncStatus is pending is pushed and marked synced or conflict.
func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push pending local writes to the remote API",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := cliconfig.ReadToken()
			if err != nil {
				return fmt.Errorf("no stored token, run `assetdb login` first: %w", err)
			}

			cfg := appconfig.Load()
			st, err := store.Open(cfg.DataDir)
			if err != nil {
				return err
			}
			defer st.Close()

			client := syncer.NewClient(cfg.APIBaseURL, token)
			if err := client.CheckToken(); err != nil {
				if errors.Is(err, syncer.ErrTokenExpired) {
					return fmt.Errorf("stored token expired, run `assetdb login` again")
				}
				return err
			}

			result, err := syncer.New(st, client).Run(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Sync complete: %d pushed, %d conflicts, %d failed\n",
				result.Pushed, result.Conflicts, result.Failed)
			return nil
		},
	}
}
