package main

import (
	"fmt"
	"os"

	"github.com/crucial707/hci-assetdb/cmd/cli/assets"
	"github.com/crucial707/hci-assetdb/cmd/cli/auth"
	"github.com/crucial707/hci-assetdb/cmd/cli/categories"
	"github.com/crucial707/hci-assetdb/cmd/cli/data"
	"github.com/crucial707/hci-assetdb/cmd/cli/maintenance"
	"github.com/crucial707/hci-assetdb/cmd/cli/root"
	"github.com/crucial707/hci-assetdb/cmd/cli/syncctl"
	"github.com/crucial707/hci-assetdb/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	assets.InitAssets(rootCmd)
	users.InitUsers(rootCmd)
	categories.InitCategories(rootCmd)
	maintenance.InitMaintenance(rootCmd)
	data.InitData(rootCmd)
	syncctl.InitSync(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
