package config

import (
	"os"
	"path/filepath"

	appconfig "github.com/crucial707/hci-assetdb/internal/config"
	"github.com/crucial707/hci-assetdb/internal/service"
	"github.com/crucial707/hci-assetdb/internal/store"
)

// APIURL returns the base URL for the remote asset API.
// It can be overridden with the ASSETDB_API_URL environment variable.
func APIURL() string {
	return appconfig.Load().APIBaseURL
}

// OpenService opens the local database and wires the service facade.
// The returned close func must be called when the command finishes.
func OpenService() (*service.Service, func(), error) {
	cfg := appconfig.Load()
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	return service.New(st), func() { _ = st.Close() }, nil
}

// ==========================
// Token Storage Helpers
// ==========================
func SaveToken(token string) error {
	path := TokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func ReadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func RemoveToken() error {
	return os.Remove(TokenPath())
}

func TokenPath() string {
	return appconfig.Load().TokenFile
}
