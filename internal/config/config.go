package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// DataDir holds the local database file. Defaults to ~/.assetdb.
	DataDir string

	// APIBaseURL is the remote asset API consumed by sync (e.g. http://localhost:8080).
	APIBaseURL string

	// TokenFile stores the JWT obtained by `assetdb login`.
	TokenFile string

	// Port is the syncd HTTP listen port.
	Port string

	// Env is "dev" (default) or "prod".
	Env string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// SyncCron and OptimizeCron schedule the daemon's periodic work.
	SyncCron     string
	OptimizeCron string

	// MonitorIntervalSec is how often the network monitor probes the remote API.
	MonitorIntervalSec int

	// SeedOnStart makes syncd seed baseline data on an empty database.
	SeedOnStart bool
}

func Load() Config {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".assetdb")

	return Config{
		DataDir:    getEnv("ASSETDB_DATA_DIR", defaultDataDir),
		APIBaseURL: getEnv("ASSETDB_API_URL", "http://localhost:8080"),
		TokenFile:  getEnv("ASSETDB_TOKEN_FILE", filepath.Join(defaultDataDir, "token")),

		Port:      getEnv("PORT", "8090"),
		Env:       getEnv("ENV", "dev"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SyncCron:     getEnv("SYNC_CRON", "@every 5m"),
		OptimizeCron: getEnv("OPTIMIZE_CRON", "@daily"),

		MonitorIntervalSec: getEnvInt("MONITOR_INTERVAL_SEC", 30),

		SeedOnStart: getEnvBool("SEED_ON_START", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
