package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; earlier files win because godotenv never
// overrides variables that are already set.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the env files found in dir and returns the ones loaded.
func loadEnvFiles(dir string) []string {
	var loaded []string
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
		loaded = append(loaded, path)
	}
	return loaded
}
