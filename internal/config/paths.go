package config

import (
	"os"
	"path/filepath"
)

// BasePath returns the root directory for todoscope data.
// It uses $TODOSCOPE_PATH if set, otherwise defaults to ~/.todoscope.
func BasePath() string {
	if v := os.Getenv("TODOSCOPE_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".todoscope")
	}
	return filepath.Join(home, ".todoscope")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(BasePath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(BasePath(), ".env")
}
