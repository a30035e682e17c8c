package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.biblewing).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".biblewing"), nil
}

// GetCrashLogDir returns where crash logs are written.
// Resolution order (first match wins):
// 1. Explicit config via "logs.dir"
// 2. XDG_STATE_HOME/biblewing/logs (if XDG_STATE_HOME is set)
// 3. ~/.biblewing/logs
func GetCrashLogDir() string {
	if dir := viper.GetString("logs.dir"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "biblewing", "logs")
	}
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "biblewing", "logs")
	}
	return filepath.Join(dir, "logs")
}

// ResolveAudioPath joins a stored audio path onto basePath. Absolute stored
// paths and an empty basePath leave the path unchanged.
func ResolveAudioPath(basePath, stored string) string {
	if stored == "" || basePath == "" || filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(basePath, stored)
}
