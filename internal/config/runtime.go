package config

import (
	"os"
	"path/filepath"
)

const runtimePathEnv = "MOODMEM_RUNTIME_PATH"

// GetRuntimePath resolves the runtime directory; relative paths are taken
// from the home directory.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv(runtimePathEnv))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".moodmem"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
