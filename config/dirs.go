package config

import (
	"os"
	"path/filepath"
)

// DataDir is ~/.fundctl, or ./.fundctl when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fundctl"
	}
	return filepath.Join(home, ".fundctl")
}

func NetworksDir() string {
	return filepath.Join(DataDir(), "networks")
}

func KeystoresDir() string {
	return filepath.Join(DataDir(), "keystores")
}
