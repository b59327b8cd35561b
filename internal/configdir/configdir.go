package configdir

import (
	"os"
	"path/filepath"
)

const defaultConfigDir = "/etc/envcheck"

// ConfigDir resolves the system configuration directory respecting ENVCHECK_CONFIG_DIR
func ConfigDir() string {
	if env := os.Getenv("ENVCHECK_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return defaultConfigDir
}
