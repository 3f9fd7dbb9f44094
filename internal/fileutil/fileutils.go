package fileutil

import (
	"os"
	"path/filepath"
)

func FileExists(name string) bool {
	if stat, err := os.Stat(name); err == nil {
		return !stat.IsDir()
	}
	return false
}

// ProbeSettingsFilename returns cmdLineArg when given, otherwise the first
// existing <name>.jsonc or <name>.json in dir, defaulting to <name>.jsonc.
func ProbeSettingsFilename(cmdLineArg, dir, name string) string {
	if cmdLineArg != "" {
		return cmdLineArg
	}
	var nameVariants = []string{name + ".jsonc", name + ".json"}
	for _, variant := range nameVariants {
		if filename := filepath.Join(dir, variant); FileExists(filename) {
			return filename
		}
	}
	return filepath.Join(dir, name+".jsonc")
}
