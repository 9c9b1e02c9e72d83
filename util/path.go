package util

import (
	"os"
	"path/filepath"
	"strings"
)

func home() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	h, _ := os.UserHomeDir()
	return h
}

// ExpandUser replaces a leading ~ with the home directory.
func ExpandUser(path string) string {
	if path == "~" {
		return home()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home(), path[2:])
	}
	return path
}

// ConfigDir is the directory holding app's config files, under
// $XDG_CONFIG_HOME or ~/.config.
func ConfigDir(app string) string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(home(), ".config")
	}
	return filepath.Join(ExpandUser(base), app)
}
