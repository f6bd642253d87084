//go:build (darwin || linux) && !noyuv

// Shared utilities for purego-based bindings.

package media

import (
	"os"
	"path/filepath"
)

// findModuleRoot walks up from the working directory to the directory
// containing go.mod. Development builds drop native libraries in build/
// under the module root.
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
