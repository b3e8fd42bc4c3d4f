package server

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// rootFs returns a read-only filesystem rooted at dir.
func rootFs(dir string) (afero.Fs, error) {
	// BasePathFs compares cleaned prefixes, so a relative "." would reject everything.
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid root directory: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}

	return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), absRoot)), nil
}

// normalizeRequestPath cleans the request path the same way http.FileServer
// does before opening it.
func normalizeRequestPath(rawPath string) string {
	if !strings.HasPrefix(rawPath, "/") {
		rawPath = "/" + rawPath
	}
	return path.Clean(rawPath)
}
