package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// resolveProjectDirectory returns the absolute project directory from the
// --dir flag, falling back to the working directory.
func resolveProjectDirectory(cmd *cobra.Command) (string, error) {
	dir, err := OptionalStringFlag(cmd, "dir")
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	rootPath, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %q: %w", dir, err)
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return "", fmt.Errorf("failed to access path %q: %w", rootPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path %q is not a directory", rootPath)
	}
	return rootPath, nil
}
