package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skelly-dev/docmenu/internal/config"
	"github.com/skelly-dev/docmenu/internal/fileutil"
)

const defaultConfigFile = `# docmenu configuration. Every key is optional; environment variables
# such as DOCMENU_MENU_MAX_FILES_IN_GROUP override these values.
log:
  level: info
  format: console
project:
  dir: .docmenu
scan:
  inputs:
    - .
  ignore_file: .docmenuignore
  disable_indexes: []
menu:
  min_files_in_new_group: 3
  max_files_in_group: 10
  removal_ratio: 0.5
  removal_minimum: 10
  fail_on_mass_removal: false
`

const defaultIgnoreFile = `# Paths docmenu never adds to the menu, gitignore syntax.
# .git/, .docmenu/, node_modules/, vendor/ and test files are always skipped.
`

func RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveProjectDirectory(cmd)
	if err != nil {
		return err
	}

	if err := fileutil.WriteIfMissing(filepath.Join(rootPath, config.FileName), []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = p.log.Sync() }()

	if p.cfg.Scan.IgnoreFile != "" {
		ignorePath := filepath.Join(rootPath, p.cfg.Scan.IgnoreFile)
		if err := fileutil.WriteIfMissing(ignorePath, []byte(defaultIgnoreFile), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.cfg.Scan.IgnoreFile, err)
		}
	}

	menuDir := p.store.Paths().Dir
	if err := os.MkdirAll(menuDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", menuDir, err)
	}
	fmt.Printf("Initialized docmenu in %s\n", menuDir)

	noBuild, err := OptionalBoolFlag(cmd, "no-build", false)
	if err != nil {
		return err
	}
	if noBuild {
		return nil
	}

	fmt.Println("Running initial build...")
	out, err := p.build(cmd.Context(), buildOptions{})
	if err != nil {
		return err
	}
	fmt.Printf("Menu written to %s (%d files)\n", p.store.Paths().Menu, len(out.Scanner.Files()))
	return nil
}
