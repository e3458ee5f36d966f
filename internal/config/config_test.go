package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, ".docmenu", cfg.Project.Dir)
	assert.Equal(t, "menu.txt", cfg.Project.MenuFile)
	assert.Equal(t, "menu.state", cfg.Project.SnapshotFile)
	assert.Equal(t, 3, cfg.Menu.MinFilesInNewGroup)
	assert.Equal(t, 10, cfg.Menu.MaxFilesInGroup)
	assert.InDelta(t, 0.5, cfg.Menu.RemovalRatio, 1e-9)
	assert.Equal(t, 10, cfg.Menu.RemovalMinimum)
	assert.False(t, cfg.Menu.FailOnMassRemoval)
	assert.Equal(t, []string{"."}, cfg.Scan.Inputs)
	assert.Equal(t, ".docmenuignore", cfg.Scan.IgnoreFile)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := dedent.Dedent(`
		log:
		  level: debug
		menu:
		  max_files_in_group: 0
		  fail_on_mass_removal: true
		scan:
		  inputs:
		    - api=services/api
		    - web
		  disable_indexes:
		    - variable
	`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0, cfg.Menu.MaxFilesInGroup)
	assert.True(t, cfg.Menu.FailOnMassRemoval)
	assert.Equal(t, 3, cfg.Menu.MinFilesInNewGroup)
	assert.Equal(t, []string{"api=services/api", "web"}, cfg.Scan.Inputs)
	assert.Equal(t, []string{"variable"}, cfg.Scan.DisableIndexes)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCMENU_LOG_FORMAT=json\n"), 0644))
	t.Setenv("DOCMENU_MENU_MIN_FILES_IN_NEW_GROUP", "5")
	t.Cleanup(func() { os.Unsetenv("DOCMENU_LOG_FORMAT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Menu.MinFilesInNewGroup)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("menu:\n  removal_ratio: 1.5\n"), 0644))

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "removal_ratio")
}

func TestReconcileOptionsFromConfig(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	opts := cfg.Menu.Options()
	assert.Equal(t, 3, opts.MinFilesInNewGroup)
	assert.Equal(t, 10, opts.MaxFilesInGroup)
	assert.NotNil(t, opts.Now)
}
