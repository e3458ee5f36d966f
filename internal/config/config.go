// Package config loads docmenu settings.
//
// Values come, in increasing priority, from the defaults declared in struct
// tags, an optional docmenu.yaml in the project directory, a .env file and
// DOCMENU_-prefixed environment variables (DOCMENU_MENU_MAX_FILES_IN_GROUP
// sets menu.max_files_in_group). Command-line flags are applied on top by
// the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skelly-dev/docmenu/internal/logger"
	"github.com/skelly-dev/docmenu/internal/persist"
	"github.com/skelly-dev/docmenu/internal/reconcile"
	"github.com/skelly-dev/docmenu/internal/scan"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "docmenu.yaml"

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "DOCMENU"

// Config holds all configuration for the application.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Project holds the locations of the files docmenu maintains.
	Project persist.Config `mapstructure:"project"`
	// Menu holds the reconciliation policy.
	Menu reconcile.Config `mapstructure:"menu"`
	// Scan holds the input directories and scanner settings.
	Scan scan.Config `mapstructure:"scan"`
}

// LoadConfig loads configuration for the project rooted at dir.
func LoadConfig(dir string) (*Config, error) {
	// Ignore error if file doesn't exist
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to inspect %s: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	if c.Menu.MinFilesInNewGroup < 0 || c.Menu.MaxFilesInGroup < 0 || c.Menu.RemovalMinimum < 0 {
		return fmt.Errorf("menu thresholds must not be negative")
	}
	if c.Menu.RemovalRatio < 0 || c.Menu.RemovalRatio > 1 {
		return fmt.Errorf("menu.removal_ratio must be between 0 and 1, got %v", c.Menu.RemovalRatio)
	}
	if c.Project.Dir == "" || c.Project.MenuFile == "" || c.Project.SnapshotFile == "" {
		return fmt.Errorf("project paths must not be empty")
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default
// values in Viper based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
