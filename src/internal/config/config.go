package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/maksimkurb/blocklist-attest/src/internal/log"
)

// LoadConfig reads a TOML configuration file on top of the defaults.
//
// When the file does not exist and required is false, defaults anchored at
// the file's directory are returned. This lets the tools run from a
// repository checkout with no configuration at all.
func LoadConfig(configPath string, required bool) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	cfg := Defaults(filepath.Dir(configFile))
	cfg._absConfigFilePath = configFile

	content, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		if required {
			return nil, fmt.Errorf("configuration file not found: %s", configFile)
		}
		log.Debugf("Configuration file %s not found, using defaults", configFile)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := toml.Unmarshal(content, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config file at line %d, column %d: %v", row, col, derr)
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}
	cfg.fillMissingSections()

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("Blocklist file: %s", cfg.GetAbsBlocklistFile())

	return cfg, nil
}

// fillMissingSections restores defaults for sections that a file
// explicitly emptied, so accessors never dereference nil.
func (c *Config) fillMissingSections() {
	defaults := Defaults(c.GetConfigDir())
	if c.Paths == nil {
		c.Paths = defaults.Paths
	}
	if c.Discovery == nil {
		c.Discovery = defaults.Discovery
	}
	if c.Signing == nil {
		c.Signing = defaults.Signing
	}
	if c.Server == nil {
		c.Server = defaults.Server
	}
}
