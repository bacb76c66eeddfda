// Package config loads, saves and watches the viewcache configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	testPathMu sync.RWMutex
	testPath   string
)

// ConfigPath returns the path of the user config file,
// ~/.config/viewcache/config.json.
func ConfigPath() string {
	testPathMu.RLock()
	p := testPath
	testPathMu.RUnlock()
	if p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".viewcache", "config.json")
	}
	return filepath.Join(home, ".config", "viewcache", "config.json")
}

// SetTestConfigPath redirects ConfigPath for tests.
func SetTestConfigPath(path string) {
	testPathMu.Lock()
	defer testPathMu.Unlock()
	testPath = path
}

// ResetTestConfigPath undoes SetTestConfigPath.
func ResetTestConfigPath() {
	SetTestConfigPath("")
}

// Load reads the user config, returning defaults if it does not exist.
func Load() (*Config, error) {
	cfg, err := LoadFrom(ConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads a config file. Files ending in .yaml or .yml are parsed as
// YAML, anything else as JSON. Missing keys keep their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sc := toSaveConfig(Default())
	if isYAML(path) {
		err = yaml.Unmarshal(data, &sc)
	} else {
		err = json.Unmarshal(data, &sc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg, err := fromSaveConfig(sc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
