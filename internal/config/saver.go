package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// saveConfig is the on-disk form, with durations as strings.
type saveConfig struct {
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Host     saveHostConfig `json:"host" yaml:"host"`
	Keymap   KeymapConfig   `json:"keymap" yaml:"keymap"`
	UI       UIConfig       `json:"ui" yaml:"ui"`
	Features FeaturesConfig `json:"features,omitempty" yaml:"features,omitempty"`
}

type saveHostConfig struct {
	Containers    []string `json:"containers,omitempty" yaml:"containers,omitempty"`
	Mount         string   `json:"mount,omitempty" yaml:"mount,omitempty"`
	FrameInterval string   `json:"frameInterval,omitempty" yaml:"frameInterval,omitempty"`
}

// toSaveConfig converts Config to the serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Engine: cfg.Engine,
		Host: saveHostConfig{
			Containers:    cfg.Host.Containers,
			Mount:         cfg.Host.Mount,
			FrameInterval: cfg.Host.FrameInterval.String(),
		},
		Keymap:   cfg.Keymap,
		UI:       cfg.UI,
		Features: cfg.Features,
	}
}

func fromSaveConfig(sc saveConfig) (*Config, error) {
	cfg := &Config{
		Engine: sc.Engine,
		Host: HostConfig{
			Containers: sc.Host.Containers,
			Mount:      sc.Host.Mount,
		},
		Keymap:   sc.Keymap,
		UI:       sc.UI,
		Features: sc.Features,
	}
	if sc.Host.FrameInterval != "" {
		d, err := time.ParseDuration(sc.Host.FrameInterval)
		if err != nil {
			return nil, fmt.Errorf("host.frameInterval: %w", err)
		}
		cfg.Host.FrameInterval = d
	}
	return cfg, nil
}

// Save writes the config to ConfigPath.
func Save(cfg *Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, as YAML or JSON by extension.
func SaveTo(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sc := toSaveConfig(cfg)
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(sc)
	} else {
		data, err = json.MarshalIndent(sc, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveTheme updates only the theme name in config and saves.
func SaveTheme(themeName string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.UI.Theme.Name = themeName
	cfg.UI.Theme.Overrides = make(map[string]string)
	return Save(cfg)
}
