package config

import (
	"fmt"
	"time"
)

// DefaultContainer is the container a root mounts into when none is named.
const DefaultContainer = "div_for_virtual_dom"

// DefaultFrameInterval is how long the host waits before servicing a
// repaint request.
const DefaultFrameInterval = 16 * time.Millisecond

// Config is the root configuration structure.
type Config struct {
	Engine   EngineConfig   `json:"engine" yaml:"engine"`
	Host     HostConfig     `json:"host" yaml:"host"`
	Keymap   KeymapConfig   `json:"keymap" yaml:"keymap"`
	UI       UIConfig       `json:"ui" yaml:"ui"`
	Features FeaturesConfig `json:"features" yaml:"features"`
}

// EngineConfig selects how state is owned and how invalidation is computed.
type EngineConfig struct {
	Strategy string `json:"strategy" yaml:"strategy"` // owned, injected, shared, arena, functional
	Policy   string `json:"policy" yaml:"policy"`     // diff or graph
}

// HostConfig configures the display host.
type HostConfig struct {
	// Containers lists the container IDs the host provides.
	Containers []string `json:"containers" yaml:"containers"`
	// Mount is the container the root is mounted into.
	Mount string `json:"mount" yaml:"mount"`
	// FrameInterval delays a repaint after it is requested.
	FrameInterval time.Duration `json:"frameInterval" yaml:"frameInterval"`
}

// FeaturesConfig holds feature flag settings.
type FeaturesConfig struct {
	Flags map[string]bool `json:"flags" yaml:"flags"`
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowHelp  bool        `json:"showHelp" yaml:"showHelp"`
	ShowStats bool        `json:"showStats" yaml:"showStats"`
	Theme     ThemeConfig `json:"theme" yaml:"theme"`
}

// ThemeConfig configures the color theme.
type ThemeConfig struct {
	Name      string            `json:"name" yaml:"name"`
	Overrides map[string]string `json:"overrides" yaml:"overrides"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Strategy: "owned",
			Policy:   "diff",
		},
		Host: HostConfig{
			Containers:    []string{DefaultContainer},
			Mount:         DefaultContainer,
			FrameInterval: DefaultFrameInterval,
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
		UI: UIConfig{
			ShowHelp:  true,
			ShowStats: true,
			Theme: ThemeConfig{
				Name:      "default",
				Overrides: make(map[string]string),
			},
		},
		Features: FeaturesConfig{
			Flags: make(map[string]bool),
		},
	}
}

// Validate checks the configuration for errors, repairing values that have
// an obvious default.
func (c *Config) Validate() error {
	if c.Host.FrameInterval < 0 {
		c.Host.FrameInterval = DefaultFrameInterval
	}
	if len(c.Host.Containers) == 0 {
		c.Host.Containers = []string{DefaultContainer}
	}
	if c.Host.Mount == "" {
		c.Host.Mount = c.Host.Containers[0]
	}
	if c.Engine.Strategy == "" {
		c.Engine.Strategy = "owned"
	}
	if c.Engine.Policy == "" {
		c.Engine.Policy = "diff"
	}
	if c.Keymap.Overrides == nil {
		c.Keymap.Overrides = make(map[string]string)
	}
	if c.Features.Flags == nil {
		c.Features.Flags = make(map[string]bool)
	}
	if c.UI.Theme.Name == "" {
		c.UI.Theme.Name = "default"
	}
	for _, id := range c.Host.Containers {
		if id == "" {
			return fmt.Errorf("host.containers: empty container id")
		}
	}
	return nil
}
