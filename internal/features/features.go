package features

import (
	"errors"
	"sync"

	"github.com/wilbur182/viewcache/internal/config"
)

// ErrNotInitialized is returned when the feature manager is not initialized.
var ErrNotInitialized = errors.New("feature manager not initialized")

// Feature is a known flag with its default value.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

var (
	// StrictInvariants panics on engine invariant violations instead of
	// logging them.
	StrictInvariants = Feature{
		Name:        "strict_invariants",
		Default:     false,
		Description: "Panic on cache invariant violations",
	}

	// PaintStats shows which components were rebuilt or reused on each paint.
	PaintStats = Feature{
		Name:        "paint_stats",
		Default:     true,
		Description: "Show rebuilt/reused components under each frame",
	}
)

var allFeatures = []Feature{
	StrictInvariants,
	PaintStats,
}

var defaultValues = func() map[string]bool {
	m := make(map[string]bool, len(allFeatures))
	for _, f := range allFeatures {
		m[f.Name] = f.Default
	}
	return m
}()

// IsKnownFeature returns true if the feature name is registered.
func IsKnownFeature(name string) bool {
	_, ok := defaultValues[name]
	return ok
}

// Manager holds feature flag state.
type Manager struct {
	mu        sync.RWMutex
	cfg       *config.Config
	overrides map[string]bool
}

var globalManager *Manager

// Init installs the manager for cfg. Call once at startup after the config
// is loaded.
func Init(cfg *config.Config) {
	globalManager = &Manager{
		cfg:       cfg,
		overrides: make(map[string]bool),
	}
}

// SetOverride sets a CLI override, which wins over config.
func SetOverride(name string, enabled bool) {
	if globalManager == nil {
		return
	}
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.overrides[name] = enabled
}

// IsEnabled reports whether a feature is on.
func IsEnabled(name string) bool {
	if globalManager == nil {
		return defaultValues[name]
	}
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	return globalManager.resolveLocked(name)
}

// resolveLocked applies override > config > default. Caller holds mu.
func (m *Manager) resolveLocked(name string) bool {
	if enabled, ok := m.overrides[name]; ok {
		return enabled
	}
	if m.cfg != nil {
		if enabled, ok := m.cfg.Features.Flags[name]; ok {
			return enabled
		}
	}
	return defaultValues[name]
}

// List returns every known feature with its current state.
func List() map[string]bool {
	result := make(map[string]bool, len(allFeatures))
	if globalManager == nil {
		for _, f := range allFeatures {
			result[f.Name] = f.Default
		}
		return result
	}
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	for _, f := range allFeatures {
		result[f.Name] = globalManager.resolveLocked(f.Name)
	}
	return result
}

// ListAll returns a copy of every known feature's metadata.
func ListAll() []Feature {
	return append([]Feature(nil), allFeatures...)
}

// SetEnabled persists a flag to the user config and updates the running one.
func SetEnabled(name string, enabled bool) error {
	if globalManager == nil {
		return ErrNotInitialized
	}

	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()

	// Reload from disk so unrelated edits made since startup survive.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Features.Flags == nil {
		cfg.Features.Flags = make(map[string]bool)
	}
	cfg.Features.Flags[name] = enabled

	if globalManager.cfg != nil {
		globalManager.cfg.Features.Flags = cfg.Features.Flags
	}
	return config.Save(cfg)
}
