// Package features resolves feature flags from CLI overrides, config file
// values, and compiled-in defaults, in that order.
package features
