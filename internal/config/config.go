// Package config holds the bridge checker's built-in names and the
// optbridge.yaml project configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level optbridge.yaml configuration.
type Config struct {
	// Advisories enables RedundantConversion hints for manual getOrNull()
	// calls at positions where the coercion would have applied anyway.
	// Defaults to true.
	Advisories *bool `yaml:"advisories,omitempty"`

	// RejectionNotes enables informational notes at would-be-eligible sites
	// where the coercion was considered and rejected. The surrounding type
	// error is reported either way. Defaults to true.
	RejectionNotes *bool `yaml:"rejection_notes,omitempty"`

	// Report is a path to a SQLite database receiving the structured
	// diagnostic records of each run. Empty disables the sink.
	Report string `yaml:"report,omitempty"`

	// Color controls diagnostic coloring on stdout: "auto" (default),
	// "always" or "never".
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no optbridge.yaml is present.
func Default() *Config {
	on := true
	return &Config{Advisories: &on, RejectionNotes: &on, Color: "auto"}
}

// Load reads and validates an optbridge.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that yaml decoding cannot.
func (c *Config) Validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	return nil
}

// AdvisoriesEnabled reports whether RedundantConversion hints are on.
func (c *Config) AdvisoriesEnabled() bool {
	return c.Advisories == nil || *c.Advisories
}

// RejectionNotesEnabled reports whether rejected-coercion notes are on.
func (c *Config) RejectionNotesEnabled() bool {
	return c.RejectionNotes == nil || *c.RejectionNotes
}
