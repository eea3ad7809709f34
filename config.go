// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rahulsingh3292/paradedb-go/internal/dialect"
)

// Config holds the recognized configuration options. The zero value is not
// useful; start from [DefaultConfig] or [LoadConfig].
type Config struct {
	// SkipOperandPrep lists operator names whose right-hand value bypasses
	// the default value-preparation step in the lookup adapter and is passed
	// through as a single positional argument.
	SkipOperandPrep []string `yaml:"skip_operand_prep"`
	// ForceCurrentSchema pins all emitted calls to the current schema prefix
	// without probing the server version.
	ForceCurrentSchema bool `yaml:"force_current_schema"`
	// StrictResolve makes unresolvable table lookups fail with
	// [ErrModelNotFound] instead of falling back to the query's own model.
	StrictResolve bool `yaml:"strict_resolve"`
	// LegacyFunctions lists function names always emitted with the legacy
	// schema prefix regardless of server version.
	LegacyFunctions []string `yaml:"legacy_functions"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		LegacyFunctions: []string{"term", "match"},
	}
}

// LoadConfig reads a YAML configuration file. Options absent from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot load config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	return cfg, nil
}

// NewSelector builds a dialect selector from the configuration. The probe may
// be nil, in which case the selector never consults a server version.
func (c Config) NewSelector(probe VersionProbe) *Selector {
	return dialect.NewSelector(probe, c.ForceCurrentSchema, c.LegacyFunctions)
}

// skipsPrep reports whether the operator is exempt from right-hand value
// preparation.
func (c Config) skipsPrep(op string) bool {
	for _, name := range c.SkipOperandPrep {
		if name == op {
			return true
		}
	}
	return false
}
