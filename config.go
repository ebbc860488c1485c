package jsondoc

import (
	"fmt"

	"github.com/cybergodev/jsondoc/internal"
)

// Config holds parser leniencies, limits, dump formatting and batch sizing.
// The mapstructure tags let a config file or environment populate it.
type Config struct {
	// Parser leniencies, each only widens what is accepted
	Simple   bool `mapstructure:"simple" yaml:"simple"`
	Comment  bool `mapstructure:"comment" yaml:"comment"`
	SQuote   bool `mapstructure:"squote" yaml:"squote"`
	Unstrict bool `mapstructure:"unstrict" yaml:"unstrict"`

	// Limits
	MaxObjectDepth int   `mapstructure:"max_object_depth" yaml:"max_object_depth"`
	MaxArrayDepth  int   `mapstructure:"max_array_depth" yaml:"max_array_depth"`
	MaxInputSize   int64 `mapstructure:"max_input_size" yaml:"max_input_size"`

	// Dump formatting
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Indent string `mapstructure:"indent" yaml:"indent"`

	// Batch processing
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultConfig returns the default configuration: strict JSON with compact
// output and a nesting limit of 32 for objects and arrays
func DefaultConfig() *Config {
	return &Config{
		MaxObjectDepth: internal.DefaultMaxObjectDepth,
		MaxArrayDepth:  internal.DefaultMaxArrayDepth,
		MaxInputSize:   internal.DefaultMaxInputSize,
		Indent:         "  ",
		Workers:        internal.DefaultWorkers,
	}
}

// StrictConfig is DefaultConfig; every leniency off
func StrictConfig() *Config {
	return DefaultConfig()
}

// LenientConfig turns on every parser leniency
func LenientConfig() *Config {
	cfg := DefaultConfig()
	cfg.Simple = true
	cfg.Comment = true
	cfg.SQuote = true
	cfg.Unstrict = true
	return cfg
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}

	clone := *c
	return &clone
}

// Validate rejects negative limits and fills zero values with defaults
func (c *Config) Validate() error {
	if c == nil {
		return newOperationError("validate_config", "", "config cannot be nil", ErrInvalidConfig)
	}
	if c.MaxObjectDepth < 0 || c.MaxArrayDepth < 0 {
		return newOperationError("validate_config", "",
			fmt.Sprintf("depth limits cannot be negative (object %d, array %d)", c.MaxObjectDepth, c.MaxArrayDepth),
			ErrInvalidConfig)
	}
	if c.MaxInputSize < 0 {
		return newOperationError("validate_config", "", "MaxInputSize cannot be negative", ErrInvalidConfig)
	}
	if c.Workers < 0 || c.Workers > internal.MaxWorkers {
		return newOperationError("validate_config", "",
			fmt.Sprintf("Workers must be between 0 and %d", internal.MaxWorkers), ErrInvalidConfig)
	}

	// Apply defaults for unset values
	if c.MaxObjectDepth == 0 {
		c.MaxObjectDepth = internal.DefaultMaxObjectDepth
	}
	if c.MaxArrayDepth == 0 {
		c.MaxArrayDepth = internal.DefaultMaxArrayDepth
	}
	if c.MaxInputSize == 0 {
		c.MaxInputSize = internal.DefaultMaxInputSize
	}
	if c.Workers == 0 {
		c.Workers = internal.DefaultWorkers
	}
	return nil
}

// resolveConfig picks the first non-nil config or the default
func resolveConfig(cfgs []*Config) *Config {
	for _, c := range cfgs {
		if c != nil {
			return c
		}
	}
	return DefaultConfig()
}
