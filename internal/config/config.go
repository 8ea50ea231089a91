// Package config holds the runtime configuration shared by all commands.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config carries all options, populated from flags and environment
// variables via viper.
type Config struct {
	// Common flags
	KeyFile            string `mapstructure:"key-file"            validate:"required"`
	Parallel           int    `mapstructure:"parallel"            validate:"min=1"`
	Quiet              bool   `mapstructure:"quiet"`
	Delete             bool   `mapstructure:"delete"`
	Dry                bool   `mapstructure:"dry"`
	Stats              bool   `mapstructure:"stats"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`

	EncryptSuffix string `mapstructure:"encrypt-ext" validate:"required"`
	DecryptSuffix string `mapstructure:"decrypt-ext"`

	// File selection
	Include     []string `mapstructure:"include"`
	Exclude     []string `mapstructure:"exclude"`
	IncludeFrom string   `mapstructure:"include-from"`
	ExcludeFrom string   `mapstructure:"exclude-from"`

	// Command-specific
	Decrypt bool

	// Positional arguments
	Files []string `validate:"min=1"`
}

// Validate validates the configuration against the struct tags plus a few
// hand checks viper cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	if !strings.HasPrefix(c.EncryptSuffix, ".") {
		return fmt.Errorf("encrypt-ext %q must start with a dot", c.EncryptSuffix)
	}

	if c.DecryptSuffix != "" && !strings.HasPrefix(c.DecryptSuffix, ".") {
		return fmt.Errorf("decrypt-ext %q must start with a dot", c.DecryptSuffix)
	}

	return nil
}
