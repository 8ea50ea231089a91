package commands

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ninja-atmos/pixlock/internal/config"
)

// parseConfig unmarshals all settings (env vars and flags) into a Config,
// resolves positional args, and validates the result.
func parseConfig(args []string) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(args) == 0 {
		cfg.Files = []string{"."}
	} else {
		cfg.Files = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
