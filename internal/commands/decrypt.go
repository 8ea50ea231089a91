package commands

import (
	"github.com/spf13/cobra"

	"github.com/ninja-atmos/pixlock/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] [paths...]",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := parseConfig(args)
			if err != nil {
				return err
			}

			cfg.Decrypt = true

			return logic.Run(cfg)
		},
	}
}
