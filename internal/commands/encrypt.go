package commands

import (
	"github.com/spf13/cobra"

	"github.com/ninja-atmos/pixlock/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] [paths...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := parseConfig(args)
			if err != nil {
				return err
			}

			return logic.Run(cfg)
		},
	}
}
