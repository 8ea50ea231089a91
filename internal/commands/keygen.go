package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ninja-atmos/pixlock/internal/keystore"
)

// NewKeygenCommand creates a new cobra command for the keygen subcommand.
// It creates the key file if it does not exist yet and reports which
// happened. The key material itself is never printed.
func NewKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "keygen [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate the encryption key file if it does not exist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := viper.GetString("key-file")

			_, statErr := os.Stat(path)
			existed := statErr == nil

			if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
				return fmt.Errorf("checking key file %q: %w", path, statErr)
			}

			if _, err := keystore.LoadOrCreate(path); err != nil {
				return err
			}

			if viper.GetBool("quiet") {
				return nil
			}

			if existed {
				cmd.Printf("Key file %q already exists; keeping it\n", path)
			} else {
				cmd.Printf("Generated new key file %q\n", path)
			}

			return nil
		},
	}
}
