package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ninja-atmos/pixlock/internal/keystore"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "pixlock [flags] command [flags]",
		Short: "Image encryption utility",
		Long: `An image encryption utility that protects files with a locally-stored key.
The key is generated on first use and persisted next to the tool; without it
encrypted files cannot be recovered.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			viper.SetEnvPrefix("pixlock")
			viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			viper.AutomaticEnv()

			return viper.BindPFlags(cmd.Root().PersistentFlags())
		},
	}

	flags := root.PersistentFlags()

	flags.StringP("key-file", "k", keystore.DefaultPath, "Path to the raw 32-byte key file, created on first use")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("delete", false, "Delete the source file after successful processing")
	flags.Bool("dry", false, "Preview which files would be processed")
	flags.Bool("stats", false, "Print processing statistics")
	flags.Bool("preserve-timestamps", false, "Copy the source modification time to the output")

	flags.String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.StringSlice("include", nil, "Glob patterns (find -path semantics) selecting files when walking directories")
	flags.StringSlice("exclude", nil, "Glob patterns excluding files; excludes win over includes")
	flags.String("include-from", "", "JSONC file with include patterns")
	flags.String("exclude-from", "", "JSONC file with exclude patterns")

	root.AddCommand(NewKeygenCommand(), NewEncryptCommand(), NewDecryptCommand())

	return root
}
