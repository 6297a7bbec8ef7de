package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/internal/configloader"
	"github.com/yaklabco/codeblock/internal/logging"
)

func newInitCommand() *cobra.Command {
	var force bool
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new codeblock configuration file",
		Long: `Create a new .codeblock.yml configuration file in the current directory
with the default editor settings, each documented.`,
		Example: `  codeblock init                      Create .codeblock.yml
  codeblock init --output custom.yml  Write to a custom file path
  codeblock init --force              Overwrite an existing file`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := logging.NewInteractive()

			path, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			if err := configloader.WriteDefault(path, force); err != nil {
				if errors.Is(err, configloader.ErrConfigExists) {
					return withCode(ExitInvalidUsage, fmt.Errorf("file %q already exists; use --force to overwrite", output))
				}
				return withCode(ExitIOError, err)
			}

			logger.Info("created configuration file", logging.FieldPath, output)
			logger.Info("run 'codeblock validate' to check your documents")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing configuration file")
	cmd.Flags().StringVarP(&output, "output", "o", configloader.ProjectConfigName, "output file path")

	return cmd
}
