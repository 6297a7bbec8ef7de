// Package cli provides the Cobra command structure for codeblock.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/internal/configloader"
	"github.com/yaklabco/codeblock/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root codeblock command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "codeblock",
		Short: "Edit, validate, diff and repair JSON and YAML documents",
		Long: `codeblock is a structured editor toolkit for JSON and YAML.

It validates documents for syntax, bracket and schema errors with precise
line attribution, renders value-level diffs with folding, recovers values from
malformed input, and hosts a terminal editor with live validation.

` + environmentHelp(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
			switch color {
			case "auto", "always", "never":
				return nil
			default:
				return withCode(ExitInvalidUsage, fmt.Errorf("invalid --color %q: must be auto, always or never", color))
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(
		newValidateCommand(),
		newDiffCommand(),
		newRepairCommand(),
		newTokenizeCommand(),
		newExampleCommand(),
		newEditCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)

	// Usage errors from flag parsing map to the usage exit code.
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitInvalidUsage, err)
	})

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

// environmentHelp lists the supported environment variables.
func environmentHelp() string {
	var b strings.Builder
	b.WriteString("Environment:")
	for _, v := range configloader.ListEnvVars() {
		fmt.Fprintf(&b, "\n  %-28s %s", v.Name, v.Help)
	}
	return b.String()
}
