package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/internal/tui"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/fsutil"
)

// logFilePermissions is the file mode for TUI log files.
const logFilePermissions = 0o600

type editFlags struct {
	language string
	schema   string
	logFile  string
}

func newEditCommand() *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a JSON or YAML file in the terminal",
		Long: `Open a JSON or YAML file in a terminal editor with syntax highlighting,
bracket auto-closing, indentation-aware Enter, undo/redo and live validation.
A missing file is created on save.

Keys: ctrl+s save, ctrl+z undo, ctrl+y redo, ctrl+a select all, ctrl+c copy,
ctrl+v paste, ctrl+l switch language, ctrl+f toggle fold, ctrl+q quit.`,
		Example: `  codeblock edit config.json
  codeblock edit --schema schema.json deploy.yaml
  codeblock edit --log-file /tmp/codeblock.log data.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.language, "language", "", "language: json or yaml (default: from file name or content)")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "JSON-Schema document to validate against")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write logs to this file while the editor runs")

	return cmd
}

func runEdit(cmd *cobra.Command, path string, flags *editFlags) error {
	cfg, err := loadConfig(cmd, &config.Config{Editor: config.EditorConfig{Schema: flags.schema}})
	if err != nil {
		return err
	}

	in, err := readInput(cmd, path)
	if err != nil && !errors.Is(err, fsutil.ErrNotFound) {
		return err
	}
	in.Path = path

	lang, err := resolveLanguage(flags.language, path, in.Content)
	if err != nil {
		return err
	}

	s, err := loadSchema(cmd, cfg.Editor.Schema)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if flags.logFile != "" {
		file, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
		if err != nil {
			return withCode(ExitIOError, fmt.Errorf("open log file: %w", err))
		}
		defer file.Close()
		level := "info"
		if logging.Default().GetLevel() == log.DebugLevel {
			level = "debug"
		}
		logger = logging.NewWithWriter(file, level)
	}

	err = tui.Run(commandContext(cmd), tui.Options{
		Path:     path,
		Content:  in.Content,
		Snapshot: in.Snapshot,
		Language: lang,
		Config:   cfg.Editor,
		Schema:   s,
		Backup:   cfg.Backup,
		Color:    colorMode(cmd),
		Logger:   logger,
	})
	if err != nil {
		return withCode(ExitIOError, err)
	}
	return nil
}
