package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/codeblock/internal/configloader"
	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/fsutil"
	"github.com/yaklabco/codeblock/pkg/langdetect"
	"github.com/yaklabco/codeblock/pkg/schema"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// errNoInput is returned when input is requested from an interactive terminal.
var errNoInput = errors.New("no input: pass a file or pipe content to stdin")

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration for a command, applying cli overrides.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, withCode(ExitDataError, fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}
	return result.Config, nil
}

// colorMode returns the value of the persistent --color flag.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// input is a document read from a file or stdin.
type input struct {
	// Path is empty for stdin.
	Path     string
	Content  []byte
	Snapshot *fsutil.Snapshot
}

// Name returns a display name for the input.
func (in input) Name() string {
	if in.Path == "" {
		return "<stdin>"
	}
	return in.Path
}

// readInput reads the named file, or stdin when name is empty or "-".
func readInput(cmd *cobra.Command, name string) (input, error) {
	if name == "" || name == stdinName {
		stdin := cmd.InOrStdin()
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in int.
			return input{}, withCode(ExitInvalidUsage, errNoInput)
		}
		content, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, withCode(ExitIOError, fmt.Errorf("read stdin: %w", err))
		}
		return input{Content: content}, nil
	}

	content, snap, err := fsutil.ReadFile(commandContext(cmd), name)
	if err != nil {
		return input{}, withCode(ExitIOError, err)
	}
	return input{Path: name, Content: content, Snapshot: snap}, nil
}

// resolveLanguage picks the grammar for content: the flag when given, then the
// file extension, then the shape of the content.
func resolveLanguage(flag, path string, content []byte) (config.Language, error) {
	if flag != "" {
		lang, err := config.ParseLanguage(flag)
		if err != nil {
			return "", withCode(ExitInvalidUsage, err)
		}
		return lang, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return config.LanguageJSON, nil
	case ".yaml", ".yml":
		return config.LanguageYAML, nil
	}
	return langdetect.DocumentLanguage(string(content)), nil
}

// loadSchema reads a schema file. An empty path means no schema.
func loadSchema(cmd *cobra.Command, path string) (*schema.Schema, error) {
	if path == "" {
		return nil, nil //nolint:nilnil // No schema configured.
	}
	in, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	lang, err := resolveLanguage("", path, in.Content)
	if err != nil {
		return nil, err
	}
	s, err := schema.Load(in.Content, lang)
	if err != nil {
		return nil, withCode(ExitDataError, fmt.Errorf("load schema %s: %w", path, err))
	}
	return s, nil
}
