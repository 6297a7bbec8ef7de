package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/internal/ui/pretty"
)

// Run opens the editor full-screen and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	model, err := New(ctx, opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}

	if model.Modified() {
		model.logger.Warn("quit with unsaved changes", logging.FieldPath, opts.Path)
	}
	return nil
}

func colorEnabled(mode string) bool {
	return pretty.IsColorEnabled(mode, os.Stdout)
}
