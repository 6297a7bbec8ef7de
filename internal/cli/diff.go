package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/diff"
	"github.com/yaklabco/codeblock/pkg/reporter"
	"github.com/yaklabco/codeblock/pkg/value"
)

type diffFlags struct {
	language string
	context  int
	noFold   bool
	wire     bool
	unified  bool
}

func newDiffCommand() *cobra.Command {
	flags := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff <original> <modified>",
		Short: "Show a structural diff of two documents",
		Long: `Compare two JSON or YAML documents by value. Both sides are pretty-printed
in the same language before diffing, so formatting differences disappear and
only real changes remain. Long unchanged runs are folded.`,
		Example: `  codeblock diff old.json new.json
  codeblock diff --language yaml a.json b.json   # Compare as YAML
  codeblock diff --wire a.json b.json            # Emit the line wire format
  codeblock diff --unified a.yaml b.yaml         # Classic unified diff`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.language, "language", "", "language to render both sides in: json or yaml")
	cmd.Flags().IntVar(&flags.context, "context", 0, "unchanged lines kept around each change")
	cmd.Flags().BoolVar(&flags.noFold, "no-fold", false, "do not fold long unchanged runs")
	cmd.Flags().BoolVar(&flags.wire, "wire", false, "print records in the pipe-separated wire format")
	cmd.Flags().BoolVar(&flags.unified, "unified", false, "print a unified diff with hunk headers")
	cmd.MarkFlagsMutuallyExclusive("wire", "unified")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string, flags *diffFlags) error {
	cfg, err := loadConfig(cmd, &config.Config{Editor: config.EditorConfig{ContextLines: flags.context}})
	if err != nil {
		return err
	}

	original, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	modified, err := readInput(cmd, args[1])
	if err != nil {
		return err
	}

	lang, err := resolveLanguage(flags.language, original.Path, original.Content)
	if err != nil {
		return err
	}

	oldValue, err := parseDocument(original)
	if err != nil {
		return err
	}
	newValue, err := parseDocument(modified)
	if err != nil {
		return err
	}

	opts := diff.DefaultOptions(cfg.Editor)
	opts.Language = lang
	if cmd.Flags().Changed("context") {
		opts.ContextLines = flags.context
	}
	if flags.noFold {
		opts.Folding = false
	}

	records, err := diff.Compute(oldValue, newValue, opts)
	if err != nil {
		return withCode(ExitDataError, err)
	}

	out := cmd.OutOrStdout()
	writer := reporter.NewDiffWriter(reporter.Options{Writer: out, Color: colorMode(cmd)})
	switch {
	case flags.wire:
		if _, err := io.WriteString(out, diff.Encode(records)+"\n"); err != nil {
			return withCode(ExitIOError, err)
		}
		return nil
	case flags.unified:
		err = writer.WriteUnified(records, original.Name(), modified.Name(), opts.ContextLines)
	default:
		err = writer.WriteDiff(records, original.Name(), modified.Name())
	}
	return withCode(ExitIOError, err)
}

// parseDocument parses an input in the language of its own file name.
func parseDocument(in input) (any, error) {
	lang, err := resolveLanguage("", in.Path, in.Content)
	if err != nil {
		return nil, err
	}
	v, serr := value.ParseTolerant(string(in.Content), lang)
	if serr != nil {
		return nil, withCode(ExitDataError, fmt.Errorf("parse %s: %w", in.Name(), serr))
	}
	return v, nil
}
