package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/internal/ui/pretty"
	"github.com/yaklabco/codeblock/pkg/token"
)

type tokenizeFlags struct {
	language string
	classes  bool
}

func newTokenizeCommand() *cobra.Command {
	flags := &tokenizeFlags{}

	cmd := &cobra.Command{
		Use:   "tokenize [file|-]",
		Short: "Print a document with syntax highlighting",
		Long: `Split each line of a JSON or YAML document into classified tokens and print
it highlighted. With --classes, print one token per line as
"line:column class content" instead.`,
		Example: `  codeblock tokenize config.yaml
  cat data.json | codeblock tokenize --classes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			return runTokenize(cmd, name, flags)
		},
	}

	cmd.Flags().StringVar(&flags.language, "language", "", "language: json or yaml (default: from file name or content)")
	cmd.Flags().BoolVar(&flags.classes, "classes", false, "list tokens with their highlight classes")

	return cmd
}

func runTokenize(cmd *cobra.Command, name string, flags *tokenizeFlags) error {
	in, err := readInput(cmd, name)
	if err != nil {
		return err
	}
	lang, err := resolveLanguage(flags.language, in.Path, in.Content)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	bw := bufio.NewWriter(out)

	text := strings.ReplaceAll(string(in.Content), "\r\n", "\n")
	for idx, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		col := 1
		for _, tok := range token.Tokenize(line, lang) {
			if flags.classes {
				fmt.Fprintf(bw, "%d:%d %s %q\n", idx+1, col, tok.Type, tok.Content)
			} else {
				bw.WriteString(styles.Token(tok.Type).Render(tok.Content))
			}
			col += tok.Len()
		}
		if !flags.classes {
			bw.WriteString("\n")
		}
	}

	if err := bw.Flush(); err != nil {
		return withCode(ExitIOError, err)
	}
	return nil
}
