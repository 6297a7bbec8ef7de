package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/value"
)

func newExampleCommand() *cobra.Command {
	var schemaPath, language string

	cmd := &cobra.Command{
		Use:   "example --schema <file>",
		Short: "Print an example document for a schema",
		Long: `Build an example document from a JSON-Schema: defaults are used where
present, then the first enum member, then a placeholder for the declared
type. Object properties keep their declaration order.`,
		Example: `  codeblock example --schema schema.json
  codeblock example --schema schema.yaml --language yaml > config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schemaPath == "" {
				return withCode(ExitInvalidUsage, errors.New("--schema is required"))
			}
			lang, err := config.ParseLanguage(language)
			if err != nil {
				return withCode(ExitInvalidUsage, err)
			}

			s, err := loadSchema(cmd, schemaPath)
			if err != nil {
				return err
			}
			out, err := value.Format(s.Example(), lang)
			if err != nil {
				return withCode(ExitDataError, err)
			}
			if _, err := io.WriteString(cmd.OutOrStdout(), out+"\n"); err != nil {
				return withCode(ExitIOError, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "JSON-Schema document (JSON or YAML)")
	cmd.Flags().StringVar(&language, "language", "json", "output language: json or yaml")

	return cmd
}
