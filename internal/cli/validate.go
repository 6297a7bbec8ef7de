package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codeblock/internal/logging"
	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/reporter"
	"github.com/yaklabco/codeblock/pkg/runner"
	"github.com/yaklabco/codeblock/pkg/validate"
)

type validateFlags struct {
	schema    string
	language  string
	format    string
	ignore    []string
	strict    bool
	jobs      int
	noContext bool
	compact   bool
}

func newValidateCommand() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate JSON and YAML files",
		Long: `Validate JSON and YAML files for syntax errors, unbalanced brackets and,
when a schema is given, schema violations.

By default, validates all .json, .yaml and .yml files under the current
directory. Hidden files and directories are skipped.`,
		Example: `  codeblock validate                       # Validate current directory
  codeblock validate config/ app.yaml      # Validate specific paths
  codeblock validate --schema schema.json  # Check against a schema
  codeblock validate --format json         # Output as JSON for CI
  codeblock validate --strict              # Fail on warnings too`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.schema, "schema", "", "JSON-Schema document (JSON or YAML) to validate against")
	cmd.Flags().StringVar(&flags.language, "language", "", "force the language of every file: json or yaml")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, table, json")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as failures for the exit code")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string, flags *validateFlags) error {
	logger := logging.Default()
	ctx := commandContext(cmd)

	var forced config.Language
	if flags.language != "" {
		lang, err := config.ParseLanguage(flags.language)
		if err != nil {
			return withCode(ExitInvalidUsage, err)
		}
		forced = lang
	}

	cfg, err := loadConfig(cmd, &config.Config{
		Editor: config.EditorConfig{Schema: flags.schema},
		Format: config.OutputFormat(flags.format),
		Ignore: flags.ignore,
		Strict: flags.strict,
		Jobs:   flags.jobs,
	})
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return withCode(ExitInvalidUsage, fmt.Errorf("invalid format: %w", err))
	}

	s, err := loadSchema(cmd, cfg.Editor.Schema)
	if err != nil {
		return err
	}
	validator, err := validate.New(cfg.Editor, s)
	if err != nil {
		return withCode(ExitDataError, err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	runOpts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Language:     forced,
	}
	logger.Debug("starting validation run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldSchema, cfg.Editor.Schema,
		logging.FieldStrict, cfg.Strict,
	)

	result, err := runner.New(validator).Run(ctx, runOpts)
	if err != nil {
		return withCode(ExitIOError, fmt.Errorf("validation run failed: %w", err))
	}

	logger.Debug("validation run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldErrors, result.Stats.IssuesBySeverity[config.SeverityError],
		logging.FieldWarnings, result.Stats.IssuesBySeverity[config.SeverityWarning],
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowContext: !flags.noContext,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if code := ExitCodeFromResult(result, cfg.Strict); code != ExitSuccess {
		return withCode(code, ErrValidationFailed)
	}
	return nil
}
