package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/codeblock/pkg/config"
)

// envVarPrefix is the prefix for all codeblock environment variables.
const envVarPrefix = "CODEBLOCK_"

// envVar binds one environment variable to a config field.
type envVar struct {
	help  string
	apply func(cfg *config.Config, value string) error
}

// envVars maps environment variable names (without prefix) to setters.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"LANGUAGE": {"Default language: json or yaml", func(cfg *config.Config, v string) error {
		lang, err := config.ParseLanguage(v)
		cfg.Editor.Language = lang
		return err
	}},
	"SCHEMA":           {"Path to a JSON-Schema document", stringVar(func(c *config.Config) *string { return &c.Editor.Schema })},
	"SPACES_PER_TAB":   {"Spaces per indentation level", intVar(func(c *config.Config) *int { return &c.Editor.SpacesPerTab })},
	"CONTEXT_LINES":    {"Unchanged lines around diff changes", intVar(func(c *config.Config) *int { return &c.Editor.ContextLines })},
	"FOLD_THRESHOLD":   {"Minimum lines hidden by a diff fold", intVar(func(c *config.Config) *int { return &c.Editor.FoldThreshold })},
	"HISTORY_LIMIT":    {"Maximum undo snapshots", intVar(func(c *config.Config) *int { return &c.Editor.HistoryLimit })},
	"FOLDING":          {"Fold long unchanged diff runs: true or false", boolVar(func(c *config.Config) *bool { return &c.Editor.Folding })},
	"VALIDATION_DELAY": {"Quiet period before validation, e.g. 300ms", durationVar(func(c *config.Config) *time.Duration { return &c.Editor.ValidationDelay })},
	"BACKUP":           {"Back up files before rewriting: true or false", boolVar(func(c *config.Config) *bool { return &c.Backup })},
	"STRICT":           {"Fail on warnings: true or false", boolVar(func(c *config.Config) *bool { return &c.Strict })},
	"JOBS":             {"Number of parallel workers (0 = auto)", intVar(func(c *config.Config) *int { return &c.Jobs })},
	"FORMAT": {"Output format: text, table or json", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
	"IGNORE": {"Comma-separated list of ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
}

func stringVar(field func(*config.Config) *string) func(*config.Config, string) error {
	return func(cfg *config.Config, v string) error {
		*field(cfg) = v
		return nil
	}
}

func intVar(field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q", v)
		}
		*field(cfg) = i
		return nil
	}
}

func boolVar(field func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", v)
		}
		*field(cfg) = b
		return nil
	}
}

func durationVar(field func(*config.Config) *time.Duration) func(*config.Config, string) error {
	return func(cfg *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q", v)
		}
		*field(cfg) = d
		return nil
	}
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with CODEBLOCK_ (e.g., CODEBLOCK_LANGUAGE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for suffix, ev := range envVars {
		value := os.Getenv(envVarPrefix + suffix)
		if value == "" {
			continue
		}
		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", envVarPrefix, suffix, err)
		}
	}
	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name string
	Help string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	out := make([]EnvVar, 0, len(envVars))
	for suffix, ev := range envVars {
		out = append(out, EnvVar{Name: envVarPrefix + suffix, Help: ev.help})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
