// Package config defines core configuration types for codeblock.
// These types are pure data structures with no dependency on how they are loaded.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Language identifies the grammar a code block is edited with.
type Language string

const (
	LanguageJSON Language = "json"
	LanguageYAML Language = "yaml"
)

// ParseLanguage parses a language name. "yml" is accepted as an alias for yaml.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return LanguageJSON, nil
	case "yaml", "yml":
		return LanguageYAML, nil
	default:
		return "", fmt.Errorf("unknown language %q; valid languages: json, yaml", s)
	}
}

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	return l == LanguageJSON || l == LanguageYAML
}

// String returns the language name.
func (l Language) String() string {
	return string(l)
}

// Severity represents the severity of a validation error.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// OutputFormat specifies the output format of CLI reports.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	return f == FormatText || f == FormatTable || f == FormatJSON
}

// EditorConfig holds the behavior knobs of a single editor instance.
type EditorConfig struct {
	// Language is the default grammar for new code blocks.
	Language Language `mapstructure:"language" yaml:"language" validate:"omitempty,oneof=json yaml"`

	// SpacesPerTab is the number of leading spaces folded into one Tab node.
	SpacesPerTab int `mapstructure:"spaces_per_tab" yaml:"spaces_per_tab" validate:"min=1,max=8"`

	// ContextLines is the number of unchanged lines kept around diff changes.
	ContextLines int `mapstructure:"context_lines" yaml:"context_lines" validate:"min=0,max=50"`

	// Folding enables collapsing of long unchanged diff runs.
	Folding bool `mapstructure:"folding" yaml:"folding"`

	// FoldThreshold is the minimum number of lines a fold must hide.
	FoldThreshold int `mapstructure:"fold_threshold" yaml:"fold_threshold" validate:"min=1"`

	// MaxBlockErrorSpan bounds the line span of a single block error.
	MaxBlockErrorSpan int `mapstructure:"max_block_error_span" yaml:"max_block_error_span" validate:"min=1"`

	// LongTextThreshold is the rune length above which a string renders truncated.
	LongTextThreshold int `mapstructure:"long_text_threshold" yaml:"long_text_threshold" validate:"min=8"`

	// Base64MinLength is the minimum payload length recognized as base64 data.
	Base64MinLength int `mapstructure:"base64_min_length" yaml:"base64_min_length" validate:"min=4"`

	// PreviewWidth is the width of truncated previews.
	PreviewWidth int `mapstructure:"preview_width" yaml:"preview_width" validate:"min=8"`

	// ValidationDelay is the quiet period after the last edit before validation runs.
	ValidationDelay time.Duration `mapstructure:"validation_delay" yaml:"validation_delay" validate:"min=0"`

	// HistoryLimit is the maximum number of undo snapshots kept.
	HistoryLimit int `mapstructure:"history_limit" yaml:"history_limit" validate:"min=1"`

	// Schema is an optional path to a JSON-Schema document.
	Schema string `mapstructure:"schema" yaml:"schema,omitempty"`
}

// Config is the root configuration structure for codeblock.
type Config struct {
	// Editor configures the editing engine.
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`

	// Ignore contains glob patterns for files to skip during validation runs.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty"`

	// Backup keeps a sidecar copy of files before they are rewritten.
	Backup bool `mapstructure:"backup" yaml:"backup"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-" validate:"omitempty,oneof=text table json"`

	// Strict treats warnings as failures for the exit code.
	Strict bool `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-" validate:"min=0"`
}

// DefaultEditorConfig returns the editor defaults.
func DefaultEditorConfig() EditorConfig {
	return EditorConfig{
		Language:          LanguageJSON,
		SpacesPerTab:      2,
		ContextLines:      3,
		Folding:           true,
		FoldThreshold:     4,
		MaxBlockErrorSpan: 50,
		LongTextThreshold: 120,
		Base64MinLength:   64,
		PreviewWidth:      40,
		ValidationDelay:   300 * time.Millisecond,
		HistoryLimit:      100,
	}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Editor: DefaultEditorConfig(),
		Format: FormatText,
		Jobs:   0, // 0 means use NumCPU
	}
}
