package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
// Fields absent from data keep their zero values; callers merge over defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	if c.Ignore != nil {
		clone.Ignore = append([]string(nil), c.Ignore...)
	}
	return &clone
}

// Template returns a commented default configuration file.
func Template() []byte {
	defaults := DefaultEditorConfig()

	var buf bytes.Buffer
	buf.WriteString("# codeblock configuration\n")
	buf.WriteString("# See `codeblock help` for the list of settings.\n\n")
	buf.WriteString("editor:\n")
	buf.WriteString("  # Grammar for documents without a recognized extension: json or yaml.\n")
	fmt.Fprintf(&buf, "  language: %s\n", defaults.Language)
	buf.WriteString("  # Leading spaces that make up one indentation level.\n")
	fmt.Fprintf(&buf, "  spaces_per_tab: %d\n", defaults.SpacesPerTab)
	buf.WriteString("  # Unchanged lines kept around each change in diffs.\n")
	fmt.Fprintf(&buf, "  context_lines: %d\n", defaults.ContextLines)
	fmt.Fprintf(&buf, "  folding: %t\n", defaults.Folding)
	fmt.Fprintf(&buf, "  fold_threshold: %d\n", defaults.FoldThreshold)
	fmt.Fprintf(&buf, "  max_block_error_span: %d\n", defaults.MaxBlockErrorSpan)
	fmt.Fprintf(&buf, "  long_text_threshold: %d\n", defaults.LongTextThreshold)
	fmt.Fprintf(&buf, "  base64_min_length: %d\n", defaults.Base64MinLength)
	fmt.Fprintf(&buf, "  preview_width: %d\n", defaults.PreviewWidth)
	fmt.Fprintf(&buf, "  validation_delay: %s\n", defaults.ValidationDelay)
	fmt.Fprintf(&buf, "  history_limit: %d\n", defaults.HistoryLimit)
	buf.WriteString("  # Optional JSON-Schema used by `codeblock validate` and `codeblock edit`.\n")
	buf.WriteString("  # schema: schema.json\n\n")
	buf.WriteString("# Glob patterns skipped by `codeblock validate`.\n")
	buf.WriteString("ignore: []\n\n")
	buf.WriteString("# Keep a .codeblock.bak copy of files before they are rewritten.\n")
	buf.WriteString("backup: false\n")
	return buf.Bytes()
}
