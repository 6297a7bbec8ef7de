package configloader

import "github.com/yaklabco/codeblock/pkg/config"

// merge applies CLI overrides to base. Only non-zero override values take
// effect, so an unset flag never clobbers a configured value. Booleans can
// only be switched on this way.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Editor.Language != "" {
		result.Editor.Language = override.Editor.Language
	}
	if override.Editor.Schema != "" {
		result.Editor.Schema = override.Editor.Schema
	}
	if override.Editor.ContextLines != 0 {
		result.Editor.ContextLines = override.Editor.ContextLines
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Strict {
		result.Strict = true
	}
	if override.Backup {
		result.Backup = true
	}
	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	return result
}
