// Package runner validates JSON and YAML files concurrently.
package runner

import (
	"path/filepath"
	"strings"

	"github.com/yaklabco/codeblock/pkg/config"
)

// Options controls a multi-file validation run.
type Options struct {
	// Paths are the files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, with leading dot, that are
	// validated. Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths when non-empty.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs is the worker count. 0 or negative means runtime.NumCPU().
	Jobs int

	// Language forces the grammar for every file. Empty picks it from the
	// file extension.
	Language config.Language
}

// DefaultExtensions returns the extensions validated by default.
func DefaultExtensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// LanguageFor picks the grammar from a file name: .yaml and .yml are YAML,
// everything else JSON.
func LanguageFor(path string) config.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.LanguageYAML
	default:
		return config.LanguageJSON
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) languageFor(path string) config.Language {
	if o.Language.IsValid() {
		return o.Language
	}
	return LanguageFor(path)
}
