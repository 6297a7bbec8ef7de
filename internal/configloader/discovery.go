package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ProjectConfigName is the file name `codeblock init` writes.
const ProjectConfigName = ".codeblock.yml"

// ConfigPaths are the configuration files that apply to a working directory.
// An empty field means no file was found for that layer.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	// projectNames are tried in each directory on the way up, first match wins.
	projectNames = []string{ProjectConfigName, ".codeblock.yaml", "codeblock.yml", "codeblock.yaml"}

	// dirNames are tried inside the system and user config directories.
	dirNames = []string{"config.yaml", "config.yml"}

	// repoMarkers end the upward search: a project config never comes from
	// outside the repository being edited.
	repoMarkers = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project config files for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirNames),
		User:    firstFile(userConfigDir(), dirNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/codeblock, or %ProgramData%\codeblock on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/codeblock"
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "codeblock")
}

// userConfigDir follows XDG_CONFIG_HOME with the ~/.config fallback on every
// platform, so one dotfile layout works everywhere.
func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "codeblock")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codeblock")
}

// FindProjectConfig walks from startDir towards the filesystem root and
// returns the first project config file. The walk stops at a repository root
// or the home directory; an empty result is not an error.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if path := firstFile(dir, projectNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || hasRepoMarker(dir) {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); fileExists(path) {
			return path
		}
	}
	return ""
}

func hasRepoMarker(dir string) bool {
	for _, marker := range repoMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
