package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yaklabco/codeblock/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := config.DefaultEditorConfig()
	if result.Config.Editor != want {
		t.Errorf("editor config = %+v, want %+v", result.Config.Editor, want)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("LoadedFrom = %v, want none", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, ".codeblock.yml", `
editor:
  language: yaml
  spaces_per_tab: 4
  folding: false
  validation_delay: 1s
ignore:
  - "vendor/**"
`)

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Editor.Language != config.LanguageYAML {
		t.Errorf("language = %q, want yaml", cfg.Editor.Language)
	}
	if cfg.Editor.SpacesPerTab != 4 {
		t.Errorf("spaces_per_tab = %d, want 4", cfg.Editor.SpacesPerTab)
	}
	if cfg.Editor.Folding {
		t.Error("folding should be disabled by the file")
	}
	if cfg.Editor.ValidationDelay != time.Second {
		t.Errorf("validation_delay = %v, want 1s", cfg.Editor.ValidationDelay)
	}
	if cfg.Editor.ContextLines != 3 {
		t.Errorf("context_lines = %d, want default 3", cfg.Editor.ContextLines)
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "vendor/**" {
		t.Errorf("ignore = %v", cfg.Ignore)
	}
	if len(result.LoadedFrom) != 1 || result.LoadedFrom[0] != path {
		t.Errorf("LoadedFrom = %v, want [%s]", result.LoadedFrom, path)
	}
}

func TestLoad_ProjectConfigFoundUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, root, "codeblock.yaml", "editor:\n  context_lines: 7\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Editor.ContextLines != 7 {
		t.Errorf("context_lines = %d, want 7", result.Config.Editor.ContextLines)
	}
}

func TestLoad_ExplicitOverridesProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".codeblock.yml", "editor:\n  spaces_per_tab: 4\n  context_lines: 5\n")
	explicit := writeConfig(t, dir, "custom.yml", "editor:\n  spaces_per_tab: 3\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Editor.SpacesPerTab != 3 {
		t.Errorf("spaces_per_tab = %d, want 3", result.Config.Editor.SpacesPerTab)
	}
	if result.Config.Editor.ContextLines != 5 {
		t.Errorf("context_lines = %d, want 5 from project", result.Config.Editor.ContextLines)
	}
	if len(result.LoadedFrom) != 2 {
		t.Errorf("LoadedFrom = %v, want 2 files", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".codeblock.yml", "editor:\n  language: yaml\n")

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		Editor: config.EditorConfig{Language: config.LanguageJSON},
		Format: config.FormatJSON,
		Jobs:   4,
		Strict: true,
	}
	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Editor.Language != config.LanguageJSON || cfg.Format != config.FormatJSON || cfg.Jobs != 4 || !cfg.Strict {
		t.Errorf("CLI overrides not applied: %+v", cfg)
	}
	if cfg.Editor.SpacesPerTab != 2 {
		t.Errorf("spaces_per_tab = %d, want default", cfg.Editor.SpacesPerTab)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad language", content: "editor:\n  language: toml\n", want: "editor.language"},
		{name: "spaces out of range", content: "editor:\n  spaces_per_tab: 0\n", want: "editor.spaces_per_tab: must be at least 1"},
		{name: "unknown key", content: "editor:\n  colour: red\n", want: "colour"},
		{name: "bad glob", content: "ignore:\n  - \"[\"\n", want: "ignore[0]"},
		{name: "malformed yaml", content: "editor: [\n", want: "parse YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, ".codeblock.yml", tt.content)

			_, err := Load(context.Background(), isolated(dir))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingSchemaWarns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, ".codeblock.yml", "editor:\n  schema: "+filepath.Join(dir, "nope.json")+"\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "schema file not found") {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CODEBLOCK_LANGUAGE", "yml")
	t.Setenv("CODEBLOCK_FOLDING", "false")
	t.Setenv("CODEBLOCK_VALIDATION_DELAY", "50ms")
	t.Setenv("CODEBLOCK_IGNORE", " a/** , ,b.json")
	t.Setenv("CODEBLOCK_JOBS", "3")

	cfg := config.NewConfig()
	if err := LoadFromEnv(cfg); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Editor.Language != config.LanguageYAML {
		t.Errorf("language = %q", cfg.Editor.Language)
	}
	if cfg.Editor.Folding {
		t.Error("folding should be false")
	}
	if cfg.Editor.ValidationDelay != 50*time.Millisecond {
		t.Errorf("validation_delay = %v", cfg.Editor.ValidationDelay)
	}
	if strings.Join(cfg.Ignore, "|") != "a/**|b.json" {
		t.Errorf("ignore = %v", cfg.Ignore)
	}
	if cfg.Jobs != 3 {
		t.Errorf("jobs = %d", cfg.Jobs)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("CODEBLOCK_SPACES_PER_TAB", "two")

	err := LoadFromEnv(config.NewConfig())
	if err == nil || !strings.Contains(err.Error(), "CODEBLOCK_SPACES_PER_TAB") {
		t.Errorf("error = %v, want it to name the variable", err)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envVars) {
		t.Fatalf("got %d vars, want %d", len(vars), len(envVars))
	}
	for i, v := range vars {
		if !strings.HasPrefix(v.Name, envVarPrefix) || v.Help == "" {
			t.Errorf("bad entry %+v", v)
		}
		if i > 0 && vars[i-1].Name >= v.Name {
			t.Errorf("not sorted at %d", i)
		}
	}
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ProjectConfigName)
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteDefault() error = %v, want ErrConfigExists", err)
	}
	if err := WriteDefault(path, true); err != nil {
		t.Errorf("forced WriteDefault() error = %v", err)
	}

	cfg := config.NewConfig()
	if err := loadConfigFile(path, cfg); err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Editor != config.DefaultEditorConfig() {
		t.Errorf("template editor = %+v", cfg.Editor)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a"}

	if got := merge(base, nil); got != base {
		t.Error("nil override should return base")
	}

	got := merge(base, &config.Config{Backup: true, Ignore: []string{"b"}})
	if !got.Backup || got.Ignore[0] != "b" {
		t.Errorf("merge = %+v", got)
	}
	if base.Backup || base.Ignore[0] != "a" {
		t.Error("merge mutated base")
	}
}

func TestFindProjectConfig_StopsAtRepoRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeConfig(t, outer, ProjectConfigName, "editor:\n  context_lines: 9\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(repo, "pkg")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectConfig(context.Background(), nested)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if got != "" {
		t.Errorf("FindProjectConfig() = %q, want none beyond the repository root", got)
	}

	inRepo := writeConfig(t, repo, "codeblock.yml", "")
	got, err = FindProjectConfig(context.Background(), nested)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if got != inRepo {
		t.Errorf("FindProjectConfig() = %q, want %q", got, inRepo)
	}
}

func TestFindProjectConfig_PrefersDottedName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotted := writeConfig(t, dir, ".codeblock.yml", "")
	writeConfig(t, dir, "codeblock.yaml", "")

	got, err := FindProjectConfig(context.Background(), dir)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if got != dotted {
		t.Errorf("FindProjectConfig() = %q, want %q", got, dotted)
	}
}
