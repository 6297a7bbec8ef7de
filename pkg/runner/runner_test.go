package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/codeblock/pkg/config"
	"github.com/yaklabco/codeblock/pkg/runner"
	"github.com/yaklabco/codeblock/pkg/validate"
)

func newRunner(t *testing.T) *runner.Runner {
	t.Helper()

	v, err := validate.New(config.DefaultEditorConfig(), nil)
	if err != nil {
		t.Fatalf("validate.New() error = %v", err)
	}
	return runner.New(v)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stats.FilesDiscovered != 0 || len(result.Files) != 0 {
		t.Errorf("expected no files, got %d", len(result.Files))
	}
	if result.HasIssues() {
		t.Error("HasIssues() = true for an empty run")
	}
}

func TestRunner_Run_ValidAndInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"good.json":   "{\n  \"a\": 1\n}\n",
		"bad.json":    "{\n  \"a\": [1, 2\n}\n",
		"config.yaml": "name: demo\nitems:\n  - a\n",
		"broken.yml":  "a: [1, 2\nb: 3\n",
		"notes.txt":   "{",
	})

	result, err := newRunner(t).Run(context.Background(), runner.Options{WorkingDir: dir, Jobs: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 4 {
		t.Fatalf("FilesDiscovered = %d, want 4", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesProcessed != 4 {
		t.Errorf("FilesProcessed = %d, want 4", result.Stats.FilesProcessed)
	}
	if result.Stats.FilesWithIssues != 2 {
		t.Errorf("FilesWithIssues = %d, want 2", result.Stats.FilesWithIssues)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}

	var names []string
	for _, f := range result.Files {
		names = append(names, filepath.Base(f.Path))
	}
	want := []string{"bad.json", "broken.yml", "config.yaml", "good.json"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}

	for _, f := range result.Files {
		if f.Result == nil {
			t.Fatalf("%s: nil result", f.Path)
		}
		wantLang := runner.LanguageFor(f.Path)
		if f.Result.Language != wantLang {
			t.Errorf("%s: language = %s, want %s", f.Path, f.Result.Language, wantLang)
		}
	}
}

func TestRunner_Run_ForcedLanguage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"data.json": "a: 1\n"})

	r := newRunner(t)
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.HasFailures() {
		t.Error("yaml content in a .json file should fail as JSON")
	}

	result, err = r.Run(context.Background(), runner.Options{WorkingDir: dir, Language: config.LanguageYAML})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.HasIssues() {
		t.Errorf("forced yaml: unexpected issues %+v", result.Files[0].Result.Errors)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": "{}", "b.json": "[]"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t).Run(ctx, runner.Options{WorkingDir: dir})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunner_ProcessFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := newRunner(t).ProcessFile(filepath.Join(t.TempDir(), "nope.json"), config.LanguageJSON)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ProcessFile() error = %v, want not-exist", err)
	}
}

func TestLanguageFor(t *testing.T) {
	t.Parallel()

	tests := map[string]config.Language{
		"a.json":      config.LanguageJSON,
		"a.YAML":      config.LanguageYAML,
		"dir/b.yml":   config.LanguageYAML,
		"no-ext":      config.LanguageJSON,
		"x.json5.yml": config.LanguageYAML,
	}
	for path, want := range tests {
		if got := runner.LanguageFor(path); got != want {
			t.Errorf("LanguageFor(%q) = %s, want %s", path, got, want)
		}
	}
}
