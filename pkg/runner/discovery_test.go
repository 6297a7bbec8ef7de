package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/codeblock/pkg/runner"
)

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	layout := map[string]string{
		"a.json":              "{}",
		"b.yaml":              "a: 1",
		"docs/c.yml":          "b: 2",
		"docs/readme.md":      "# hi",
		"vendor/d.json":       "{}",
		".hidden/e.json":      "{}",
		"nested/deep/f.json":  "[]",
		"nested/deep/.g.json": "[]",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "walks the working directory",
			want: []string{"a.json", "b.yaml", "docs/c.yml", "nested/deep/f.json", "vendor/d.json"},
		},
		{
			name: "exclude directory glob",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**"}},
			want: []string{"a.json", "b.yaml", "docs/c.yml", "nested/deep/f.json"},
		},
		{
			name: "exclude by base name",
			opts: runner.Options{ExcludeGlobs: []string{"*.yml", "**/deep"}},
			want: []string{"a.json", "b.yaml", "vendor/d.json"},
		},
		{
			name: "include restricts",
			opts: runner.Options{IncludeGlobs: []string{"docs/**"}},
			want: []string{"docs/c.yml"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".md"}},
			want: []string{"docs/readme.md"},
		},
		{
			name: "explicit paths are de-duplicated",
			opts: runner.Options{Paths: []string{"a.json", "a.json", "docs"}},
			want: []string{"a.json", "docs/c.yml"},
		},
		{
			name: "explicit file with other extension is ignored",
			opts: runner.Options{Paths: []string{"docs/readme.md"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFiles(t, dir, layout)

			opts := tt.opts
			opts.WorkingDir = dir
			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, dir, files))
		})
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing.json"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeFiles(t, outside, map[string]string{"linked.json": "{}"})
	writeFiles(t, dir, map[string]string{"a.json": "{}"})
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
