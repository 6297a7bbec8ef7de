package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/codeblock/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	return string(got)
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.json", `{"a": 1}`)
		content, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(content) != `{"a": 1}` {
			t.Errorf("content = %q", content)
		}
		if snap.Path != path || snap.Size != int64(len(content)) || snap.Hash == 0 {
			t.Errorf("unexpected snapshot %+v", snap)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
		if !errors.Is(err, fsutil.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		if !errors.Is(err, fsutil.ErrIsDirectory) {
			t.Errorf("error = %v, want ErrIsDirectory", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := fsutil.ReadFile(ctx, "whatever"); !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(path string) error
		want   bool
	}{
		{name: "unchanged", mutate: func(string) error { return nil }, want: false},
		{name: "same size rewrite", mutate: func(p string) error { return os.WriteFile(p, []byte("bbbb"), 0o600) }, want: true},
		{name: "grown", mutate: func(p string) error { return os.WriteFile(p, []byte("aaaaaa"), 0o600) }, want: true},
		{name: "deleted", mutate: os.Remove, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, t.TempDir(), "f.yaml", "aaaa")
			_, snap, err := fsutil.ReadFile(context.Background(), path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if err := tt.mutate(path); err != nil {
				t.Fatalf("mutate: %v", err)
			}

			got, err := fsutil.CheckModified(context.Background(), snap)
			if err != nil {
				t.Fatalf("CheckModified() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckModified() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.CheckModified(context.Background(), nil); !errors.Is(err, fsutil.ErrNilSnapshot) {
			t.Errorf("error = %v, want ErrNilSnapshot", err)
		}
	})
}

func TestSave(t *testing.T) {
	t.Parallel()

	t.Run("writes and backs up", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.json", "{}")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		res, err := fsutil.Save(context.Background(), path, snap, []byte(`{"a": 1}`), fsutil.SaveOptions{Backup: true})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !res.Written || !res.BackedUp || res.BackupPath != path+fsutil.BackupSuffix {
			t.Errorf("unexpected result %+v", res)
		}
		if got := readFile(t, path); got != `{"a": 1}` {
			t.Errorf("content = %q", got)
		}
		if got := readFile(t, res.BackupPath); got != "{}" {
			t.Errorf("backup = %q", got)
		}
	})

	t.Run("unchanged content is not rewritten", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.json", "{}")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		res, err := fsutil.Save(context.Background(), path, snap, []byte("{}"), fsutil.SaveOptions{})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if res.Written {
			t.Error("expected no write")
		}
	})

	t.Run("refuses external modification", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.json", "{}")
		_, snap, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if err := os.WriteFile(path, []byte("[1]"), 0o600); err != nil {
			t.Fatalf("modify: %v", err)
		}

		_, err = fsutil.Save(context.Background(), path, snap, []byte("[2]"), fsutil.SaveOptions{})
		if !errors.Is(err, fsutil.ErrModified) {
			t.Fatalf("error = %v, want ErrModified", err)
		}
		if got := readFile(t, path); got != "[1]" {
			t.Errorf("content = %q, want untouched", got)
		}

		if _, err := fsutil.Save(context.Background(), path, snap, []byte("[2]"), fsutil.SaveOptions{Force: true}); err != nil {
			t.Fatalf("forced Save() error = %v", err)
		}
		if got := readFile(t, path); got != "[2]" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("new file without snapshot", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.yaml")
		res, err := fsutil.Save(context.Background(), path, nil, []byte("a: 1\n"), fsutil.SaveOptions{Backup: true})
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !res.Written || res.BackedUp {
			t.Errorf("unexpected result %+v", res)
		}
		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != fsutil.DefaultFileMode {
			t.Errorf("mode = %v, want %v", stat.Mode().Perm(), fsutil.DefaultFileMode)
		}
	})
}
