package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/codeblock/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "test.json")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		if got := readFile(t, path); got != "[]" {
			t.Errorf("content = %q", got)
		}
	})

	t.Run("preserves specified mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "test.json")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("{}"), 0o600); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		stat, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if stat.Mode().Perm() != 0o600 {
			t.Errorf("mode = %v, want 0600", stat.Mode().Perm())
		}
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := fsutil.WriteAtomic(context.Background(), filepath.Join(dir, "a.json"), []byte("{}"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("entries = %d, want 1", len(entries))
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "a.json")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("{}"), 0); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := fsutil.WriteAtomic(ctx, filepath.Join(t.TempDir(), "a.json"), []byte("{}"), 0)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.json", "{}")

	written, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("{}"), 0)
	if err != nil {
		t.Fatalf("WriteAtomicIfChanged() error = %v", err)
	}
	if written {
		t.Error("identical content should not be written")
	}

	written, err = fsutil.WriteAtomicIfChanged(context.Background(), path, []byte("[]"), 0)
	if err != nil {
		t.Fatalf("WriteAtomicIfChanged() error = %v", err)
	}
	if !written || readFile(t, path) != "[]" {
		t.Error("changed content should be written")
	}
}
