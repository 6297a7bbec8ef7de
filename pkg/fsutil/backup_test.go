package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/codeblock/pkg/fsutil"
)

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	t.Run("first backup is kept", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.json", "v1")
		created, err := fsutil.CreateBackup(context.Background(), path)
		if err != nil || !created {
			t.Fatalf("CreateBackup() = %v, %v", created, err)
		}

		if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
			t.Fatalf("modify: %v", err)
		}
		created, err = fsutil.CreateBackup(context.Background(), path)
		if err != nil || created {
			t.Fatalf("second CreateBackup() = %v, %v", created, err)
		}
		if got := readFile(t, fsutil.BackupPath(path)); got != "v1" {
			t.Errorf("backup = %q, want v1", got)
		}
	})

	t.Run("missing original", func(t *testing.T) {
		t.Parallel()

		created, err := fsutil.CreateBackup(context.Background(), filepath.Join(t.TempDir(), "none.json"))
		if err != nil || created {
			t.Errorf("CreateBackup() = %v, %v", created, err)
		}
	})
}

func TestRestoreBackup(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.yaml", "a: 1\n")

	restored, err := fsutil.RestoreBackup(context.Background(), path)
	if err != nil || restored {
		t.Fatalf("RestoreBackup() without backup = %v, %v", restored, err)
	}

	if _, err := fsutil.CreateBackup(context.Background(), path); err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("a: 2\n"), 0o600); err != nil {
		t.Fatalf("modify: %v", err)
	}

	restored, err = fsutil.RestoreBackup(context.Background(), path)
	if err != nil || !restored {
		t.Fatalf("RestoreBackup() = %v, %v", restored, err)
	}
	if got := readFile(t, path); got != "a: 1\n" {
		t.Errorf("content = %q", got)
	}
	if _, err := os.Stat(fsutil.BackupPath(path)); !os.IsNotExist(err) {
		t.Errorf("backup should be removed, stat err = %v", err)
	}
}
