// Package fsutil reads and saves JSON and YAML documents safely. Saves are
// atomic, refuse to clobber files changed on disk since they were read, and can
// keep a sidecar backup of the previous content.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Sentinel errors for error categorization via errors.Is.
var (
	ErrNilSnapshot      = errors.New("nil snapshot")
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrModified         = errors.New("file changed on disk")
)

// Snapshot records the state of a file when it was read.
type Snapshot struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    uint64
}

// ReadFile reads a file and returns its content with a snapshot for later
// modification checks.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    xxhash.Sum64(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}

// CheckModified reports whether the file differs from snap. Mod time and size
// are compared first; when they match the content is re-hashed. A deleted file
// counts as modified.
func CheckModified(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap == nil {
		return false, ErrNilSnapshot
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	stat, err := os.Stat(snap.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", snap.Path, err)
	}
	if !stat.ModTime().Equal(snap.ModTime) || stat.Size() != snap.Size {
		return true, nil
	}

	content, err := os.ReadFile(snap.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", snap.Path, err)
	}
	return xxhash.Sum64(content) != snap.Hash, nil
}

// SaveOptions controls Save.
type SaveOptions struct {
	// Backup keeps the previous content in a sidecar file.
	Backup bool

	// Force overwrites the file even if it changed since snap was taken.
	Force bool
}

// SaveResult reports what Save did.
type SaveResult struct {
	Written    bool
	BackedUp   bool
	BackupPath string
}

// Save writes content to snap.Path. It fails with ErrModified when the file
// changed on disk since it was read, unless opts.Force is set. Identical
// content is not rewritten. A nil snap saves a new file to path.
func Save(ctx context.Context, path string, snap *Snapshot, content []byte, opts SaveOptions) (SaveResult, error) {
	var result SaveResult
	mode := DefaultFileMode

	if snap != nil {
		path, mode = snap.Path, snap.Mode.Perm()
		if !opts.Force {
			modified, err := CheckModified(ctx, snap)
			if err != nil {
				return result, err
			}
			if modified {
				return result, fmt.Errorf("%w: %s", ErrModified, path)
			}
		}
	}

	if opts.Backup {
		backedUp, err := CreateBackup(ctx, path)
		if err != nil {
			return result, err
		}
		result.BackedUp = backedUp
		if backedUp {
			result.BackupPath = BackupPath(path)
		}
	}

	written, err := WriteAtomicIfChanged(ctx, path, content, mode)
	if err != nil {
		return result, err
	}
	result.Written = written
	return result, nil
}
