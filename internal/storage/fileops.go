package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	cp "github.com/otiai10/copy"
	"golang.org/x/sys/unix"
)

// Hooks used for testing (overridable)
var (
	rename    = os.Rename
	removeAll = os.RemoveAll
	copyTree  = archiveCopy
)

// deviceOf returns the filesystem device id holding path.
func deviceOf(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return uint64(st.Dev), nil
}

// sameFile reports whether a and b name the identical file (device and inode).
func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// checkAccess fails unless path is readable and writable by this process.
func checkAccess(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAccess, path, err)
	}
	return nil
}

// archiveCopy copies src to dst preserving modes and times, descending into
// directories. Symlinks inside a tree are copied as links.
func archiveCopy(src, dst string) error {
	return cp.Copy(src, dst, cp.Options{
		PreserveTimes: true,
		OnSymlink: func(string) cp.SymlinkAction {
			return cp.Shallow
		},
	})
}

// move renames src to dst, falling back to copy and delete when the two
// live on different filesystems.
func move(src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EXDEV) {
		return err
	}
	if err := copyTree(src, dst); err != nil {
		_ = removeAll(dst)
		return fmt.Errorf("cross-device move %s: %w", src, err)
	}
	return removeAll(src)
}

// mtime returns the modification time of path truncated to seconds.
func mtime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime().Truncate(time.Second), nil
}
