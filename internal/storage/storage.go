package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Tiliavir/purrlog/internal/index"
	"github.com/Tiliavir/purrlog/internal/logging"
	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/timecalc"
)

var (
	// ErrNoDestination is returned by Save when neither a target directory
	// nor the entry's Pathname is available.
	ErrNoDestination = errors.New("no destination directory for entry")
	// ErrNotEntryDir is returned by Load for names other than entry-YYYYMMDD-HHMMSS.
	ErrNotEntryDir  = errors.New("not an entry directory")
	ErrNotDirectory = errors.New("not a directory")
	ErrAccess       = errors.New("entry directory is not readable and writable")
	// ErrTransient is returned when an operation needs a persisted entry.
	ErrTransient = errors.New("entry has no directory")
)

var errNoSource = errors.New("source unavailable: empty file name")

// now is overridden in tests.
var now = time.Now

// BaseDir returns the default log directory (~/purrlog).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, "purrlog"), nil
}

// Store keeps log entries as entry-YYYYMMDD-HHMMSS directories under a root.
//
// Store does no locking. Two concurrent saves of the same entry directory
// race on the files inside it.
type Store struct {
	root string
	log  logging.Logger
}

// New returns a Store rooted at root. A nil logger discards output.
func New(root string, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{root: root, log: log}
}

// Root returns the directory holding the entry directories.
func (s *Store) Root() string { return s.root }

// Locate returns the directory an entry with timestamp ts saves into.
func (s *Store) Locate(ts time.Time) string {
	return filepath.Join(s.root, timecalc.EntryDirName(ts))
}

// Resolve maps a command-line entry reference to a path: bare names are
// taken relative to the root, anything with a separator is used as is.
func (s *Store) Resolve(ref string) string {
	if strings.ContainsRune(ref, os.PathSeparator) {
		return ref
	}
	return filepath.Join(s.root, ref)
}

// Dropped is a data product Save could not retain, with the reason.
type Dropped struct {
	Product *model.DataProduct
	Err     error
}

// SaveReport describes the outcome of a Save.
type SaveReport struct {
	Dir     string
	Kept    int
	Dropped []Dropped
}

// Save persists e. With dir set the entry goes to dir/entry-<timestamp>;
// otherwise it is re-saved to e.Pathname. Products are migrated in order
// according to their policy; a product that cannot be migrated is logged,
// reported and removed from e.DataProducts, but does not fail the save.
// The index is rewritten to reflect the retained products.
func (s *Store) Save(ctx context.Context, e *model.LogEntry, dir string) (*SaveReport, error) {
	var dest string
	switch {
	case dir != "":
		dest = filepath.Join(dir, timecalc.EntryDirName(e.Timestamp))
	case e.Pathname != "":
		dest = e.Pathname
	default:
		return nil, ErrNoDestination
	}

	dest, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("storage error resolving %s: %w", dest, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("storage error creating %s: %w", dest, err)
	}
	resolved, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return nil, fmt.Errorf("storage error resolving %s: %w", dest, err)
	}
	dest = resolved
	dev, err := deviceOf(dest)
	if err != nil {
		return nil, fmt.Errorf("storage error: %w", err)
	}

	log := s.log.With("entry", filepath.Base(dest))
	report := &SaveReport{Dir: dest}
	kept := make([]*model.DataProduct, 0, len(e.DataProducts))
	for _, dp := range e.DataProducts {
		if err := migrate(dp, dest, dev); err != nil {
			log.Warn(ctx, "dropping data product", "path", dp.Filename, "policy", dp.Policy.String(), "err", err)
			report.Dropped = append(report.Dropped, Dropped{Product: dp, Err: err})
			continue
		}
		kept = append(kept, dp)
	}
	e.DataProducts = kept
	e.Pathname = dest
	report.Kept = len(kept)

	err = writeAtomic(filepath.Join(dest, index.FileName), func(w io.Writer) error {
		return index.WriteEntry(w, e, true, "")
	})
	if err != nil {
		return report, err
	}
	log.Info(ctx, "entry saved", "products", report.Kept, "dropped", len(report.Dropped))
	return report, nil
}

// migrate brings one product into dest according to its policy and updates
// it to describe the migrated file.
func migrate(dp *model.DataProduct, dest string, dev uint64) error {
	if dp.Saved() || dp.Policy == model.PolicyIgnore {
		return nil
	}
	if strings.TrimSpace(dp.Filename) == "" {
		return errNoSource
	}
	abs, err := filepath.Abs(dp.Filename)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("source unavailable: %w", err)
	}
	src, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return err
	}
	name := dp.Rename
	if name == "" {
		name = filepath.Base(abs)
	}
	dst := filepath.Join(dest, name)

	inPlace := false
	if _, err := os.Lstat(dst); err == nil {
		if sameFile(src, dst) {
			inPlace = true
		} else if err := removeAll(dst); err != nil {
			return fmt.Errorf("removing existing %s: %w", dst, err)
		}
	}

	if !inPlace {
		if err := transfer(dp.Policy, src, dst, dev); err != nil {
			return err
		}
	}

	mt, err := mtime(dst)
	if err != nil {
		return err
	}
	dp.Filename = name
	dp.OriginalFilename = src
	dp.Rename = ""
	dp.Timestamp = &mt
	dp.FullPath = dst
	return nil
}

func transfer(policy model.Policy, src, dst string, dev uint64) error {
	switch policy {
	case model.PolicyCopy:
		if err := copyTree(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
		return nil
	case model.PolicyMove:
		fi, err := os.Stat(src)
		if err != nil {
			return err
		}
		srcDev, err := deviceOf(src)
		if err != nil {
			return err
		}
		if fi.Mode().IsRegular() || (fi.IsDir() && srcDev == dev) {
			if err := move(src, dst); err != nil {
				return fmt.Errorf("move %s: %w", src, err)
			}
			return nil
		}
		// Directory on another device: same move, then clear whatever is
		// left of the source.
		if err := move(src, dst); err != nil {
			return fmt.Errorf("move %s: %w", src, err)
		}
		_ = removeAll(src)
		return nil
	}
	return fmt.Errorf("policy %s does not transfer files", policy)
}

// Load reconstructs the entry stored in pathname. The directory name must
// follow the entry-YYYYMMDD-HHMMSS convention and the directory must be
// readable and writable. Fields missing from the index take defaults; the
// timestamp falls back to the one encoded in the directory name.
func (s *Store) Load(ctx context.Context, pathname string) (*model.LogEntry, error) {
	path, err := filepath.Abs(pathname)
	if err != nil {
		return nil, fmt.Errorf("storage error resolving %s: %w", pathname, err)
	}
	dirTime, err := timecalc.ParseEntryDirName(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotEntryDir, pathname)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	if err := checkAccess(path); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(path, index.FileName))
	if err != nil {
		return nil, fmt.Errorf("storage error reading index: %w", err)
	}
	defer f.Close()

	doc, err := index.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.Name(), err)
	}

	e := model.NewLogEntry(doc.Timestamp, doc.Title, doc.Comment, doc.Products...)
	if doc.Timestamp.IsZero() {
		e.Timestamp = dirTime
	}
	e.Pathname = path
	s.log.Debug(ctx, "entry loaded", "entry", filepath.Base(path), "products", len(e.DataProducts))
	return e, nil
}

// RemoveDirectory deletes the entry's directory and everything in it, and
// turns e back into a transient entry.
func (s *Store) RemoveDirectory(ctx context.Context, e *model.LogEntry) error {
	if e.Pathname == "" {
		return ErrTransient
	}
	if err := os.RemoveAll(e.Pathname); err != nil {
		return fmt.Errorf("storage error removing %s: %w", e.Pathname, err)
	}
	s.log.Info(ctx, "entry removed", "entry", filepath.Base(e.Pathname))
	e.Pathname = ""
	return nil
}

// List loads every entry directory under the root, oldest first. Entries
// that fail to load are logged and skipped. A missing root yields no entries.
func (s *Store) List(ctx context.Context) ([]*model.LogEntry, error) {
	des, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return []*model.LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", s.root, err)
	}

	entries := []*model.LogEntry{}
	for _, de := range des {
		if !de.IsDir() || !timecalc.IsEntryDirName(de.Name()) {
			continue
		}
		e, err := s.Load(ctx, filepath.Join(s.root, de.Name()))
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable entry", "entry", de.Name(), "err", err)
			continue
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

// LoadRange returns the entries whose timestamp lies in [from, to].
func (s *Store) LoadRange(ctx context.Context, from, to time.Time) ([]*model.LogEntry, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.LogEntry
	for _, e := range all {
		if timecalc.Within(e.Timestamp, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// WriteCatalog writes the aggregate index for entries to <root>/index.html.
func (s *Store) WriteCatalog(ctx context.Context, title string, entries []*model.LogEntry) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("storage error creating %s: %w", s.root, err)
	}
	path := filepath.Join(s.root, index.FileName)
	err := writeAtomic(path, func(w io.Writer) error {
		return index.WriteCatalog(w, title, now(), entries)
	})
	if err != nil {
		return err
	}
	s.log.Debug(ctx, "catalog written", "path", path, "entries", len(entries))
	return nil
}

// writeAtomic renders into a temp file next to path, then renames it over path.
func writeAtomic(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("storage error rendering %s: %w", path, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
