package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/purrlog/internal/logging"
	"github.com/Tiliavir/purrlog/internal/model"
	"github.com/Tiliavir/purrlog/internal/storage"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a.fits=b.fits", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.fits": "b.fits", "c": "x=y"}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestProductFlagsBuild(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fits")
	pf := productFlags{
		copy:     []string{a},
		move:     []string{"rel.ms"},
		ignore:   []string{"/x/noise"},
		rename:   []string{a + "=renamed.fits"},
		comments: []string{"rel.ms=moved here"},
	}
	dps, err := pf.build()
	require.NoError(t, err)
	require.Len(t, dps, 3)

	assert.Equal(t, a, dps[0].Filename)
	assert.Equal(t, "renamed.fits", dps[0].Rename)
	assert.Equal(t, model.PolicyCopy, dps[0].Policy)

	assert.True(t, filepath.IsAbs(dps[1].Filename))
	assert.Equal(t, "moved here", dps[1].Comment)
	assert.Equal(t, model.PolicyMove, dps[1].Policy)

	assert.Equal(t, model.PolicyIgnore, dps[2].Policy)
}

func TestProductFlagsRejectsPathRename(t *testing.T) {
	pf := productFlags{copy: []string{"/a"}, rename: []string{"/a=sub/b"}}
	_, err := pf.build()
	assert.Error(t, err)
}

func TestAppendComment(t *testing.T) {
	e := model.NewLogEntry(time.Now(), "t", "")
	appendComment(e, "")
	assert.Empty(t, e.Comment)
	appendComment(e, "first")
	appendComment(e, "second")
	assert.Equal(t, "first\nsecond", e.Comment)
}

func TestSummarize(t *testing.T) {
	day1 := time.Date(2026, 2, 23, 9, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)
	entries := []*model.LogEntry{
		model.NewLogEntry(day1, "a", "",
			model.NewDataProduct("/a", model.PolicyCopy, "", ""),
			model.NewDataProduct("/b", model.PolicyIgnore, "", "")),
		model.NewLogEntry(day1.Add(time.Hour), "b", "",
			model.NewDataProduct("/c", model.PolicyMove, "", "")),
		model.NewLogEntry(day2, "c", ""),
	}

	got := summarize(entries)
	require.Len(t, got, 2)
	assert.Equal(t, dayTotals{Day: "2026-02-23", Entries: 2, Copied: 1, Moved: 1, Ignored: 1}, got[0])
	assert.Equal(t, dayTotals{Day: "2026-02-24", Entries: 1}, got[1])
}

func TestCommandsEndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "foo.fits")
	require.NoError(t, os.WriteFile(src, []byte("SIMPLE = T"), 0o644))
	extra := filepath.Join(t.TempDir(), "bar.png")
	require.NoError(t, os.WriteFile(extra, []byte("png"), 0o644))

	run := func(args ...string) {
		t.Helper()
		rootCmd.SetArgs(append([]string{"--dir", logDir, "--color", "never", "--log-level", "error"}, args...))
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	}

	run("new", "--title", "Observation A", "--comment", "line1\nline2",
		"--at", "2026-02-27T08:32:10Z", "--copy", src, "--dp-comment", src+"=raw frame")

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := filepath.Base(entries[0].Pathname)
	assert.FileExists(t, filepath.Join(logDir, name, "foo.fits"))
	assert.FileExists(t, filepath.Join(logDir, "index.html"))

	run("add", name, "--move", extra, "--comment", "line3")

	e, err := store.Load(context.Background(), filepath.Join(logDir, name))
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\nline3", e.Comment)
	require.Len(t, e.DataProducts, 2)
	assert.Equal(t, "raw frame", e.DataProducts[0].Comment)
	assert.Equal(t, "bar.png", e.DataProducts[1].Filename)
	assert.NoFileExists(t, extra)

	run("rm", name)
	assert.NoDirExists(t, filepath.Join(logDir, name))
}

func TestRefreshCatalogLogsFailure(t *testing.T) {
	prevLogger, prevStore := logger, store
	t.Cleanup(func() { logger, store = prevLogger, prevStore })

	// A regular file where the log directory should be makes listing fail.
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	var buf bytes.Buffer
	l, err := logging.New(&buf, "error")
	require.NoError(t, err)
	logger = l
	store = storage.New(root, l)

	require.Error(t, refreshCatalog(context.Background()))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "catalog refresh failed")
	assert.Contains(t, buf.String(), root)
}
