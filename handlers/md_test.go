package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
	"github.com/ehrlich-b/go-syncd/internal/streamingwriter"
)

func newTestWriter(t *testing.T) streamingwriter.Writer {
	t.Helper()
	w, err := streamingwriter.New(4, nil)
	if err != nil {
		t.Fatalf("streamingwriter.New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestMDSyncSucceedsForExistingFile(t *testing.T) {
	dir := t.TempDir()
	dbDir := filepath.Join(dir, "base", "16384")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dbDir, "12345_main")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := MD{DataDir: dir}
	w := newTestWriter(t)
	tag := filetag.MD(0, 16384, 12345, filetag.MainFork, 0)
	in := &syncd.InflightSync{Tag: tag}

	done := make(chan struct {
		ok  bool
		err error
	}, 1)
	h.Sync(context.Background(), w, in, func(success bool, err error) {
		done <- struct {
			ok  bool
			err error
		}{success, err}
	})
	w.WaitAll()

	select {
	case res := <-done:
		if !res.ok {
			t.Fatalf("Sync reported failure: %v", res.err)
		}
	case <-time.After(time.Second):
		t.Fatal("Sync never completed")
	}

	if in.Path != path {
		t.Errorf("Path = %q, want %q", in.Path, path)
	}
}

func TestMDSyncReportsFileGoneForMissingFile(t *testing.T) {
	dir := t.TempDir()
	h := MD{DataDir: dir}
	w := newTestWriter(t)
	tag := filetag.MD(0, 1, 2, filetag.MainFork, 0)
	in := &syncd.InflightSync{Tag: tag}

	var gotErr error
	var gotOK bool
	h.Sync(context.Background(), w, in, func(success bool, err error) {
		gotOK, gotErr = success, err
	})

	if gotOK {
		t.Fatal("Sync reported success for a nonexistent file")
	}
	if !syncd.IsCode(gotErr, syncd.CodeTransientFileGone) {
		t.Errorf("error = %v, want CodeTransientFileGone", gotErr)
	}
}

func TestMDUnlinkIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbDir := filepath.Join(dir, "base", "1")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dbDir, "99_main")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	h := MD{DataDir: dir}
	tag := filetag.MD(0, 1, 99, filetag.MainFork, 0)

	if err := h.Unlink(tag); err != nil {
		t.Fatalf("first Unlink: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists after Unlink")
	}
	if err := h.Unlink(tag); err != nil {
		t.Fatalf("second Unlink on already-gone file should be a no-op, got: %v", err)
	}
}

func TestMDMatchesIgnoresSegment(t *testing.T) {
	h := MD{}
	_ = h
	pattern := filetag.MD(0, 1, 5, filetag.MainFork, 0)
	candidate := filetag.MD(0, 1, 5, filetag.MainFork, 3)
	if !h.Matches(pattern, candidate) {
		t.Error("Matches should ignore segment number for same relation fork")
	}

	other := filetag.MD(0, 1, 6, filetag.MainFork, 0)
	if h.Matches(pattern, other) {
		t.Error("Matches should not match a different relation")
	}
}
