package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	syncd "github.com/ehrlich-b/go-syncd"
	"github.com/ehrlich-b/go-syncd/internal/filetag"
)

func TestMultixactOffsetAndMemberResolveDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"offsets", "members"} {
		if err := os.MkdirAll(filepath.Join(dir, "pg_multixact", sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	offPath := filepath.Join(dir, "pg_multixact", "offsets", "0001")
	memPath := filepath.Join(dir, "pg_multixact", "members", "0001")
	for _, p := range []string{offPath, memPath} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w := newTestWriter(t)

	off := MultixactOffset{DataDir: dir}
	inOff := &syncd.InflightSync{Tag: filetag.MultixactOffset(1)}
	off.Sync(context.Background(), w, inOff, func(success bool, err error) {
		if !success {
			t.Errorf("offset Sync failed: %v", err)
		}
	})

	mem := MultixactMember{DataDir: dir}
	inMem := &syncd.InflightSync{Tag: filetag.MultixactMember(1)}
	mem.Sync(context.Background(), w, inMem, func(success bool, err error) {
		if !success {
			t.Errorf("member Sync failed: %v", err)
		}
	})

	w.WaitAll()

	if inOff.Path != offPath {
		t.Errorf("offset Path = %q, want %q", inOff.Path, offPath)
	}
	if inMem.Path != memPath {
		t.Errorf("member Path = %q, want %q", inMem.Path, memPath)
	}
}
