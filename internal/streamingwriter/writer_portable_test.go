//go:build !linux

package streamingwriter

import (
	"os"
	"sync"
	"testing"
)

func TestPortableWriterRunsFsyncInline(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "syncd-writer-test")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := NewPortable(4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	var gotErr error
	if !w.Alloc() {
		t.Fatal("expected Alloc to succeed on a fresh writer")
	}
	w.Submit(Job{
		File: f,
		Done: func(r Result) {
			gotErr = r.Err
			wg.Done()
		},
	})
	wg.Wait()

	if gotErr != nil {
		t.Errorf("expected fsync to succeed, got %v", gotErr)
	}
}

func TestPortableWriterWindowIsBounded(t *testing.T) {
	w, err := NewPortable(2, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	sw := w.(*syncWriter)
	if cap(sw.window) != 2 {
		t.Fatalf("expected window capacity 2, got %d", cap(sw.window))
	}
}

func TestPortableWriterRejectsAfterClose(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "syncd-writer-test")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := NewPortable(1, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.Alloc()
	w.Close()

	var gotErr error
	var wg sync.WaitGroup
	wg.Add(1)
	w.Submit(Job{File: f, Done: func(r Result) {
		gotErr = r.Err
		wg.Done()
	}})
	wg.Wait()

	if gotErr != ErrClosed {
		t.Errorf("expected ErrClosed after Close, got %v", gotErr)
	}
}
