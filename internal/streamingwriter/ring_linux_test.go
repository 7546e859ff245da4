//go:build linux

package streamingwriter

import (
	"errors"
	"syscall"
	"testing"
)

// TestCQEResToErrorWrapsRealErrno exercises the exact conversion that
// was previously a bare fmt.Errorf: a negative cqe.Res must come out
// the other end as something errors.As can still pull a syscall.Errno
// out of, since that's what the coordinator's error-classification
// layer depends on.
func TestCQEResToErrorWrapsRealErrno(t *testing.T) {
	err := cqeResToError(-int32(syscall.ENOENT))
	if err == nil {
		t.Fatal("expected non-nil error for negative cqe.Res")
	}

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		t.Fatalf("errors.As could not extract a syscall.Errno from %v (%T)", err, err)
	}
	if errno != syscall.ENOENT {
		t.Errorf("errno = %v, want %v", errno, syscall.ENOENT)
	}
}

// TestCQEResToErrorSuccessIsNil covers the non-negative branch: a
// completed fsync (res >= 0) must not be turned into an error.
func TestCQEResToErrorSuccessIsNil(t *testing.T) {
	if err := cqeResToError(0); err != nil {
		t.Errorf("expected nil error for res == 0, got %v", err)
	}
	if err := cqeResToError(1); err != nil {
		t.Errorf("expected nil error for res > 0, got %v", err)
	}
}
