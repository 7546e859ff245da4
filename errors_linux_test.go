//go:build linux

package syncd

import (
	"os"
	"syscall"
	"testing"
)

// TestWrapErrnoClassifiesRealCQEError guards the exact regression a
// prior reapLoop had: a completion-queue failure wrapped as a bare
// formatted string could never be unwrapped back to a syscall.Errno,
// so every real io_uring fsync failure fell through to
// CodePersistentIO instead of CodeTransientFileGone. os.SyscallError is
// what internal/streamingwriter's reapLoop now wraps a negative
// cqe.Res in; WrapErrno must still classify it correctly.
func TestWrapErrnoClassifiesRealCQEError(t *testing.T) {
	cqeErr := &os.SyscallError{Syscall: "fsync", Err: syscall.ENOENT}

	err := WrapErrno("Sync", "test-tag", cqeErr)
	if !IsCode(err, CodeTransientFileGone) {
		t.Fatalf("WrapErrno(%v) = %v, want CodeTransientFileGone", cqeErr, err)
	}
}
