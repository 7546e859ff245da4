package syncd

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrorCode is a coarse category a failed sync or unlink attempt falls
// into. It drives the coordinator's retry-vs-abandon decision (spec.md
// §7): transient errors go back into the retry bank, persistent ones
// escalate per Config.DataSyncErrorLevel.
type ErrorCode string

const (
	// CodeTransientFileGone means the target file may no longer exist
	// (ENOENT, EACCES, EPERM). A first fsync failure of this kind sends
	// the request to the retry bank, whose absorb may cancel it; a
	// failure on the retry escalates as CodePersistentIO. PostCheckpoint
	// does not log unlink failures of this kind.
	CodeTransientFileGone ErrorCode = "file gone"

	// CodePersistentIO means fsync or unlink failed for a reason other
	// than the file being gone — disk I/O error, EIO, ENOSPC on the
	// journal, etc. This is the "data not permanently synced" class
	// that classic PostgreSQL treats as a hard PANIC.
	CodePersistentIO ErrorCode = "persistent I/O error"

	// CodeStateCorruption means an internal invariant was violated:
	// e.g. removing a pending-ops entry that RequestCompleted expected
	// to still exist. This should never happen; its presence indicates
	// a bug in the coordinator itself, not in the storage layer.
	CodeStateCorruption ErrorCode = "internal state corruption"

	// CodeUnlinkFailed means an unlink() call failed for a reason other
	// than ENOENT.
	CodeUnlinkFailed ErrorCode = "unlink failed"

	// CodeAllocFailed means a slab/pool allocation failed (out of
	// memory). Kept distinct from CodePersistentIO since it indicates
	// process-level resource exhaustion, not a storage fault.
	CodeAllocFailed ErrorCode = "allocation failed"
)

// Error is the coordinator's structured error type: every error that
// crosses a handler/coordinator boundary is wrapped in one of these so
// callers can branch on Code instead of string-matching.
//
// Grounded on the teacher's Error/UblkErrorCode pattern (errors.go),
// remapped from ublk's device/queue-oriented fields to the
// tag/cycle-oriented fields a fsync coordinator actually has.
type Error struct {
	Op    string        // operation that failed, e.g. "Sync", "Unlink"
	Tag   string         // filetag.Tag.String(), empty if not tag-specific
	Code  ErrorCode
	Errno syscall.Errno // 0 if not a syscall failure
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Tag != "" {
		return fmt.Sprintf("syncd: %s: %s (tag=%s)", e.Op, msg, e.Tag)
	}
	return fmt.Sprintf("syncd: %s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError creates a structured error not tied to a syscall errno.
func NewError(op string, code ErrorCode, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// WrapErrno wraps a raw syscall error with coordinator context,
// classifying it via MapErrnoToCode.
func WrapErrno(op, tag string, err error) *Error {
	if err == nil {
		return nil
	}
	if existing, ok := err.(*Error); ok {
		return existing
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return &Error{
			Op:    op,
			Tag:   tag,
			Code:  MapErrnoToCode(errno),
			Errno: errno,
			Msg:   errno.Error(),
			Inner: err,
		}
	}
	return &Error{Op: op, Tag: tag, Code: CodePersistentIO, Msg: err.Error(), Inner: err}
}

// MapErrnoToCode classifies a raw errno into an ErrorCode. ENOENT,
// EACCES, and EPERM are treated as "file possibly deleted" — the same
// set sync.c's FILE_POSSIBLY_DELETED macro recognizes, since on some
// platforms an unlinked-out-from-under-us file surfaces as a
// permission error rather than ENOENT. Everything else is a persistent
// failure, which the coordinator escalates without a retry.
func MapErrnoToCode(errno syscall.Errno) ErrorCode {
	switch errno {
	case syscall.ENOENT, syscall.EACCES, syscall.EPERM:
		return CodeTransientFileGone
	default:
		return CodePersistentIO
	}
}

// IsCode reports whether err is a *Error with the given Code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
