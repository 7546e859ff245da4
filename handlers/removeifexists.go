package handlers

import (
	"golang.org/x/sys/unix"
)

// removeIfExists removes path via a raw unlink(2), treating "already
// gone" as success — the Go analogue of sync.c checking
// FILE_POSSIBLY_DELETED(errno) around its own unlink() calls. Uses
// golang.org/x/sys/unix directly rather than os.Remove so the errno is
// available unwrapped for the ENOENT check, the same package the
// teacher depends on for raw syscalls elsewhere in its tree.
func removeIfExists(path string) error {
	err := unix.Unlink(path)
	if err == unix.ENOENT {
		return nil
	}
	return err
}
