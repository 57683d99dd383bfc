//go:build linux

package guard

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var errUnsupported = errors.New("no-replace rename unsupported")

func renameExclusive(src, dst string) error {
	err := unix.Renameat2(unix.AT_FDCWD, src, unix.AT_FDCWD, dst, unix.RENAME_NOREPLACE)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOTSUP):
		// Older kernels and some filesystems (e.g. certain network mounts)
		// reject the flag.
		return errUnsupported
	default:
		return &os.LinkError{Op: "renameat2", Old: src, New: dst, Err: err}
	}
}

func isEXDEV(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
