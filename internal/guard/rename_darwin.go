//go:build darwin

package guard

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

var errUnsupported = errors.New("no-replace rename unsupported")

func renameExclusive(src, dst string) error {
	err := unix.RenamexNp(src, dst, unix.RENAME_EXCL)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOSYS), errors.Is(err, unix.EINVAL), errors.Is(err, unix.ENOTSUP):
		// macOS before 10.12 and filesystems such as exFAT and SMB mounts.
		return errUnsupported
	default:
		return &os.LinkError{Op: "renamex_np", Old: src, New: dst, Err: err}
	}
}

func isEXDEV(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
