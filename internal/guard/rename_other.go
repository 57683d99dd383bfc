//go:build !linux && !darwin

package guard

import (
	"errors"
	"syscall"
)

var errUnsupported = errors.New("no-replace rename unsupported")

func renameExclusive(string, string) error {
	return errUnsupported
}

func isEXDEV(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
