package guard

import (
	"errors"
	"fmt"
	"os"
)

// Swappable for tests.
var (
	renameExclusiveFunc = renameExclusive
	linkFunc            = os.Link
	removeFunc          = os.Remove
	renameFunc          = os.Rename
)

// RenameNoReplace moves src to dst only when dst does not exist. Where the
// platform offers it, the existence check and the move happen in one
// filesystem operation. Filesystems with neither an exclusive rename nor
// hard links (FAT, exFAT, many FUSE mounts) get a checked plain rename.
func RenameNoReplace(src, dst string) error {
	if SamePath(src, dst) {
		return nil
	}
	err := renameExclusiveFunc(src, dst)
	if errors.Is(err, errUnsupported) {
		err = linkRename(src, dst)
	}
	return classify(src, dst, err)
}

// linkRename emulates a no-replace rename: link fails when dst exists, and
// the source name is only removed once the new name is in place.
func linkRename(src, dst string) error {
	if err := linkFunc(src, dst); err != nil {
		if linkUnsupported(err) {
			return checkedRename(src, dst)
		}
		return err
	}
	if err := removeFunc(src); err != nil {
		// Keep exactly one name for the file.
		_ = removeFunc(dst)
		return fmt.Errorf("remove source after link: %w", err)
	}
	return nil
}

// linkUnsupported matches the errors filesystems without hard links return:
// EPERM on Linux vfat, ENOTSUP or EOPNOTSUPP elsewhere.
func linkUnsupported(err error) bool {
	return errors.Is(err, errors.ErrUnsupported) || errors.Is(err, os.ErrPermission)
}

// checkedRename is the last resort: a plain rename after CheckSafe. Runs
// are sequential and hold the run lock, so nothing else creates dst between
// the two calls.
func checkedRename(src, dst string) error {
	verdict, err := CheckSafe(src, dst)
	if err != nil {
		return err
	}
	if verdict == AlreadyExists {
		return os.ErrExist
	}
	return renameFunc(src, dst)
}

func classify(src, dst string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, os.ErrExist):
		return fmt.Errorf("rename %q -> %q: %w", src, dst, ErrTargetExists)
	case isEXDEV(err):
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	default:
		return err
	}
}
