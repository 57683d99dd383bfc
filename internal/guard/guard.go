package guard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Verdict is the outcome of a safety check.
type Verdict int

const (
	// Safe means the target is free or already is the source file.
	Safe Verdict = iota
	// AlreadyExists means an unrelated file occupies the target path.
	AlreadyExists
)

func (v Verdict) String() string {
	switch v {
	case Safe:
		return "safe"
	case AlreadyExists:
		return "already_exists"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// ErrTargetExists reports that a rename destination is occupied.
var ErrTargetExists = errors.New("target already exists")

// CrossDeviceError marks a rename that would have to cross filesystems.
// Renames never fall back to copy+delete.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("rename %q -> %q crosses filesystems: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// CheckSafe reports whether source may be renamed to target without
// clobbering another file. A target that resolves to the source itself is
// Safe so a no-op rename is not reported as a collision.
func CheckSafe(source, target string) (Verdict, error) {
	targetInfo, err := os.Lstat(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Safe, nil
		}
		return AlreadyExists, fmt.Errorf("stat target: %w", err)
	}
	if SamePath(source, target) {
		return Safe, nil
	}
	if sourceInfo, err := os.Lstat(source); err == nil && os.SameFile(sourceInfo, targetInfo) {
		return Safe, nil
	}
	return AlreadyExists, nil
}

// SamePath compares two paths after making them absolute and clean.
func SamePath(a, b string) bool {
	return canonicalPath(a) == canonicalPath(b)
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
