// Package guard decides whether a rename target is safe to use and performs
// renames that refuse to replace an existing file.
//
// CheckSafe is a read-only pre-check. RenameNoReplace is the primitive the
// orchestrator actually executes; it fails with ErrTargetExists when the
// destination appeared after the check, which closes the check/act window.
package guard
