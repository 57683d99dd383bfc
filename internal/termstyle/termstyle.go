// Package termstyle holds the ANSI palette shared by the per-file report and
// the check command, and decides when to use it.
package termstyle

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Reset  = "\x1b[0m"
	Red    = "\x1b[31m"
	Green  = "\x1b[32m"
	Yellow = "\x1b[33m"
	Blue   = "\x1b[34m"
)

// Enabled reports whether writer is an interactive terminal and NO_COLOR is
// unset.
func Enabled(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Paint wraps text in color when enabled. An empty color leaves text as is.
func Paint(color, text string, enabled bool) string {
	if !enabled || color == "" {
		return text
	}
	return color + text + Reset
}
