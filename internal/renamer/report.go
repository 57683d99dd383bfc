package renamer

import (
	"fmt"
	"io"

	"aivideorename/internal/termstyle"
)

// TextReporter writes one human-readable block per file. Progress goes to
// out and problems to errOut.
type TextReporter struct {
	out      io.Writer
	errOut   io.Writer
	colorOut bool
	colorErr bool
	// Spaced adds a blank line after each file, as batch runs do.
	Spaced bool
}

// NewTextReporter colours output only when the destination is a terminal.
func NewTextReporter(out, errOut io.Writer) *TextReporter {
	return &TextReporter{
		out:      out,
		errOut:   errOut,
		colorOut: termstyle.Enabled(out),
		colorErr: termstyle.Enabled(errOut),
	}
}

// Report implements Reporter.
func (t *TextReporter) Report(result Result) {
	switch result.Outcome {
	case Renamed:
		t.line(t.out, termstyle.Green, "Renamed: %s", result.Source)
		t.line(t.out, termstyle.Green, "     to: %s", result.Target)
	case WouldRename:
		t.line(t.out, termstyle.Blue, "Would rename: %s", result.Source)
		t.line(t.out, termstyle.Blue, "          to: %s", result.Target)
	case SkippedAlreadyCanonical:
		t.line(t.out, "", "Skipping (already renamed): %s", result.Source)
	case SkippedUserDeclined:
		t.line(t.out, termstyle.Yellow, "Skipped (declined): %s", result.Source)
	case FailedMissingDate:
		t.line(t.errOut, termstyle.Yellow, "Warning: Could not extract date for %s", result.Source)
	case FailedMissingCaption:
		t.line(t.errOut, termstyle.Yellow, "Warning: Could not generate caption for %s", result.Source)
	case FailedTargetExists:
		t.line(t.errOut, termstyle.Red, "Error: Target file already exists: %s", result.Target)
	case FailedFilesystemError:
		t.line(t.errOut, termstyle.Red, "Error renaming %s: %v", result.Source, result.Err)
	}
	if t.Spaced {
		fmt.Fprintln(t.out)
	}
}

// WriteTotals prints the closing success and failure counts of a batch.
func (t *TextReporter) WriteTotals(summary Summary) {
	fmt.Fprintf(t.out, "Successfully renamed: %d\n", summary.Succeeded)
	fmt.Fprintf(t.out, "Failed: %d\n", summary.Failed)
}

func (t *TextReporter) line(w io.Writer, color, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	colorize := t.colorOut
	if w == t.errOut {
		colorize = t.colorErr
	}
	fmt.Fprintln(w, termstyle.Paint(color, text, colorize))
}
