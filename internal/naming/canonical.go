package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

const (
	separator = "_"

	// CaptionPattern is the grammar of the caption segment.
	CaptionPattern = `[A-Z][A-Za-z0-9]*`
)

// canonicalStem anchors only the trailing _YYYYMMDD_Caption suffix; the
// prefix may contain anything, newlines and earlier date-like segments
// included.
var canonicalStem = regexp.MustCompile(`(?s)^.*` + separator + `\d{8}` + separator + CaptionPattern + `$`)

var captionOnly = regexp.MustCompile(`^` + CaptionPattern + `$`)

// IsCanonical reports whether filename already carries a date and caption
// suffix. Directory components and one extension are ignored.
func IsCanonical(filename string) bool {
	stem, _ := SplitName(filename)
	return canonicalStem.MatchString(stem)
}

// ValidCaption reports whether caption fits the caption segment grammar.
func ValidCaption(caption string) bool {
	return captionOnly.MatchString(caption)
}

// SplitName returns the base name of path without its last extension, and
// that extension including the dot.
func SplitName(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// Synthesize composes a canonical filename. Inputs are trusted to satisfy
// their own grammar (see ParseCaptureDate and ValidCaption).
func Synthesize(stem, ext string, date CaptureDate, caption string) string {
	var b strings.Builder
	b.Grow(len(stem) + len(date) + len(caption) + len(ext) + 2)
	b.WriteString(stem)
	b.WriteString(separator)
	b.WriteString(string(date))
	b.WriteString(separator)
	b.WriteString(caption)
	b.WriteString(ext)
	return b.String()
}

// TargetPath returns the canonical path next to source.
func TargetPath(source string, date CaptureDate, caption string) string {
	stem, ext := SplitName(source)
	return filepath.Join(filepath.Dir(source), Synthesize(stem, ext, date, caption))
}
