package captioner

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"
)

// placeholderCaption is returned when the filename carries no words.
const placeholderCaption = "video file"

// FilenameCaptioner derives a caption from the file's own name.
type FilenameCaptioner struct{}

// NewFilenameCaptioner returns the offline caption provider.
func NewFilenameCaptioner() FilenameCaptioner {
	return FilenameCaptioner{}
}

// Caption implements Provider. The result is lower-case words separated by
// single spaces.
func (FilenameCaptioner) Caption(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	words := strings.Fields(splitBoundaries(stem))
	if len(words) == 0 {
		return placeholderCaption, nil
	}
	return strings.ToLower(strings.Join(words, " ")), nil
}

// splitBoundaries inserts spaces at lower-to-upper and letter/digit
// transitions and turns underscores, hyphens and dots into spaces.
func splitBoundaries(stem string) string {
	var b strings.Builder
	b.Grow(len(stem) + 8)

	var prev rune
	for i, r := range stem {
		switch r {
		case '_', '-', '.':
			b.WriteByte(' ')
			prev = ' '
			continue
		}
		if i > 0 && isBoundary(prev, r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isBoundary(prev, cur rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(cur):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(cur):
		return true
	default:
		return false
	}
}
