package caption

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSentinel is returned when no caption word survives normalization.
const DefaultSentinel = "Video"

// Normalizer converts raw captions into PascalCase filename tokens.
// It is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
	sentinel  string
	maxWords  int
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithStopWords replaces the default stop-word list. Matching is
// case-insensitive.
func WithStopWords(words []string) Option {
	return func(n *Normalizer) {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				set[w] = struct{}{}
			}
		}
		n.stopWords = set
	}
}

// WithSentinel overrides the fallback caption. Values that are not a valid
// caption token once normalized are ignored.
func WithSentinel(sentinel string) Option {
	return func(n *Normalizer) {
		if cleaned := pascalWord(foldASCII(sentinel)); cleaned != "" && isUpperASCII(cleaned[0]) {
			n.sentinel = cleaned
		}
	}
}

// WithMaxWords keeps at most limit caption words. Zero means unlimited.
func WithMaxWords(limit int) Option {
	return func(n *Normalizer) {
		if limit >= 0 {
			n.maxWords = limit
		}
	}
}

// NewNormalizer builds a Normalizer with the default stop words and sentinel
// unless overridden by opts.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{sentinel: DefaultSentinel}
	WithStopWords(defaultStopWords)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Sentinel returns the fallback caption.
func (n *Normalizer) Sentinel() string {
	return n.sentinel
}

// Normalize never fails and never returns an empty string. The result
// always starts with an ASCII capital letter followed by ASCII letters and
// digits.
func (n *Normalizer) Normalize(raw string) string {
	var b strings.Builder
	kept := 0
	for _, token := range splitWords(raw) {
		word := strings.ToLower(foldASCII(token))
		if word == "" {
			continue
		}
		if _, stop := n.stopWords[word]; stop {
			continue
		}
		if n.maxWords > 0 && kept >= n.maxWords {
			break
		}
		b.WriteString(pascalWord(word))
		kept++
	}
	out := b.String()
	if out == "" {
		return n.sentinel
	}
	if !isUpperASCII(out[0]) {
		// Leading digits would fall outside the caption grammar.
		return n.sentinel + out
	}
	return out
}

func splitWords(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-' || r == '/'
	})
}

// foldASCII strips diacritics and drops everything that is not an ASCII
// letter or digit.
func foldASCII(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	var b strings.Builder
	b.Grow(len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// pascalWord upper-cases the first letter and lower-cases the rest. Casers
// carry state, so each call gets its own.
func pascalWord(word string) string {
	if word == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(word))
}

func isUpperASCII(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
