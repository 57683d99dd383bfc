package caption

// defaultStopWords covers articles, common prepositions, conjunctions and
// copulas. Callers get a copy through DefaultStopWords.
var defaultStopWords = []string{
	"a", "an", "the",
	"in", "on", "at", "of", "to", "for", "with", "by", "from", "into", "onto",
	"over", "under", "near", "about", "as", "off", "up", "down", "out",
	"and", "or", "but", "nor", "so", "yet",
	"is", "are", "was", "were", "be", "been", "being", "am",
	"there", "this", "that", "these", "those", "its", "it",
}

// DefaultStopWords returns a fresh copy of the built-in stop-word list.
func DefaultStopWords() []string {
	out := make([]string, len(defaultStopWords))
	copy(out, defaultStopWords)
	return out
}
