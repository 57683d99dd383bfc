// Package caption turns free-form caption text into the filename-safe token
// used in the caption segment of a canonical filename.
//
// Normalization drops stop words, folds diacritics to ASCII, strips
// punctuation and joins the remaining words in PascalCase. The stop-word set
// and the fallback sentinel are fixed when a Normalizer is constructed.
package caption
