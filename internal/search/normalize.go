package search

import (
	"strings"
	"unicode"
)

// accentFolder maps the accented letters that appear in the corpus to their
// ASCII base letter. Anything not listed is left as is.
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Normalize folds accents and case and collapses whitespace so that index
// text and query terms compare equal regardless of spelling variants.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return collapseSpace(strings.ToLower(accentFolder.Replace(text)))
}

// collapseSpace turns every whitespace run into a single space and trims
// both ends.
func collapseSpace(text string) string {
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}
