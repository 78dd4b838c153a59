package search

import (
	"regexp"
	"strings"
)

// CategoryPrefix introduces a category filter token, e.g. grupo:cardiologia.
const CategoryPrefix = "grupo:"

// Tokens are split on any Unicode space, not only ASCII.
var queryToken = regexp.MustCompile(`"[^"]+"|[^\s\p{Z}\x{85}\v]+`)

// Query is a parsed search request.
type Query struct {
	// Terms are the normalized free-text terms in input order.
	Terms []string
	// Category restricts matches to documents whose normalized label
	// contains it. Empty means no filter.
	Category string
}

// Empty reports whether the query can match anything at all.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}

// ParseQuery splits a raw query string into terms and an optional category
// filter. Quoted spans are kept as one term. When several category tokens
// are present the last one wins. It never fails: malformed input degrades to
// plain whitespace tokenization.
func ParseQuery(raw string) Query {
	var q Query
	for _, tok := range queryToken.FindAllString(raw, -1) {
		if strings.HasPrefix(strings.ToLower(tok), CategoryPrefix) {
			_, value, _ := strings.Cut(tok, ":")
			q.Category = Normalize(trimQuotes(value))
			continue
		}
		if term := Normalize(trimQuotes(tok)); term != "" {
			q.Terms = append(q.Terms, term)
		}
	}
	return q
}

// trimQuotes drops one leading and one trailing double quote.
func trimQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
