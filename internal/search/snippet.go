package search

import (
	"html"
	"strings"
)

// Snippet window, in characters.
const (
	SnippetBefore = 60
	SnippetAfter  = 160
	SnippetLead   = 160
)

// Highlight markers wrapped around every matched term.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
	Ellipsis  = "…"
)

// BuildSnippet extracts an excerpt of raw around the first term (in term
// order) that occurs in it and marks every term inside the excerpt. The
// result is an HTML fragment: the excerpt text is escaped and matches are
// wrapped in MarkOpen/MarkClose.
//
// Offsets are taken on the normalized form of the whitespace-collapsed text,
// which has the same number of characters, so the window never drifts.
func BuildSnippet(raw string, terms []string) string {
	display := []rune(collapseSpace(raw))
	norm := []rune(Normalize(string(display)))

	pos := -1
	for _, t := range terms {
		if t == "" {
			continue
		}
		if i := runeIndex(norm, []rune(t)); i >= 0 {
			pos = i
			break
		}
	}

	if pos < 0 {
		if len(display) <= SnippetLead {
			return html.EscapeString(string(display))
		}
		return html.EscapeString(string(display[:SnippetLead])) + Ellipsis
	}

	start := max(0, pos-SnippetBefore)
	end := min(len(norm), pos+SnippetAfter)

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(highlight(display[start:end], norm[start:end], terms))
	if end < len(norm) {
		b.WriteString(Ellipsis)
	}
	return b.String()
}

// highlight marks every occurrence of every term. Matching runs on norm and
// the same character ranges of display are marked; overlapping or adjacent
// matches are merged into a single mark.
func highlight(display, norm []rune, terms []string) string {
	marked := make([]bool, len(display))
	for _, t := range terms {
		tr := []rune(t)
		if len(tr) == 0 {
			continue
		}
		for from := 0; from+len(tr) <= len(norm); {
			i := runeIndex(norm[from:], tr)
			if i < 0 {
				break
			}
			at := from + i
			for k := at; k < at+len(tr); k++ {
				marked[k] = true
			}
			from = at + len(tr)
		}
	}

	var b strings.Builder
	open := false
	for i, r := range display {
		if marked[i] != open {
			if open {
				b.WriteString(MarkClose)
			} else {
				b.WriteString(MarkOpen)
			}
			open = marked[i]
		}
		b.WriteString(html.EscapeString(string(r)))
	}
	if open {
		b.WriteString(MarkClose)
	}
	return b.String()
}

// runeIndex returns the character offset of the first occurrence of sub in
// s, or -1.
func runeIndex(s, sub []rune) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		match := true
		for j := 0; j < n; j++ {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
