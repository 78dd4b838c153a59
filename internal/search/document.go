package search

import "strings"

// Document is one indexed source document. It is never modified after it has
// been appended to the store.
type Document struct {
	ID        string
	Label     string
	SourceRef string

	// RawText is the original text, used for snippets only.
	RawText string
	// NormalizedText is Normalize(RawText), used for matching only.
	NormalizedText string

	normalizedLabel string
	seq             int
}

// NewDocument joins the content chunks with newlines and derives the
// normalized forms.
func NewDocument(id, label, sourceRef string, chunks ...string) *Document {
	raw := strings.Join(chunks, "\n")
	return &Document{
		ID:              id,
		Label:           label,
		SourceRef:       sourceRef,
		RawText:         raw,
		NormalizedText:  Normalize(raw),
		normalizedLabel: Normalize(label),
	}
}

// NormalizedLabel returns the normalized category label.
func (d *Document) NormalizedLabel() string {
	return d.normalizedLabel
}

// Position is the insertion order of the document in its store.
func (d *Document) Position() int {
	return d.seq
}
