package search

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Result is a scored match ready for display.
type Result struct {
	Document *Document
	Score    int
	Snippet  string
}

// Engine owns the document store and answers queries against it.
type Engine struct {
	store  *Store
	logger *logrus.Entry
}

func NewEngine(logger *logrus.Entry) *Engine {
	if logger == nil {
		logger = logrus.WithField("component", "search")
	}
	return &Engine{
		store:  NewStore(),
		logger: logger,
	}
}

// Index adds one document built from its content chunks (title first, then
// body fragments). It is searchable as soon as Index returns.
func (e *Engine) Index(id, label, sourceRef string, chunks ...string) *Document {
	doc := e.store.Add(NewDocument(id, label, sourceRef, chunks...))
	e.logger.WithFields(logrus.Fields{
		"id":    id,
		"label": label,
		"chars": len(doc.NormalizedText),
	}).Debug("Indexed document")
	return doc
}

// Search ranks every stored document against the query and returns those
// with a positive score, best first. Equal scores keep insertion order.
func (e *Engine) Search(raw string) []Result {
	q := ParseQuery(raw)
	results := make([]Result, 0)
	if q.Empty() {
		return results
	}

	sc := newScorer(q)
	for _, doc := range e.store.Documents() {
		score := sc.score(doc)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			Document: doc,
			Score:    score,
			Snippet:  BuildSnippet(doc.RawText, q.Terms),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.seq < results[j].Document.seq
	})

	e.logger.WithFields(logrus.Fields{
		"query":    raw,
		"terms":    len(q.Terms),
		"category": q.Category,
		"results":  len(results),
	}).Debug("Search executed")
	return results
}

// Documents returns the indexed documents in insertion order.
func (e *Engine) Documents() []*Document {
	return e.store.Documents()
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	return e.store.Len()
}

// Reset drops the whole index so it can be rebuilt.
func (e *Engine) Reset() {
	e.store.Reset()
}
