package search

import (
	"regexp"
	"strings"
)

// Score weights.
const (
	TermWeight      = 5
	LabelWeight     = 5
	WholeWordWeight = 3
)

// Score computes the additive relevance of doc for q. Terms contribute
// independently, so a document does not need every term to score.
func Score(doc *Document, q Query) int {
	return newScorer(q).score(doc)
}

// scorer holds the per-query word-boundary patterns so a query is compiled
// once and reused across the whole store.
type scorer struct {
	query Query
	words []*regexp.Regexp
}

func newScorer(q Query) *scorer {
	s := &scorer{query: q, words: make([]*regexp.Regexp, len(q.Terms))}
	for i, t := range q.Terms {
		s.words[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return s
}

func (s *scorer) score(doc *Document) int {
	if s.query.Category != "" && !strings.Contains(doc.normalizedLabel, s.query.Category) {
		return 0
	}
	if s.query.Empty() {
		return 0
	}

	total := 0
	for i, t := range s.query.Terms {
		if t == "" || !strings.Contains(doc.NormalizedText, t) {
			continue
		}
		total += TermWeight
		if strings.Contains(doc.normalizedLabel, t) {
			total += LabelWeight
		}
		if s.words[i].MatchString(doc.NormalizedText) {
			total += WholeWordWeight
		}
	}
	return total
}
