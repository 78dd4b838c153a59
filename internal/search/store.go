package search

import "sync"

// Store is the append-only, insertion-ordered document index.
type Store struct {
	mu        sync.RWMutex
	documents []*Document
	next      int
}

func NewStore() *Store {
	return &Store{documents: make([]*Document, 0)}
}

// Add appends a copy of doc stamped with its insertion position and returns
// the stored copy. doc itself is left untouched. Re-adding the same ID
// creates a second entry.
func (s *Store) Add(doc *Document) *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := *doc
	d.seq = s.next
	s.next++
	s.documents = append(s.documents, &d)
	return &d
}

// Documents returns a snapshot of the stored documents in insertion order.
func (s *Store) Documents() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Reset discards every document.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = make([]*Document, 0)
	s.next = 0
}
