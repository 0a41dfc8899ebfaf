// Package bunmem implements an embedded, in-memory document store: named
// collections of schemaless documents with CRUD, cursor composition
// (filter, sort, skip, limit) and a staged aggregation pipeline with
// grouping accumulators and cross-collection joins.
//
// The engine is deliberately permissive rather than validating: malformed
// filters, unsupported accumulator operators and references to non-existent
// fields never raise — they produce no-match or empty results. Evaluation is
// eager; every pipeline stage materializes a full intermediate list. Nothing
// is persisted: the store lives for the lifetime of the process and is reset
// by its caller between runs.
//
// Architecture:
//  1. Store: lazy name -> Collection registry and entry point.
//  2. Collection: ordered document sequence with the CRUD surface.
//  3. Cursor: deferred sort/skip/limit view over a filtered working set.
//  4. Pipeline: closed set of aggregation stages (Match, Limit, Skip, Sort,
//     Group, Lookup) evaluated strictly in sequence.
package bunmem

import (
	"sort"
	"sync"
)

// Store owns the name -> Collection registry. Collections are created lazily
// on first reference and the same instance is returned on every subsequent
// reference.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*Collection),
	}
}

// Collection returns the collection with the given name, creating it on
// first reference. Idempotent and side-effect-free after the first call.
func (s *Store) Collection(name string) *Collection {
	s.mu.RLock()
	col, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return col
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[name]; ok {
		return col
	}
	col = &Collection{name: name, store: s}
	s.collections[name] = col
	return col
}

// peek returns the collection if it already exists, without creating it.
// Lookup stages use this so joining against an unseen collection stays
// side-effect-free.
func (s *Store) peek(name string) *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[name]
}

// CollectionNames returns the names of all collections seen so far, sorted.
func (s *Store) CollectionNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every collection. The orchestrating caller invokes this
// between benchmark runs; the engine never resets itself.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]*Collection)
}
