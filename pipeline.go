package bunmem

import (
	"time"
)

// Stage is one step of an aggregation pipeline. The set of stages is closed:
// Match, Limit, Skip, Sort, Group, Lookup. Each stage consumes the full
// output list of the previous stage and produces a new full list; there is
// no streaming and no persisted state between invocations.
type Stage interface {
	apply(docs []Document, store *Store) []Document
}

// MatchStage retains only documents satisfying the filter.
type MatchStage struct {
	Filter Filter
}

func (s MatchStage) apply(docs []Document, _ *Store) []Document {
	m := compileFilter(s.Filter)
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if m.Matches(doc) {
			out = append(out, doc)
		}
	}
	return out
}

// LimitStage truncates the list to at most N documents.
type LimitStage struct {
	N int
}

func (s LimitStage) apply(docs []Document, _ *Store) []Document {
	n := s.N
	if n < 0 {
		n = 0
	}
	if n > len(docs) {
		n = len(docs)
	}
	out := make([]Document, n)
	copy(out, docs[:n])
	return out
}

// SkipStage drops the first N documents.
type SkipStage struct {
	N int
}

func (s SkipStage) apply(docs []Document, _ *Store) []Document {
	n := s.N
	if n < 0 {
		n = 0
	}
	if n > len(docs) {
		n = len(docs)
	}
	out := make([]Document, len(docs)-n)
	copy(out, docs[n:])
	return out
}

// SortStage orders the list by a single field, same first-key-only comparator
// rule as Cursor.
type SortStage struct {
	Key SortKey
}

func (s SortStage) apply(docs []Document, _ *Store) []Document {
	out := make([]Document, len(docs))
	copy(out, docs)
	return sortDocuments(out, s.Key)
}

// LookupStage performs a nested-loop equality join against another collection
// in the same store. For every input document the entire foreign collection
// is scanned and the full list of foreign documents whose ForeignField equals
// the input's LocalField is attached under As. A foreign collection the store
// has never seen yields an empty list for every document, not an error.
type LookupStage struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func (s LookupStage) apply(docs []Document, store *Store) []Document {
	var foreign []Document
	if store != nil {
		if fc := store.peek(s.From); fc != nil {
			foreign = fc.snapshot()
		}
	}

	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		localVal, localOK := doc[s.LocalField]

		matches := make([]interface{}, 0)
		if localOK {
			for _, fdoc := range foreign {
				foreignVal, ok := fdoc[s.ForeignField]
				if ok && valuesEqual(foreignVal, localVal) {
					matches = append(matches, fdoc)
				}
			}
		}

		// Augment a copy; source documents are never mutated by a stage.
		joined := make(Document, len(doc)+1)
		for k, v := range doc {
			joined[k] = v
		}
		joined[s.As] = matches
		out = append(out, joined)
	}
	return out
}

// Aggregation is a handle over a pipeline bound to a collection. It holds no
// cursor state; each ToArray evaluates the pipeline against the collection's
// current document sequence.
type Aggregation struct {
	col    *Collection
	stages []Stage
}

// ToArray executes the pipeline. Evaluation starts with the full, unfiltered
// document sequence and applies each stage in order, materializing a new list
// at every step.
func (a *Aggregation) ToArray() []Document {
	defer a.col.observe("aggregate", time.Now())

	docs := a.col.snapshot()
	for _, stage := range a.stages {
		docs = stage.apply(docs, a.col.store)
	}
	return docs
}
