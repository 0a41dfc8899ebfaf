package bunmem

import (
	"sort"
)

// SortKey names a sort field and direction: 1 ascending, -1 descending.
type SortKey struct {
	Field     string
	Direction int
}

// Cursor composes deferred view operations over an already-filtered working
// set. Nothing is evaluated until ToArray is called. Chain methods return the
// same cursor and are idempotent to reconfiguration: last write wins.
type Cursor struct {
	docs []Document

	sortKey  SortKey
	hasSort  bool
	skip     int
	hasSkip  bool
	limit    int
	hasLimit bool
}

// Sort configures the sort applied at drain time. Only the first key is
// honored; later keys in a multi-key specification are silently ignored.
func (c *Cursor) Sort(keys ...SortKey) *Cursor {
	if len(keys) > 0 {
		c.sortKey = keys[0]
		c.hasSort = true
	}
	return c
}

// Skip configures how many leading elements are dropped at drain time.
func (c *Cursor) Skip(n int) *Cursor {
	c.skip = n
	c.hasSkip = true
	return c
}

// Limit configures the maximum number of elements returned at drain time.
func (c *Cursor) Limit(n int) *Cursor {
	c.limit = n
	c.hasLimit = true
	return c
}

// ToArray materializes the cursor. The order of application is fixed:
// sort, then skip, then limit. The sort comparator treats incomparable
// values as unordered; tie order is not guaranteed stable.
func (c *Cursor) ToArray() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)

	if c.hasSort {
		out = sortDocuments(out, c.sortKey)
	}

	if c.hasSkip {
		if c.skip >= len(out) {
			out = out[:0]
		} else if c.skip > 0 {
			out = out[c.skip:]
		}
	}

	if c.hasLimit && c.limit < len(out) {
		if c.limit < 0 {
			out = out[:0]
		} else {
			out = out[:c.limit]
		}
	}

	return out
}

// Count returns the size of the materialized result set.
func (c *Cursor) Count() int {
	return len(c.ToArray())
}

// sortDocuments orders docs in place by a single key and returns the slice.
// Shared by Cursor and the aggregation Sort stage.
func sortDocuments(docs []Document, key SortKey) []Document {
	sort.Slice(docs, func(i, j int) bool {
		cmp, ok := compareValues(docs[i][key.Field], docs[j][key.Field])
		if !ok {
			return false
		}
		if key.Direction < 0 {
			return cmp > 0
		}
		return cmp < 0
	})
	return docs
}
