package bunmem

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kartikbazzad/bunmem/internal/metrics"
)

// Collection is an ordered, named sequence of documents. Insertion order is
// the collection's natural order and is preserved across reads except where a
// sort is explicitly requested.
//
// A single RWMutex enforces the single-writer discipline: CRUD and aggregation
// operations mutate or iterate the same backing slice, so concurrent writers
// must serialize here.
type Collection struct {
	name  string
	store *Store
	mu    sync.RWMutex
	docs  []Document
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// InsertOneResult reports the outcome of InsertOne. Acknowledged is always
// true: duplicate identities are accepted without rejection, lookups by
// identity simply return the first sequence match.
type InsertOneResult struct {
	InsertedID   string
	Acknowledged bool
}

// InsertOne assigns an identity if the document has none, appends the
// document to the end of the sequence and returns the identity used.
// The document is stored by reference, not copied.
func (c *Collection) InsertOne(doc Document) InsertOneResult {
	defer c.observe("insertOne", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := doc.GetID()
	if !ok || id == "" {
		id = generateID()
		doc.SetID(id)
	}
	c.docs = append(c.docs, doc)
	c.updateGauge()

	return InsertOneResult{InsertedID: id, Acknowledged: true}
}

// InsertMany applies InsertOne semantics to every element in input order and
// returns the count inserted, always equal to the input length.
func (c *Collection) InsertMany(docs []Document) int {
	defer c.observe("insertMany", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range docs {
		if id, ok := doc.GetID(); !ok || id == "" {
			doc.SetID(generateID())
		}
		c.docs = append(c.docs, doc)
	}
	c.updateGauge()

	return len(docs)
}

// FindOne returns the first document, scanning in natural order, for which
// the filter succeeds, or nil if none matches.
func (c *Collection) FindOne(filter Filter) Document {
	defer c.observe("findOne", time.Now())

	m := compileFilter(filter)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if m.Matches(doc) {
			return doc
		}
	}
	return nil
}

// Find computes the filtered working set eagerly at call time and returns a
// cursor over it. Sort, skip and limit chained on the cursor are deferred
// until the cursor is drained with ToArray.
func (c *Collection) Find(filter Filter) *Cursor {
	defer c.observe("find", time.Now())

	m := compileFilter(filter)

	c.mu.RLock()
	defer c.mu.RUnlock()

	working := make([]Document, 0, len(c.docs))
	for _, doc := range c.docs {
		if m.Matches(doc) {
			working = append(working, doc)
		}
	}
	return &Cursor{docs: working}
}

// UpdateOne finds the first matching document by natural-order scan and
// applies the update specifier to it in place: "$set" merges field/value
// pairs, "$inc" adds numeric deltas (a missing field counts as zero).
// Returns the modified count, 0 or 1.
func (c *Collection) UpdateOne(filter Filter, update map[string]interface{}) int {
	defer c.observe("updateOne", time.Now())

	m := compileFilter(filter)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.docs {
		if !m.Matches(doc) {
			continue
		}
		applySet(doc, update)
		applyInc(doc, update)
		return 1
	}
	return 0
}

// UpdateMany applies the "$set" merge to every matching document and returns
// the number of documents modified.
//
// "$inc" is intentionally unsupported here even though UpdateOne honors it;
// the asymmetry is long-standing observable behavior and is preserved.
func (c *Collection) UpdateMany(filter Filter, update map[string]interface{}) int {
	defer c.observe("updateMany", time.Now())

	m := compileFilter(filter)

	c.mu.Lock()
	defer c.mu.Unlock()

	modified := 0
	for _, doc := range c.docs {
		if !m.Matches(doc) {
			continue
		}
		applySet(doc, update)
		modified++
	}
	return modified
}

// DeleteOne removes the first matching document from the sequence and returns
// the deleted count, 0 or 1.
func (c *Collection) DeleteOne(filter Filter) int {
	defer c.observe("deleteOne", time.Now())

	m := compileFilter(filter)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if m.Matches(doc) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			c.updateGauge()
			return 1
		}
	}
	return 0
}

// DeleteMany removes every matching document, preserving the relative order
// of the remainder. A filter with zero keys clears the entire collection.
func (c *Collection) DeleteMany(filter Filter) int {
	defer c.observe("deleteMany", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(filter) == 0 {
		deleted := len(c.docs)
		c.docs = nil
		c.updateGauge()
		return deleted
	}

	m := compileFilter(filter)
	kept := c.docs[:0]
	deleted := 0
	for _, doc := range c.docs {
		if m.Matches(doc) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	c.updateGauge()
	return deleted
}

// CountDocuments returns the number of documents matching the filter. A nil
// or empty filter counts every document.
func (c *Collection) CountDocuments(filter Filter) int {
	defer c.observe("countDocuments", time.Now())

	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(filter) == 0 {
		return len(c.docs)
	}

	m := compileFilter(filter)
	count := 0
	for _, doc := range c.docs {
		if m.Matches(doc) {
			count++
		}
	}
	return count
}

// CreateIndex synthesizes and returns a deterministic index name from the key
// fields. It performs no structural work: queries are not accelerated, and
// callers must not assume any behavioral effect. Accepted for compatibility
// with callers that issue createIndex before loading datasets.
func (c *Collection) CreateIndex(keys map[string]int) string {
	defer c.observe("createIndex", time.Now())

	fields := make([]string, 0, len(keys))
	for field := range keys {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+"_"+strconv.Itoa(keys[field]))
	}
	return strings.Join(parts, "_")
}

// Aggregate returns a handle over the pipeline; evaluation happens when the
// handle is drained with ToArray.
func (c *Collection) Aggregate(stages ...Stage) *Aggregation {
	return &Aggregation{col: c, stages: stages}
}

// snapshot returns the current document sequence under the read lock.
// Callers get a fresh slice header but share the document references.
func (c *Collection) snapshot() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// applySet merges "$set" field/value pairs into the document in place.
func applySet(doc Document, update map[string]interface{}) {
	set, ok := update["$set"].(map[string]interface{})
	if !ok {
		return
	}
	for field, value := range set {
		doc[field] = value
	}
}

// applyInc adds each "$inc" delta to the corresponding field, treating a
// missing or non-numeric field as zero. Non-numeric deltas are ignored.
func applyInc(doc Document, update map[string]interface{}) {
	inc, ok := update["$inc"].(map[string]interface{})
	if !ok {
		return
	}
	for field, delta := range inc {
		d, ok := toFloat(delta)
		if !ok {
			continue
		}
		current, _ := toFloat(doc[field])
		doc[field] = current + d
	}
}

func (c *Collection) observe(op string, start time.Time) {
	metrics.OperationsTotal.WithLabelValues(op, c.name).Inc()
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// updateGauge refreshes the live-document gauge; callers hold the write lock.
func (c *Collection) updateGauge() {
	metrics.Documents.WithLabelValues(c.name).Set(float64(len(c.docs)))
}
