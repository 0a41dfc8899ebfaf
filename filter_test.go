package bunmem

import (
	"testing"
)

func TestFilterEquality(t *testing.T) {
	m := compileFilter(Filter{"role": "admin"})

	doc1 := Document{"role": "admin", "age": 30}
	doc2 := Document{"role": "user", "age": 25}

	if !m.Matches(doc1) {
		t.Errorf("doc1 should match role=admin")
	}
	if m.Matches(doc2) {
		t.Errorf("doc2 should not match role=admin")
	}
}

func TestFilterEmptyMatchesEverything(t *testing.T) {
	m := compileFilter(Filter{})

	if !m.Matches(Document{"a": 1}) {
		t.Errorf("empty filter should match any document")
	}
	if !m.Matches(Document{}) {
		t.Errorf("empty filter should match the empty document")
	}
}

func TestFilterOperators(t *testing.T) {
	doc := Document{"age": 30, "name": "carol"}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"gt match", Filter{"age": map[string]interface{}{"$gt": 25}}, true},
		{"gt boundary", Filter{"age": map[string]interface{}{"$gt": 30}}, false},
		{"gte boundary", Filter{"age": map[string]interface{}{"$gte": 30}}, true},
		{"lt", Filter{"age": map[string]interface{}{"$lt": 31}}, true},
		{"lte", Filter{"age": map[string]interface{}{"$lte": 29}}, false},
		{"in hit", Filter{"name": map[string]interface{}{"$in": []interface{}{"alice", "carol"}}}, true},
		{"in miss", Filter{"name": map[string]interface{}{"$in": []interface{}{"alice", "bob"}}}, false},
		{"string range", Filter{"name": map[string]interface{}{"$gte": "bob"}}, true},
	}

	for _, tc := range cases {
		m := compileFilter(tc.filter)
		if got := m.Matches(doc); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	m := compileFilter(Filter{
		"role": "admin",
		"age":  map[string]interface{}{"$gt": 20},
	})

	if !m.Matches(Document{"role": "admin", "age": 30}) {
		t.Errorf("both conditions hold, should match")
	}
	if m.Matches(Document{"role": "user", "age": 30}) {
		t.Errorf("role mismatch, should not match")
	}
	if m.Matches(Document{"role": "admin", "age": 10}) {
		t.Errorf("age condition fails, should not match")
	}
}

func TestFilterMissingFieldNeverMatchesNeverErrors(t *testing.T) {
	doc := Document{"present": 1}

	for name, filter := range map[string]Filter{
		"equality": {"absent": 1},
		"range":    {"absent": map[string]interface{}{"$gte": 0}},
		"in":       {"absent": map[string]interface{}{"$in": []interface{}{1, 2}}},
	} {
		if compileFilter(filter).Matches(doc) {
			t.Errorf("%s on a missing field should not match", name)
		}
	}
}

// An operator object with no recognized operator key degrades to an equality
// comparison against the whole object. Almost always false, but it must match
// when the document really holds a structurally equal object, and it must
// never be rejected as invalid.
func TestFilterUnrecognizedOperatorFallsThroughToEquality(t *testing.T) {
	spec := map[string]interface{}{"$regex": "^a"}
	m := compileFilter(Filter{"name": spec})

	if m.Matches(Document{"name": "alice"}) {
		t.Errorf("unrecognized operator must not match a plain value")
	}
	if !m.Matches(Document{"name": map[string]interface{}{"$regex": "^a"}}) {
		t.Errorf("whole-object equality should match a structurally equal field value")
	}
}

func TestFilterInWithNonArrayMatchesNothing(t *testing.T) {
	m := compileFilter(Filter{"age": map[string]interface{}{"$in": 30}})
	if m.Matches(Document{"age": 30}) {
		t.Errorf("$in bound to a non-array is a silent no-match, not an equality test")
	}
}

func TestFilterIncomparableRangeFails(t *testing.T) {
	m := compileFilter(Filter{"age": map[string]interface{}{"$gt": "abc"}})
	if m.Matches(Document{"age": 30}) {
		t.Errorf("number vs string is incomparable and must fail the predicate")
	}
}

func TestValuesEqualCrossNumericTypes(t *testing.T) {
	if !valuesEqual(1, float64(1)) {
		t.Errorf("int 1 and float64 1 should be equal")
	}
	if valuesEqual(1, "1") {
		t.Errorf("number and string must never be equal")
	}
	if !valuesEqual(nil, nil) {
		t.Errorf("null equals null")
	}
	if valuesEqual(nil, 0) {
		t.Errorf("null does not equal zero")
	}
}
