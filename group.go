package bunmem

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldRef is the marker prefix turning a string into a field reference
// inside group keys and accumulator arguments, e.g. "$status".
const FieldRef = "$"

// Accumulator operators. Anything else silently produces no output field.
const (
	AccSum = "$sum"
	AccAvg = "$avg"
	AccMin = "$min"
	AccMax = "$max"
)

// Accumulator is a per-group aggregate computation. Arg is either a field
// reference string ("$amount") or a numeric literal (the classic {$sum: 1}
// document count).
type Accumulator struct {
	Op  string
	Arg interface{}
}

// GroupStage partitions the input by a group key and emits one synthesized
// document per group: the group identity under "_id" plus one output field
// per accumulator alias.
//
// Key is either nil (one single group), a field reference string whose
// resolved value per document becomes the group key (documents missing the
// field share one group rendered as "undefined"), or an arbitrary literal
// (one group per distinct JSON rendering).
type GroupStage struct {
	Key          interface{}
	Accumulators map[string]Accumulator
}

type group struct {
	id   interface{}
	docs []Document
}

func (s GroupStage) apply(docs []Document, _ *Store) []Document {
	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, doc := range docs {
		render, id := s.keyFor(doc)
		g, ok := groups[render]
		if !ok {
			g = &group{id: id}
			groups[render] = g
			order = append(order, render)
		}
		g.docs = append(g.docs, doc)
	}

	out := make([]Document, 0, len(groups))
	for _, render := range order {
		g := groups[render]
		result := Document{IDField: g.id}
		for alias, acc := range s.Accumulators {
			if value, ok := accumulate(acc, g.docs); ok {
				result[alias] = value
			}
		}
		out = append(out, result)
	}
	return out
}

// keyFor resolves the group key for one document and its rendered form used
// for distinctness.
func (s GroupStage) keyFor(doc Document) (render string, id interface{}) {
	if s.Key == nil {
		return "null", nil
	}

	if ref, ok := s.Key.(string); ok && strings.HasPrefix(ref, FieldRef) {
		field := strings.TrimPrefix(ref, FieldRef)
		val, exists := doc[field]
		if !exists {
			return "undefined", nil
		}
		return renderKey(val), val
	}

	return renderKey(s.Key), s.Key
}

// renderKey produces the serialized representation keying a group.
func renderKey(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// accumulate computes one accumulator output over a group. The second return
// is false when the accumulator produces nothing: unsupported operators, or
// Min/Max over a group with no defined numeric value. Never an error.
func accumulate(acc Accumulator, docs []Document) (interface{}, bool) {
	switch acc.Op {
	case AccSum:
		// Missing values count as 0.
		total := 0.0
		for _, doc := range docs {
			if v, ok := resolveNumeric(acc.Arg, doc); ok {
				total += v
			}
		}
		return total, true

	case AccAvg:
		// Mean over documents where the value is defined; 0 if none are.
		total, defined := 0.0, 0
		for _, doc := range docs {
			if v, ok := resolveNumeric(acc.Arg, doc); ok {
				total += v
				defined++
			}
		}
		if defined == 0 {
			return 0.0, true
		}
		return total / float64(defined), true

	case AccMin, AccMax:
		var extreme float64
		found := false
		for _, doc := range docs {
			v, ok := resolveNumeric(acc.Arg, doc)
			if !ok {
				continue
			}
			if !found {
				extreme = v
				found = true
				continue
			}
			if (acc.Op == AccMin && v < extreme) || (acc.Op == AccMax && v > extreme) {
				extreme = v
			}
		}
		if !found {
			return nil, false
		}
		return extreme, true

	default:
		return nil, false
	}
}

// resolveNumeric evaluates an accumulator argument against one document.
// A "$field" reference resolves to the document's numeric value for that
// field; a numeric literal resolves to itself for every document. Everything
// else is undefined.
func resolveNumeric(arg interface{}, doc Document) (float64, bool) {
	if ref, ok := arg.(string); ok && strings.HasPrefix(ref, FieldRef) {
		val, exists := doc[strings.TrimPrefix(ref, FieldRef)]
		if !exists {
			return 0, false
		}
		return toFloat(val)
	}
	return toFloat(arg)
}
