package bunmem

// Filter is a conjunctive predicate specification over document fields.
// Each key maps to either a literal value (equality test) or an operator
// object such as {"$gte": 10}. A filter with zero keys matches every document.
type Filter map[string]interface{}

// Operator constants recognized inside an operator object. Anything else in
// an object-valued spec falls through to a whole-object equality comparison;
// that silent fallback is part of the contract and must not raise.
const (
	OpIn  = "$in"
	OpGte = "$gte"
	OpLte = "$lte"
	OpGt  = "$gt"
	OpLt  = "$lt"
)

type conditionOp int

const (
	condEq conditionOp = iota
	condIn
	condGte
	condLte
	condGt
	condLt
	// condNoMatch marks a structurally unusable condition (e.g. $in bound to
	// a non-array). It matches nothing and never errors.
	condNoMatch
)

// condition is one parsed field predicate. All conditions of a filter are
// ANDed together.
type condition struct {
	field string
	op    conditionOp
	value interface{}
}

// matcher is a Filter compiled into typed conditions.
type matcher struct {
	conds []condition
}

// compileFilter inspects each field spec once and produces typed conditions.
// Operator objects contribute one condition per recognized operator present;
// operator objects with no recognized operator degrade to a single equality
// condition against the whole object.
func compileFilter(filter Filter) matcher {
	m := matcher{}
	for field, spec := range filter {
		obj, isObj := spec.(map[string]interface{})
		if !isObj {
			if f, ok := spec.(Filter); ok {
				obj, isObj = map[string]interface{}(f), true
			}
		}
		if !isObj {
			m.conds = append(m.conds, condition{field: field, op: condEq, value: spec})
			continue
		}

		recognized := 0
		for op, opVal := range obj {
			switch op {
			case OpIn:
				if members, ok := opVal.([]interface{}); ok {
					m.conds = append(m.conds, condition{field: field, op: condIn, value: members})
				} else {
					m.conds = append(m.conds, condition{field: field, op: condNoMatch})
				}
				recognized++
			case OpGte:
				m.conds = append(m.conds, condition{field: field, op: condGte, value: opVal})
				recognized++
			case OpLte:
				m.conds = append(m.conds, condition{field: field, op: condLte, value: opVal})
				recognized++
			case OpGt:
				m.conds = append(m.conds, condition{field: field, op: condGt, value: opVal})
				recognized++
			case OpLt:
				m.conds = append(m.conds, condition{field: field, op: condLt, value: opVal})
				recognized++
			}
		}

		if recognized == 0 {
			// No recognized operator: equality against the object itself,
			// which is almost always false. Kept verbatim.
			m.conds = append(m.conds, condition{field: field, op: condEq, value: spec})
		}
	}
	return m
}

// Matches reports whether the document satisfies every condition.
// Missing fields fail their predicate silently; they are never an error.
func (m matcher) Matches(doc Document) bool {
	for _, c := range m.conds {
		if !c.matches(doc) {
			return false
		}
	}
	return true
}

func (c condition) matches(doc Document) bool {
	val, exists := doc[c.field]

	switch c.op {
	case condEq:
		return exists && valuesEqual(val, c.value)
	case condIn:
		if !exists {
			return false
		}
		for _, member := range c.value.([]interface{}) {
			if valuesEqual(val, member) {
				return true
			}
		}
		return false
	case condGte, condLte, condGt, condLt:
		if !exists {
			return false
		}
		cmp, ok := compareValues(val, c.value)
		if !ok {
			return false
		}
		switch c.op {
		case condGte:
			return cmp >= 0
		case condLte:
			return cmp <= 0
		case condGt:
			return cmp > 0
		default:
			return cmp < 0
		}
	default:
		return false
	}
}
