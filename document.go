package bunmem

import (
	"github.com/google/uuid"
)

// IDField is the identity field of every stored document.
const IDField = "_id"

// Document represents a JSON-like document: a mapping of field name to a
// dynamically typed value (nil, bool, number, string, []interface{}, nested map).
type Document map[string]interface{}

// GetID returns the document ID if it is present and a string.
func (d Document) GetID() (string, bool) {
	id, exists := d[IDField]
	if !exists {
		return "", false
	}

	idStr, ok := id.(string)
	if !ok {
		return "", false
	}
	return idStr, true
}

// SetID sets the document ID.
func (d Document) SetID(id string) {
	d[IDField] = id
}

// Clone creates a deep copy of the document.
func (d Document) Clone() Document {
	clone := make(Document, len(d))
	for k, v := range d {
		clone[k] = deepCopyValue(v)
	}
	return clone
}

// deepCopyValue creates a deep copy of a value.
func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Document:
		return val.Clone()
	case map[string]interface{}:
		return Document(val).Clone()
	case []interface{}:
		cp := make([]interface{}, len(val))
		for i, item := range val {
			cp[i] = deepCopyValue(item)
		}
		return cp
	default:
		// Primitives (string, number, bool) are immutable or copied by value
		return val
	}
}

// generateID generates a unique document ID.
func generateID() string {
	return uuid.New().String()
}
