package models

import (
	"bytes"
	"encoding/json"
)

// Delta is the serialized rich-text content of a document: an ordered list of
// insert/format operations. The server treats it as opaque beyond structural
// equality - it is stored, cached, and diffed but never interpreted.
type Delta struct {
	Ops []Op `json:"ops"`
}

// Op is a single rich-text operation. Insert carries either a string or an
// embed object; Attributes carries formatting. Retain/Delete appear only in
// client-side edit deltas but round-trip through the server untouched.
type Op struct {
	Insert     any            `json:"insert,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Retain     int            `json:"retain,omitempty"`
	Delete     int            `json:"delete,omitempty"`
}

// IsEmpty reports whether the delta carries no operations.
func (d Delta) IsEmpty() bool {
	return len(d.Ops) == 0
}

// Equal reports structural equality of two deltas, comparing their operation
// lists element-wise via canonical JSON.
func (d Delta) Equal(other Delta) bool {
	if len(d.Ops) != len(other.Ops) {
		return false
	}
	for i := range d.Ops {
		if !d.Ops[i].Equal(other.Ops[i]) {
			return false
		}
	}
	return true
}

// Equal reports structural equality of two operations. Ops are small, so
// marshaling to canonical JSON is good enough; map key order is normalized by
// encoding/json.
func (o Op) Equal(other Op) bool {
	a, err := json.Marshal(o)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
