package types

import (
	"encoding/json"
	"sort"
)

// SchemaSet holds the annotation schema IDs selected on an ANNOTATE
// step. Genuine set semantics: Add and Remove are idempotent and
// order-independent. Serializes as a sorted JSON array.
type SchemaSet map[int64]struct{}

// NewSchemaSet builds a set from the given IDs.
func NewSchemaSet(ids ...int64) SchemaSet {
	s := make(SchemaSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s SchemaSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

// Values returns the members in ascending order. Sorting keeps catalog
// computation deterministic regardless of toggle order.
func (s SchemaSet) Values() []int64 {
	out := make([]int64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (s SchemaSet) Clone() SchemaSet {
	c := make(SchemaSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Toggle returns a copy with id's membership flipped. Applying Toggle
// twice returns to the original membership.
func (s SchemaSet) Toggle(id int64) SchemaSet {
	c := s.Clone()
	if _, ok := c[id]; ok {
		delete(c, id)
	} else {
		c[id] = struct{}{}
	}
	return c
}

// MarshalJSON serializes as a sorted array of IDs.
func (s SchemaSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON restores from an array of IDs, deduplicating.
func (s *SchemaSet) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSchemaSet(ids...)
	return nil
}

// FieldSet holds the promoted field names on a CURATE step. The empty
// set means "curate all available annotation fields". Serializes as a
// sorted JSON array.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from the given names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports membership.
func (s FieldSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Values returns the members in lexical order.
func (s FieldSet) Values() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s FieldSet) Clone() FieldSet {
	c := make(FieldSet, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Toggle returns a copy with name's membership flipped.
func (s FieldSet) Toggle(name string) FieldSet {
	c := s.Clone()
	if _, ok := c[name]; ok {
		delete(c, name)
	} else {
		c[name] = struct{}{}
	}
	return c
}

// MarshalJSON serializes as a sorted array of names.
func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON restores from an array of names, deduplicating.
func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewFieldSet(names...)
	return nil
}
