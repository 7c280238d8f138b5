package runtime

import (
	"strings"

	"glang/interpreter-go/pkg/ast"
)

// HashValue is an insertion-ordered string-keyed map. Like lists it carries
// an optional element constraint, optional per-entry names, and a rule
// pipeline.
type HashValue struct {
	keys       []string
	entries    map[string]Value
	names      map[string]string
	Constraint string
	Rules      *Pipeline
	frozen     bool
}

func NewHashValue(constraint string) *HashValue {
	return &HashValue{entries: make(map[string]Value), Constraint: constraint}
}

// NewHashFromPairs builds a hash from data-node pairs, validating every value
// against the constraint before the hash is returned.
func NewHashFromPairs(pairs []*DataNodeValue, constraint string) (*HashValue, error) {
	h := NewHashValue(constraint)
	for _, pair := range pairs {
		if constraint != "" {
			if err := CheckConstraint(constraint, pair.Val); err != nil {
				return nil, NewError(ErrTypeConstraint, ast.Position{},
					"hash entry %q violates '%s' constraint: got %s", pair.Key, constraint, TypeTag(pair.Val))
			}
		}
		h.set(pair.Key, pair.Val)
	}
	return h, nil
}

func (h *HashValue) Kind() Kind { return KindHash }

func (h *HashValue) Len() int { return len(h.keys) }

// Keys returns the keys in insertion order.
func (h *HashValue) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Values returns the values in insertion order.
func (h *HashValue) Values() []Value {
	out := make([]Value, 0, len(h.keys))
	for _, key := range h.keys {
		out = append(out, h.entries[key])
	}
	return out
}

func (h *HashValue) Get(key string) (Value, bool) {
	v, ok := h.entries[key]
	return v, ok
}

// GetFold looks a key up case-insensitively, used when the active
// configuration disables case sensitivity.
func (h *HashValue) GetFold(key string) (Value, bool) {
	if v, ok := h.entries[key]; ok {
		return v, true
	}
	for _, k := range h.keys {
		if strings.EqualFold(k, key) {
			return h.entries[k], true
		}
	}
	return nil, false
}

// Set inserts or replaces an entry, re-validating the constraint. Insertion
// order is preserved; replacing an existing key keeps its original slot.
func (h *HashValue) Set(key string, v Value) error {
	if h.frozen {
		return NewError(ErrFrozen, ast.Position{}, "cannot mutate frozen hash")
	}
	if h.Constraint != "" {
		if err := CheckConstraint(h.Constraint, v); err != nil {
			return err
		}
	}
	h.set(key, v)
	return nil
}

func (h *HashValue) set(key string, v Value) {
	if h.entries == nil {
		h.entries = make(map[string]Value)
	}
	if _, exists := h.entries[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.entries[key] = v
}

func (h *HashValue) Delete(key string) (Value, error) {
	if h.frozen {
		return nil, NewError(ErrFrozen, ast.Position{}, "cannot mutate frozen hash")
	}
	v, ok := h.entries[key]
	if !ok {
		return nil, NewError(ErrIndex, ast.Position{}, "hash has no key %q", key)
	}
	delete(h.entries, key)
	for idx, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:idx], h.keys[idx+1:]...)
			break
		}
	}
	if h.names != nil {
		delete(h.names, key)
	}
	return v, nil
}

// SetName attaches a name annotation to an existing entry.
func (h *HashValue) SetName(key, name string) error {
	if _, ok := h.entries[key]; !ok {
		return NewError(ErrIndex, ast.Position{}, "hash has no key %q", key)
	}
	if h.names == nil {
		h.names = make(map[string]string)
	}
	h.names[key] = name
	return nil
}

func (h *HashValue) NameOf(key string) string {
	return h.names[key]
}
