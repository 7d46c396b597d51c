package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// Fields is an insertion-ordered map of field key to FormField. Order is part
// of the spec: it drives TOML output order and generated markup order. The
// zero value is ready to use.
type Fields struct {
	keys  []string
	items map[string]FormField
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Keys returns a copy of the field keys in order.
func (f *Fields) Keys() []string {
	return append([]string(nil), f.keys...)
}

// Has reports whether key exists.
func (f *Fields) Has(key string) bool {
	_, ok := f.items[key]
	return ok
}

// Get returns the field stored under key.
func (f *Fields) Get(key string) (FormField, bool) {
	field, ok := f.items[key]
	return field, ok
}

// Set stores field under key. New keys are appended; existing keys keep their
// position.
func (f *Fields) Set(key string, field FormField) {
	if f.items == nil {
		f.items = make(map[string]FormField)
	}
	if _, exists := f.items[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.items[key] = field
}

// Delete removes key, reporting whether it existed.
func (f *Fields) Delete(key string) bool {
	if _, ok := f.items[key]; !ok {
		return false
	}
	delete(f.items, key)
	if idx := f.index(key); idx >= 0 {
		f.keys = append(f.keys[:idx], f.keys[idx+1:]...)
	}
	return true
}

// Rename rekeys oldKey to newKey in place, keeping its position. It returns
// false without mutating when oldKey is missing or newKey is taken by a
// different field.
func (f *Fields) Rename(oldKey, newKey string) bool {
	field, ok := f.items[oldKey]
	if !ok {
		return false
	}
	if oldKey == newKey {
		return true
	}
	if _, taken := f.items[newKey]; taken {
		return false
	}
	idx := f.index(oldKey)
	f.keys[idx] = newKey
	delete(f.items, oldKey)
	f.items[newKey] = field
	return true
}

// Reorder rebuilds the order from keys, which must be a permutation of the
// current keys.
func (f *Fields) Reorder(keys []string) error {
	if len(keys) != len(f.keys) {
		return fmt.Errorf("spec: reorder expects %d keys, got %d", len(f.keys), len(keys))
	}
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := f.items[key]; !ok {
			return fmt.Errorf("spec: reorder references unknown field %q", key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("spec: reorder lists field %q twice", key)
		}
		seen[key] = struct{}{}
	}
	f.keys = append([]string(nil), keys...)
	return nil
}

// All iterates key/field pairs in order.
func (f *Fields) All() iter.Seq2[string, FormField] {
	return func(yield func(string, FormField) bool) {
		for _, key := range f.keys {
			if !yield(key, f.items[key]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	out := Fields{keys: append([]string(nil), f.keys...)}
	if f.items != nil {
		out.items = make(map[string]FormField, len(f.items))
		for key, field := range f.items {
			out.items[key] = field.Clone()
		}
	}
	return out
}

// MarshalJSON writes the fields as a JSON object in map order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *Fields) index(key string) int {
	for i, candidate := range f.keys {
		if candidate == key {
			return i
		}
	}
	return -1
}
