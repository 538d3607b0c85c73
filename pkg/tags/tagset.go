// Package tags holds the core OSM tag data model shared by the dictionary,
// the engine, and the transports.
package tags

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MaxValueLength is the OSM limit for tag values.
const MaxValueLength = 255

// Tag is a single OSM key/value pair.
type Tag struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Set is an ordered collection of tags with unique keys. Insertion order is
// preserved so that serialized output is deterministic.
type Set struct {
	keys   []string
	values map[string]string
}

// NewSet returns an empty tag set.
func NewSet() *Set {
	return &Set{values: make(map[string]string)}
}

// FromMap builds a set from a plain map, inserting keys in ascending order so
// the result is deterministic regardless of map iteration.
func FromMap(m map[string]string) *Set {
	s := NewSet()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Put(k, m[k])
	}
	return s
}

// Put inserts or replaces the value for key. A replaced key keeps its
// original position.
func (s *Set) Put(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key.
func (s *Set) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Delete removes key if present.
func (s *Set) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of tags.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (s *Set) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Tags returns the tags in insertion order.
func (s *Set) Tags() []Tag {
	out := make([]Tag, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Tag{Key: k, Value: s.values[k]})
	}
	return out
}

// Map returns a plain map copy of the set.
func (s *Set) Map() map[string]string {
	out := make(map[string]string, len(s.keys))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy preserving insertion order.
func (s *Set) Clone() *Set {
	c := NewSet()
	for _, k := range s.keys {
		c.Put(k, s.values[k])
	}
	return c
}

func (s *Set) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		parts = append(parts, k+"="+s.values[k])
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes the set as an ordered array of {key, value} objects.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tags())
}

// UnmarshalJSON accepts either the ordered array form or a plain JSON object.
func (s *Set) UnmarshalJSON(data []byte) error {
	s.keys = nil
	s.values = make(map[string]string)

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("decode tag object: %w", err)
		}
		*s = *FromMap(m)
		return nil
	}

	var list []Tag
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode tag list: %w", err)
	}
	for _, t := range list {
		s.Put(t.Key, t.Value)
	}
	return nil
}
