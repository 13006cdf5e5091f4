// Package category maps raw catalog category strings onto a small canonical vocabulary.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConflictingVariant is returned when one variant is claimed by two canonical keys.
var ErrConflictingVariant = errors.New("category variant claimed by more than one key")

// Entry is one canonical key and the raw spellings that map onto it.
type Entry struct {
	Key      string   `yaml:"key"`
	Variants []string `yaml:"variants"`
}

// Map is an ordered, case-insensitive canonical category dictionary.
// It is immutable after construction and safe for concurrent use.
type Map struct {
	entries []Entry
	owner   map[string]string // cleaned key or variant -> canonical key
}

// NewMap validates entries and builds a Map. Keys and variants are compared
// lower-cased and trimmed. A spelling listed under two different keys is rejected;
// repeating a spelling under the same key is allowed and collapsed.
func NewMap(entries []Entry) (*Map, error) {
	m := &Map{
		entries: make([]Entry, 0, len(entries)),
		owner:   make(map[string]string),
	}
	for i, e := range entries {
		key := clean(e.Key)
		if key == "" {
			return nil, fmt.Errorf("category entry %d: key is required", i)
		}
		if err := m.claim(key, key); err != nil {
			return nil, err
		}

		variants := make([]string, 0, len(e.Variants))
		seen := make(map[string]struct{}, len(e.Variants))
		for _, v := range e.Variants {
			cv := clean(v)
			if cv == "" {
				continue
			}
			if _, dup := seen[cv]; dup {
				continue
			}
			seen[cv] = struct{}{}
			if err := m.claim(cv, key); err != nil {
				return nil, err
			}
			variants = append(variants, cv)
		}
		m.entries = append(m.entries, Entry{Key: key, Variants: variants})
	}
	return m, nil
}

func (m *Map) claim(spelling, key string) error {
	if prev, ok := m.owner[spelling]; ok && prev != key {
		return fmt.Errorf("%w: %q under %q and %q", ErrConflictingVariant, spelling, prev, key)
	}
	m.owner[spelling] = key
	return nil
}

// Normalize returns the canonical key for raw. Empty or blank input yields "".
// Unknown categories fall back to the cleaned input, so the result is never
// empty for non-blank input.
func (m *Map) Normalize(raw string) string {
	c := clean(raw)
	if c == "" {
		return ""
	}
	if key, ok := m.Lookup(c); ok {
		return key
	}
	return c
}

// Lookup reports the canonical key for raw without the fallback.
func (m *Map) Lookup(raw string) (string, bool) {
	key, ok := m.owner[clean(raw)]
	return key, ok
}

// Entries returns a copy of the map in declaration order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{Key: e.Key, Variants: append([]string(nil), e.Variants...)}
	}
	return out
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
