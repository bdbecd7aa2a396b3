package mods

import (
	"slices"
	"strings"
)

// IgnoreSet holds UUIDs that are never exported and never reported missing.
// The zero value is an empty, usable set.
type IgnoreSet struct {
	uuids map[string]struct{}
}

// NewIgnoreSet builds a set from the given UUIDs. Blank entries are dropped.
func NewIgnoreSet(uuids ...string) IgnoreSet {
	s := IgnoreSet{uuids: make(map[string]struct{}, len(uuids))}
	for _, u := range uuids {
		if u = strings.TrimSpace(u); u != "" {
			s.uuids[u] = struct{}{}
		}
	}
	return s
}

// DefaultIgnoreSet contains every publisher mod.
func DefaultIgnoreSet() IgnoreSet {
	s := NewIgnoreSet()
	for u := range builtinSet {
		s.uuids[u] = struct{}{}
	}
	return s
}

// Has reports whether uuid is ignored.
func (s IgnoreSet) Has(uuid string) bool {
	_, ok := s.uuids[uuid]
	return ok
}

// With returns a copy of the set extended with uuids.
func (s IgnoreSet) With(uuids ...string) IgnoreSet {
	out := NewIgnoreSet(uuids...)
	for u := range s.uuids {
		out.uuids[u] = struct{}{}
	}
	return out
}

func (s IgnoreSet) Len() int { return len(s.uuids) }

// UUIDs returns the members in sorted order.
func (s IgnoreSet) UUIDs() []string {
	out := make([]string, 0, len(s.uuids))
	for u := range s.uuids {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}
