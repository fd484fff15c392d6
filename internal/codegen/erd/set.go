package erd

import "slices"

// Set is an unordered collection of register identifiers.
type Set map[ERD]struct{}

func NewSet(erds ...ERD) Set {
	s := make(Set, len(erds))
	for _, e := range erds {
		s[e] = struct{}{}
	}
	return s
}

func (s Set) Add(e ERD) { s[e] = struct{}{} }

func (s Set) Has(e ERD) bool {
	_, ok := s[e]
	return ok
}

// Union adds every member of o to s.
func (s Set) Union(o Set) {
	for e := range o {
		s[e] = struct{}{}
	}
}

// Sorted returns the members in ascending numeric order.
func (s Set) Sorted() []ERD {
	out := make([]ERD, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Tokens returns the canonical tokens of the members in ascending order.
func (s Set) Tokens() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = e.String()
	}
	return out
}
