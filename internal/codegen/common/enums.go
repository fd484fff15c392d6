package common

import (
	"cmp"
	"slices"
)

// SanitizeLeadingDigit prefixes names that start with a digit with "Num"
// to keep identifiers valid in C.
func SanitizeLeadingDigit(name string) string {
	if name == "" {
		return ""
	}
	if isDigit(name[0]) {
		return "Num" + name
	}
	return name
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
