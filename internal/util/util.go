// Package util contains small generic helpers shared by the rest of the
// module: ordered sets, deterministic key ordering, and a stack.
package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a nice list of things, such as "a, b, and c". If quote is
// true, each item is wrapped in double quotes.
func MakeTextList(items []string, quote bool) string {
	if len(items) < 1 {
		return ""
	}

	withQuotes := make([]string, len(items))
	for i := range items {
		if quote {
			withQuotes[i] = "\"" + items[i] + "\""
		} else {
			withQuotes[i] = items[i]
		}
	}

	if len(withQuotes) == 1 {
		return withQuotes[0]
	} else if len(withQuotes) == 2 {
		return withQuotes[0] + " and " + withQuotes[1]
	}

	// if its more than two, use an oxford comma
	withQuotes[len(withQuotes)-1] = "and " + withQuotes[len(withQuotes)-1]
	return strings.Join(withQuotes, ", ")
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	var keys []string
	var idx int

	keys = make([]string, len(m))
	idx = 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Strings(keys)

	return keys
}

// InSlice returns whether s is present in the given slice.
func InSlice[T comparable](s T, slice []T) bool {
	for i := range slice {
		if slice[i] == s {
			return true
		}
	}
	return false
}

// CustomComparable is an interface for items that may be checked against
// arbitrary other objects. In practice most will attempt to typecast to their
// own type and immediately return false if the argument is not the same, but in
// theory this allows for comparison to multiple types of things.
type CustomComparable interface {
	Equal(other any) bool
}

// EqualSlices checks that the two slices contain the same items in the same
// order. Equality of items is checked by items in the slices are equal by
// calling the custom Equal function on each element. In particular, Equal is
// called on elements of sl1 with elements of sl2 passed in as the argument.
func EqualSlices[T CustomComparable](sl1 []T, sl2 []T) bool {
	if len(sl1) != len(sl2) {
		return false
	}

	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}

	return true
}

// Stack is a LIFO stack. The zero value is an empty stack ready for use.
type Stack[E any] struct {
	items []E
}

// Push puts v on top of the stack.
func (s *Stack[E]) Push(v E) {
	s.items = append(s.items, v)
}

// Pop removes the top item of the stack and returns it. Panics if the stack is
// empty.
func (s *Stack[E]) Pop() E {
	if len(s.items) < 1 {
		panic("pop of empty stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v
}

// Len returns the number of items on the stack.
func (s Stack[E]) Len() int {
	return len(s.items)
}
