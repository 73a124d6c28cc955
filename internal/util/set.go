package util

import (
	"fmt"
	"sort"
	"strings"
)

// ISet is a set of elements of type E.
type ISet[E any] interface {
	// Add adds the given element to the Set. If the element is already in the
	// set, no effect occurs.
	Add(element E)

	// AddAll adds all elements in s2 to the Set.
	AddAll(s2 ISet[E])

	// Remove removes the given element from the Set. If the element is already
	// not in the set, no effect occurs.
	Remove(element E)

	// Has returns whether the given set has the specified element.
	Has(element E) bool

	// Len returns the number of elements in the set.
	Len() int

	// Elements returns the elements of the set. No particular order is
	// guaranteed.
	Elements() []E

	// Empty returns whether the set is empty.
	Empty() bool

	// Any returns whether any element in the set meets some condition.
	Any(predicate func(v E) bool) bool
}

// StringSet is a map[string]bool with methods added to fulfill ISet[string].
type StringSet map[string]bool

// NewStringSet creates a new StringSet containing the keys of every given map.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a StringSet containing every string in sl.
func StringSetOf(sl []string) StringSet {
	s := NewStringSet()
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// Copy returns a duplicate of the set.
func (s StringSet) Copy() StringSet {
	newS := NewStringSet()

	for k := range s {
		newS[k] = true
	}

	return newS
}

// Difference returns a new Set that contains the elements that are in s but not
// in o.
func (s StringSet) Difference(o ISet[string]) StringSet {
	newSet := NewStringSet()
	newSet.AddAll(s)

	for _, k := range o.Elements() {
		newSet.Remove(k)
	}

	return newSet
}

func (s StringSet) Empty() bool {
	return s.Len() == 0
}

func (s StringSet) Any(predicate func(v string) bool) bool {
	for k := range s {
		if predicate(k) {
			return true
		}
	}
	return false
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) AddAll(s2 ISet[string]) {
	for _, k := range s2.Elements() {
		s.Add(k)
	}
}

// Elements returns the contents of the set. Items are not guaranteed to be in
// any particular order; use OrderedKeys for that.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}

// StringOrdered shows the contents of the set. Items are guaranteed to be
// alphabetized.
func (s StringSet) StringOrdered() string {
	convs := []string{}

	for k := range s {
		convs = append(convs, fmt.Sprintf("%v", k))
	}

	sort.Strings(convs)

	var sb strings.Builder

	sb.WriteRune('{')
	for i := range convs {
		sb.WriteString(convs[i])
		if i+1 < len(convs) {
			sb.WriteRune(',')
			sb.WriteRune(' ')
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

func (s StringSet) String() string {
	return s.StringOrdered()
}

// Equal returns whether two sets have the same items. If anything other than a
// StringSet or *StringSet is given, they will not be considered equal.
func (s StringSet) Equal(o any) bool {
	other, ok := o.(StringSet)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*StringSet)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		} else {
			other = *otherPtr
		}
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}
