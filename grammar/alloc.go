package grammar

import (
	"fmt"

	"github.com/dekarrin/chomsky/internal/util"
)

// Allocator hands out fresh non-terminal names that collide with nothing
// already in use. It first gives out the unused capital Latin letters A
// through Z, then N1, N2, N3 and so on without limit, skipping any that are
// taken. Allocation is deterministic for a given set of reserved names and
// sequence of calls.
//
// An Allocator is not safe for concurrent use; each conversion of a grammar
// should use its own.
type Allocator struct {
	used   util.StringSet
	letter rune
	index  int
}

// NewAllocator creates an Allocator that will never return a symbol already
// declared in g.
func NewAllocator(g Grammar) *Allocator {
	a := &Allocator{
		used:   util.NewStringSet(),
		letter: 'A',
	}
	a.Reserve(g.symbols()...)
	return a
}

// Reserve marks the given names as in use so that they are never allocated.
func (a *Allocator) Reserve(names ...string) {
	for _, n := range names {
		a.used.Add(n)
	}
}

// Allocate returns a new name and registers it as in use. It never fails.
func (a *Allocator) Allocate() string {
	for a.letter <= 'Z' {
		name := string(a.letter)
		a.letter++
		if !a.used.Has(name) {
			a.used.Add(name)
			return name
		}
	}

	for {
		a.index++
		name := fmt.Sprintf("N%d", a.index)
		if !a.used.Has(name) {
			a.used.Add(name)
			return name
		}
	}
}

// AllocateFrom returns a new name derived from base by appending "-P" until
// the result is unused, and registers it as in use.
func (a *Allocator) AllocateFrom(base string) string {
	name := base + "-P"
	for a.used.Has(name) {
		name += "-P"
	}
	a.used.Add(name)
	return name
}
