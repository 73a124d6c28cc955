package grammar

import (
	"strings"

	"github.com/dekarrin/chomsky/internal/util"
)

// Production is the right side of a grammar rule: an ordered sequence of
// terminal and non-terminal symbols. The empty production is represented by
// Epsilon.
type Production []string

var (
	// Epsilon is the empty production. It is the only production that may
	// contain the empty symbol "".
	Epsilon = Production{""}
)

// EpsilonGlyph is how an empty production is displayed.
const EpsilonGlyph = "ε"

// EmptySetGlyph is how the right side of a rule with no productions is
// displayed.
const EmptySetGlyph = "∅"

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// Equal returns whether Production is equal to another value. It will not be
// equal if the other value cannot be cast to Production, *Production, or a
// string slice.
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Production)
		if !ok {
			// also okay if it's a string slice
			otherSlice, ok := o.([]string)

			if !ok {
				return false
			}
			other = Production(otherSlice)
		} else if otherPtr == nil {
			return false
		} else {
			other = *otherPtr
		}
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// IsEpsilon returns whether p is the empty production.
func (p Production) IsEpsilon() bool {
	return len(p) == 0 || p.Equal(Epsilon)
}

func (p Production) String() string {
	// if it's an epsilon production output that symbol only
	if p.IsEpsilon() {
		return EpsilonGlyph
	}

	return strings.Join(p, " ")
}

// HasSymbol returns whether the production has the given symbol in it.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

// key gives a string that uniquely identifies the sequence of symbols in p,
// for use as a map key.
func (p Production) key() string {
	if p.IsEpsilon() {
		return ""
	}
	return strings.Join(p, "\x1f")
}

// HasAny returns whether any symbol in the production is in syms.
func (p Production) HasAny(syms util.ISet[string]) bool {
	for _, sym := range p {
		if syms.Has(sym) {
			return true
		}
	}
	return false
}
