package grammar

import (
	"strings"

	"github.com/dekarrin/chomsky/internal/util"
)

// Rule is every production of a single non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

// String gives the rule as "A -> a B | ε". A rule with no productions is
// given as "A -> ∅".
func (r Rule) String() string {
	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")

	if len(r.Productions) == 0 {
		sb.WriteString(EmptySetGlyph)
		return sb.String()
	}

	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}

	return sb.String()
}

// Equal returns whether Rule is equal to another value. It will not be equal
// if the other value cannot be casted to a Rule or *Rule. Productions must be
// in the same order.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		// also okay if its the pointer value, as long as its non-nil
		otherPtr, ok := o.(*Rule)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}
	return util.EqualSlices(r.Productions, other.Productions)
}

// CanProduce returns whether this rule can produce the given Production.
func (r Rule) CanProduce(p Production) bool {
	for _, alt := range r.Productions {
		if alt.Equal(p) {
			return true
		}
	}
	return false
}

// CanProduceSymbol whether any alternative in productions produces the
// given term/non-terminal
func (r Rule) CanProduceSymbol(termOrNonTerm string) bool {
	for _, alt := range r.Productions {
		if alt.HasSymbol(termOrNonTerm) {
			return true
		}
	}
	return false
}

// prodSet is an insertion-ordered set of productions.
type prodSet struct {
	seen  map[string]bool
	prods []Production
}

func newProdSet() *prodSet {
	return &prodSet{seen: map[string]bool{}}
}

// add adds p if it is not already present and returns whether it was added.
func (ps *prodSet) add(p Production) bool {
	k := p.key()
	if ps.seen[k] {
		return false
	}
	ps.seen[k] = true
	if p.IsEpsilon() {
		p = Epsilon
	}
	ps.prods = append(ps.prods, p.Copy())
	return true
}
