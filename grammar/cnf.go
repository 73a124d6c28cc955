package grammar

import "fmt"

// Stage is a point in the conversion of a grammar to Chomsky Normal Form.
// Each stage's result satisfies everything the ones before it do.
type Stage int

const (
	Raw Stage = iota
	EpsilonFree
	UnitFree
	Reachable
	Productive
	Binarized
	CNF
)

func (s Stage) String() string {
	switch s {
	case Raw:
		return "raw"
	case EpsilonFree:
		return "epsilon-free"
	case UnitFree:
		return "unit-free"
	case Reachable:
		return "reachable"
	case Productive:
		return "productive"
	case Binarized:
		return "binarized"
	case CNF:
		return "CNF"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Options control ToCNF.
type Options struct {
	// KeepEmpty makes the converted grammar keep the empty string in its
	// language when the original grammar generates it. This is done with a
	// production start -> ε, introducing a new start symbol if the old one is
	// used on the right side of any production. If KeepEmpty is false, the
	// empty string is dropped from the language.
	KeepEmpty bool

	// Trace, if set, is called with the grammar produced by each stage of the
	// conversion. The Grammar passed to it may be freely modified.
	Trace func(stage Stage, g Grammar)
}

func (opts Options) trace(stage Stage, g Grammar) {
	if opts.Trace != nil {
		opts.Trace(stage, g.Copy())
	}
}

// IsCNF returns whether every production of g is either a single terminal or
// exactly two non-terminals.
func (g Grammar) IsCNF() bool {
	return g.isCNF(false)
}

// isCNF is IsCNF but if allowEmptyStart is set, start -> ε is also allowed as
// long as the start symbol is not on the right side of any production.
func (g Grammar) isCNF(allowEmptyStart bool) bool {
	start := g.StartSymbol()
	startUsed := g.usedOnRightSide(start)

	for _, r := range g.rules {
		for _, p := range r.Productions {
			switch {
			case p.IsEpsilon():
				if !allowEmptyStart || r.NonTerminal != start || startUsed {
					return false
				}
			case len(p) == 1:
				if !g.IsTerminal(p[0]) {
					return false
				}
			case len(p) == 2:
				if !g.IsNonTerminal(p[0]) || !g.IsNonTerminal(p[1]) {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

// usedOnRightSide returns whether sym appears in any production.
func (g Grammar) usedOnRightSide(sym string) bool {
	for _, r := range g.rules {
		if r.CanProduceSymbol(sym) {
			return true
		}
	}
	return false
}

// ToCNF returns a grammar in Chomsky Normal Form that generates the same
// strings as g, except possibly the empty string (see Options.KeepEmpty). If g
// is already in Chomsky Normal Form, a copy of it is returned unchanged.
//
// The grammar is validated first and any problem is returned as an error with
// ErrMalformedGrammar as a cause. If an internal bound is exceeded the error
// will have ErrNonTermination as a cause, along with ErrSizeLimit when the
// bound is on the size of a production. If the result somehow fails to be in
// Chomsky Normal Form the error will have ErrInvariant as a cause. No Grammar
// is returned along with an error.
func (g Grammar) ToCNF(opts Options) (Grammar, error) {
	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}
	g = g.Copy()
	g.Start = g.StartSymbol()

	opts.trace(Raw, g)
	if g.isCNF(opts.KeepEmpty) {
		opts.trace(CNF, g)
		return g, nil
	}

	nullable, err := g.nullableSet()
	if err != nil {
		return Grammar{}, err
	}
	startNullable := nullable.Has(g.Start)

	stages := []struct {
		stage Stage
		run   func(Grammar) (Grammar, error)
	}{
		{EpsilonFree, Grammar.RemoveEpsilons},
		{UnitFree, Grammar.RemoveUnitProductions},
		{Reachable, Grammar.RemoveUnreachableNonTerminals},
		{Productive, Grammar.RemoveUnproductiveNonTerminals},
	}

	for _, st := range stages {
		g, err = st.run(g)
		if err != nil {
			return Grammar{}, fmt.Errorf("%s stage: %w", st.stage, err)
		}
		opts.trace(st.stage, g)
	}

	alloc := NewAllocator(g)

	g, err = g.reshape(alloc, func(binarized Grammar) {
		opts.trace(Binarized, binarized)
	})
	if err != nil {
		return Grammar{}, fmt.Errorf("%s stage: %w", CNF, err)
	}

	// reshaping may orphan symbols, so clean up once more
	g, err = g.RemoveUnreachableNonTerminals()
	if err != nil {
		return Grammar{}, fmt.Errorf("%s stage: %w", CNF, err)
	}
	g, err = g.RemoveUnproductiveNonTerminals()
	if err != nil {
		return Grammar{}, fmt.Errorf("%s stage: %w", CNF, err)
	}

	if opts.KeepEmpty && startNullable {
		g = g.withEmptyStart(alloc)
	}

	if !g.isCNF(opts.KeepEmpty) {
		return Grammar{}, invariantf("result of conversion is not in Chomsky normal form:\n%s", g)
	}
	opts.trace(CNF, g)

	return g, nil
}

// withEmptyStart returns a copy of g whose language also includes the empty
// string. If the start symbol is on the right side of any production, a new
// start symbol is made from a with all of the old one's productions plus ε;
// otherwise ε is added to the existing start symbol.
func (g Grammar) withEmptyStart(a *Allocator) Grammar {
	g = g.Copy()
	start := g.StartSymbol()

	if !g.usedOnRightSide(start) {
		g.AddRule(start, Epsilon)
		return g
	}

	a.Reserve(g.symbols()...)
	newStart := Rule{
		NonTerminal: a.AllocateFrom(start),
		Productions: g.Rule(start).Productions,
	}
	newStart.Productions = append(newStart.Productions, Epsilon.Copy())
	g.prependRule(newStart)
	g.Start = newStart.NonTerminal

	return g
}
