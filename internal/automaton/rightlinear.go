package automaton

import (
	"errors"
	"fmt"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// ErrNotRightLinear is returned when a grammar has a production that is not
// of the form A -> w B or A -> w, where w is a string of zero or more
// terminals.
var ErrNotRightLinear = errors.New("grammar is not right-linear")

// IsRightLinear returns whether every production of g is made of zero or more
// terminals followed by at most one non-terminal.
func IsRightLinear(g grammar.Grammar) bool {
	for _, r := range g.Rules() {
		for _, p := range r.Productions {
			if !isRightLinearProduction(g, p) {
				return false
			}
		}
	}
	return true
}

func isRightLinearProduction(g grammar.Grammar, p grammar.Production) bool {
	if p.IsEpsilon() {
		return true
	}
	for i, sym := range p {
		if i+1 < len(p) && !g.IsTerminal(sym) {
			return false
		}
	}
	return true
}

// FromRightLinear builds an NFA accepting exactly the strings that the
// right-linear grammar g generates. There is one state per non-terminal, named
// after it, plus one accepting final state. A non-terminal's state is also
// accepting if it has an epsilon production. Productions with more than one
// terminal before the non-terminal are given chains of intermediate states,
// and unit productions become ε-moves. Names of the final and intermediate
// states are taken from a grammar.Allocator so they never collide with
// non-terminals.
//
// If g is not right-linear, an error with ErrNotRightLinear as a cause is
// returned.
func FromRightLinear(g grammar.Grammar) (NFA, error) {
	if err := g.Validate(); err != nil {
		return NFA{}, err
	}

	var nfa NFA
	alloc := grammar.NewAllocator(g)

	for _, nt := range g.NonTerminals() {
		nfa.AddState(nt, false)
	}
	final := alloc.Allocate()
	nfa.AddState(final, true)
	nfa.Start = g.StartSymbol()

	for _, r := range g.Rules() {
		for _, p := range r.Productions {
			if !isRightLinearProduction(g, p) {
				return NFA{}, fmt.Errorf("%w: %s -> %s", ErrNotRightLinear, r.NonTerminal, p)
			}

			if p.IsEpsilon() {
				nfa.SetAccepting(r.NonTerminal, true)
				continue
			}

			terms := p
			dest := final
			if last := p[len(p)-1]; g.IsNonTerminal(last) {
				terms = p[:len(p)-1]
				dest = last
			}

			if len(terms) == 0 {
				// unit production
				nfa.AddTransition(r.NonTerminal, "", dest)
				continue
			}

			from := r.NonTerminal
			for i, t := range terms {
				to := dest
				if i+1 < len(terms) {
					to = alloc.Allocate()
					nfa.AddState(to, false)
				}
				nfa.AddTransition(from, t, to)
				from = to
			}
		}
	}

	return nfa, nil
}

// ToGrammar returns a right-linear grammar that generates exactly the strings
// dfa accepts. Each state becomes a non-terminal, with a production a Q for
// every move to Q on a, and an epsilon production if the state is accepting.
// Non-terminal names are given out by a grammar.Allocator in state order,
// with the start state first.
func ToGrammar(dfa DFA) (grammar.Grammar, error) {
	if _, ok := dfa.states[dfa.Start]; !ok {
		return grammar.Grammar{}, fmt.Errorf("DFA start state %q does not exist", dfa.Start)
	}

	var g grammar.Grammar
	for _, a := range dfa.InputSymbols().Elements() {
		g.AddTerm(a)
	}

	alloc := grammar.NewAllocator(g)
	names := map[string]string{}
	order := dfa.orderedStates()
	for _, state := range order {
		names[state] = alloc.Allocate()
		g.AddNonTerminal(names[state])
	}
	g.Start = names[dfa.Start]

	for _, state := range order {
		st := dfa.states[state]
		for _, a := range util.OrderedKeys(st.transitions) {
			g.AddRule(names[state], grammar.Production{a, names[st.transitions[a].next]})
		}
		if st.accepting {
			g.AddRule(names[state], grammar.Epsilon)
		}
	}

	return g, nil
}
