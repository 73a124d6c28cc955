// Package automaton contains finite automata that can be built from
// right-linear grammars and turned back into them.
package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// Transition is a move from one state to another on an input symbol. The
// empty input is an ε-move.
type Transition struct {
	input string
	next  string
}

func (t Transition) String() string {
	inp := t.input
	if inp == "" {
		inp = grammar.EpsilonGlyph
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

func mustParseTransition(s string) Transition {
	t, err := parseTransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// parseTransition reads a Transition in the format produced by its String
// method.
func parseTransition(s string) (Transition, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return Transition{}, fmt.Errorf("not a valid transition: %q", s)
	}

	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if !strings.HasPrefix(left, "=(") || !strings.HasSuffix(left, ")=>") || len(left) < 6 {
		return Transition{}, fmt.Errorf("not a valid transition: bad input part: %q", left)
	}
	input := left[2 : len(left)-3]
	if input == grammar.EpsilonGlyph {
		input = ""
	}

	if right == "" {
		return Transition{}, fmt.Errorf("not a valid transition: bad next: %q", s)
	}

	return Transition{
		input: input,
		next:  right,
	}, nil
}

type dfaState struct {
	name        string
	transitions map[string]Transition
	accepting   bool
}

func (ds dfaState) copy() dfaState {
	ds2 := dfaState{
		name:        ds.name,
		transitions: make(map[string]Transition, len(ds.transitions)),
		accepting:   ds.accepting,
	}
	for k, v := range ds.transitions {
		ds2.transitions[k] = v
	}
	return ds2
}

func (ds dfaState) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ds.transitions)

	for i, input := range inputs {
		moves.WriteString(ds.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ds.name, moves.String())

	if ds.accepting {
		str = "(" + str + ")"
	}

	return str
}

type nfaState struct {
	name        string
	transitions map[string][]Transition
	accepting   bool
}

func (ns nfaState) copy() nfaState {
	ns2 := nfaState{
		name:        ns.name,
		transitions: make(map[string][]Transition, len(ns.transitions)),
		accepting:   ns.accepting,
	}
	for k, v := range ns.transitions {
		ns2.transitions[k] = append([]Transition(nil), v...)
	}
	return ns2
}

func (ns nfaState) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}
