package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/internal/util"
)

// NFA is a non-deterministic finite automaton. Transitions on the empty input
// are ε-moves.
type NFA struct {
	states map[string]nfaState
	Start  string
}

// AcceptingStates returns the names of all accepting states.
func (nfa NFA) AcceptingStates() util.StringSet {
	accepting := util.NewStringSet()
	for name, st := range nfa.states {
		if st.accepting {
			accepting.Add(name)
		}
	}

	return accepting
}

// Copy returns a duplicate of this NFA.
func (nfa NFA) Copy() NFA {
	copied := NFA{
		Start:  nfa.Start,
		states: make(map[string]nfaState),
	}

	for k := range nfa.states {
		copied.states[k] = nfa.states[k].copy()
	}

	return copied
}

// States returns all states in the nfa.
func (nfa NFA) States() util.StringSet {
	states := util.NewStringSet()

	for k := range nfa.states {
		states.Add(k)
	}

	return states
}

// ToDFA converts the NFA into a deterministic finite automaton accepting the
// same strings. Each state of the DFA is named after the set of NFA states it
// stands for, such as "{A, B}".
//
// This is the subset construction, algorithm 3.20 from the purple dragon book.
func (nfa NFA) ToDFA() DFA {
	inputSymbols := nfa.InputSymbols()

	Dstart := nfa.EpsilonClosure(nfa.Start)

	markedStates := util.NewStringSet()
	Dstates := map[string]util.StringSet{}
	Dstates[Dstart.StringOrdered()] = Dstart

	dfa := DFA{
		states: map[string]dfaState{},
		Start:  Dstart.StringOrdered(),
	}

	// initially, ε-closure(s₀) is the only state in Dstates, and it is unmarked
	for {
		DstateNames := util.StringSetOf(util.OrderedKeys(Dstates))
		unmarkedStates := DstateNames.Difference(markedStates)

		if unmarkedStates.Len() < 1 {
			break
		}

		// while ( there is an unmarked state T in Dstates )
		for _, Tname := range util.OrderedKeys(map[string]bool(unmarkedStates)) {
			T := Dstates[Tname]

			// mark T
			markedStates.Add(Tname)

			newDFAState := dfaState{name: Tname, transitions: map[string]Transition{}}

			if T.Any(func(v string) bool {
				return nfa.states[v].accepting
			}) {
				newDFAState.accepting = true
			}

			// for ( each input symbol a )
			for _, a := range inputSymbols.Elements() {
				if a == "" {
					continue
				}

				U := nfa.EpsilonClosureOfSet(nfa.MOVE(T, a))

				// if its not a symbol that the state can transition on, U will
				// be empty, skip it
				if U.Empty() {
					continue
				}

				// if U is not in Dstates, add U as an unmarked state
				if !DstateNames.Has(U.StringOrdered()) {
					DstateNames.Add(U.StringOrdered())
					Dstates[U.StringOrdered()] = U
				}

				// Dtran[T, a] = U
				newDFAState.transitions[a] = Transition{input: a, next: U.StringOrdered()}
			}

			dfa.states[Tname] = newDFAState
		}
	}

	return dfa
}

// InputSymbols returns the set of all input symbols processed by some
// transition in the NFA. If there are any ε-moves, the empty string is
// included.
func (nfa NFA) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for sName := range nfa.states {
		st := nfa.states[sName]

		for a := range st.transitions {
			symbols.Add(a)
		}
	}

	return symbols
}

// MOVE returns the set of states reachable with one transition from some state
// in X on input a. Purple dragon book calls this function MOVE(T, a) and it is
// on page 153 as part of algorithm 3.20.
func (nfa NFA) MOVE(X util.ISet[string], a string) util.StringSet {
	moves := util.NewStringSet()

	for _, s := range X.Elements() {
		stateItem, ok := nfa.states[s]
		if !ok {
			continue
		}

		for _, t := range stateItem.transitions[a] {
			moves.Add(t.next)
		}
	}

	return moves
}

// EpsilonClosureOfSet gives the set of states reachable from some state in
// X using zero or more ε-moves.
func (nfa NFA) EpsilonClosureOfSet(X util.ISet[string]) util.StringSet {
	allClosures := util.NewStringSet()

	for _, s := range X.Elements() {
		allClosures.AddAll(nfa.EpsilonClosure(s))
	}

	return allClosures
}

// EpsilonClosure gives the set of states reachable from state using zero or
// more ε-moves.
func (nfa NFA) EpsilonClosure(s string) util.StringSet {
	closure := util.NewStringSet()

	stateItem, ok := nfa.states[s]
	if !ok {
		return closure
	}

	checkingStates := util.Stack[nfaState]{}
	checkingStates.Push(stateItem)

	for checkingStates.Len() > 0 {
		checking := checkingStates.Pop()

		if closure.Has(checking.name) {
			// we've already checked it. skip.
			continue
		}

		// add it to the closure and then check it for recursive closures
		closure.Add(checking.name)

		for _, move := range checking.transitions[""] {
			state, ok := nfa.states[move.next]
			if !ok {
				// AddTransition only allows transitions to existing states
				panic(fmt.Sprintf("points to invalid state: %q", move.next))
			}

			checkingStates.Push(state)
		}
	}

	return closure
}

// Accepts returns whether the NFA accepts the given sequence of input symbols.
func (nfa NFA) Accepts(input []string) bool {
	current := nfa.EpsilonClosure(nfa.Start)
	for _, a := range input {
		current = nfa.EpsilonClosureOfSet(nfa.MOVE(current, a))
		if current.Empty() {
			return false
		}
	}

	return current.Any(func(v string) bool {
		return nfa.states[v].accepting
	})
}

func (nfa NFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", nfa.Start))

	orderedStates := util.OrderedKeys(nfa.states)

	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(nfa.states[orderedStates[i]].String())

		if i+1 < len(nfa.states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}

// AddState adds a new state. If it already exists, this has no effect.
func (nfa *NFA) AddState(state string, accepting bool) {
	if _, ok := nfa.states[state]; ok {
		return
	}

	newState := nfaState{
		name:        state,
		transitions: make(map[string][]Transition),
		accepting:   accepting,
	}

	if nfa.states == nil {
		nfa.states = map[string]nfaState{}
	}

	nfa.states[state] = newState
}

// SetAccepting changes whether an existing state is accepting.
func (nfa *NFA) SetAccepting(state string, accepting bool) {
	s, ok := nfa.states[state]
	if !ok {
		panic(fmt.Sprintf("setting acceptance on non-existing state: %q", state))
	}
	s.accepting = accepting
	nfa.states[state] = s
}

// AddTransition adds a move from one existing state to another on input. An
// empty input adds an ε-move. Panics if either state does not exist.
func (nfa *NFA) AddTransition(fromState string, input string, toState string) {
	curFromState, ok := nfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := nfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	newTransition := Transition{
		input: input,
		next:  toState,
	}

	for _, t := range curFromState.transitions[input] {
		if t == newTransition {
			return
		}
	}

	curFromState.transitions[input] = append(curFromState.transitions[input], newTransition)
	nfa.states[fromState] = curFromState
}
