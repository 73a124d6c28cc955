package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/internal/util"
)

// DFA is a deterministic finite automaton.
type DFA struct {
	states map[string]dfaState
	Start  string
}

// Copy returns a duplicate of this DFA.
func (dfa DFA) Copy() DFA {
	copied := DFA{
		Start:  dfa.Start,
		states: make(map[string]dfaState),
	}

	for k := range dfa.states {
		copied.states[k] = dfa.states[k].copy()
	}

	return copied
}

// NumberStates renames all states to each have a unique name based on an
// increasing number sequence. The starting state is guaranteed to be numbered
// 0; beyond that, the states are put in alphabetical order.
func (dfa *DFA) NumberStates() {
	if _, ok := dfa.states[dfa.Start]; !ok {
		panic("can't number states of DFA with no start state set")
	}

	origStateNames := dfa.orderedStates()

	numMapping := map[string]string{}
	for i := range origStateNames {
		numMapping[origStateNames[i]] = fmt.Sprintf("%d", i)
	}

	dfa.rename(origStateNames, numMapping)
}

// orderedStates gives every state name with the start state first and the
// rest in alphabetical order.
func (dfa DFA) orderedStates() []string {
	var names []string
	if _, ok := dfa.states[dfa.Start]; ok {
		names = append(names, dfa.Start)
	}
	for _, name := range util.OrderedKeys(dfa.states) {
		if name != dfa.Start {
			names = append(names, name)
		}
	}
	return names
}

// rename rebuilds the DFA with every state renamed by mapping.
func (dfa *DFA) rename(names []string, mapping map[string]string) {
	// to keep things simple, instead of searching for every instance of each
	// name, build an entirely new DFA using the mapping and steal its states.
	newDfa := &DFA{
		states: make(map[string]dfaState),
		Start:  mapping[dfa.Start],
	}

	for _, name := range names {
		newDfa.AddState(mapping[name], dfa.states[name].accepting)
	}

	for _, name := range names {
		st := dfa.states[name]
		for sym, t := range st.transitions {
			newDfa.AddTransition(mapping[name], sym, mapping[t.next])
		}
	}

	dfa.states = newDfa.states
	dfa.Start = newDfa.Start
}

// IsAccepting returns whether the given state is an accepting (terminating)
// state. Returns false if the state does not exist.
func (dfa DFA) IsAccepting(state string) bool {
	s, ok := dfa.states[state]
	if !ok {
		return false
	}

	return s.accepting
}

// States returns all states in the dfa.
func (dfa DFA) States() util.StringSet {
	states := util.NewStringSet()

	for k := range dfa.states {
		states.Add(k)
	}

	return states
}

// InputSymbols returns the set of all input symbols processed by some
// transition in the DFA.
func (dfa DFA) InputSymbols() util.StringSet {
	symbols := util.NewStringSet()
	for _, st := range dfa.states {
		for a := range st.transitions {
			symbols.Add(a)
		}
	}
	return symbols
}

// Next returns the next state of the DFA, given a current state and an input.
// Will return "" if state is not an existing state or if there is no transition
// from the given state on the given input.
func (dfa DFA) Next(fromState string, input string) string {
	state, ok := dfa.states[fromState]
	if !ok {
		return ""
	}

	transition, ok := state.transitions[input]
	if !ok {
		return ""
	}

	return transition.next
}

// Accepts returns whether the DFA accepts the given sequence of input symbols.
func (dfa DFA) Accepts(input []string) bool {
	cur := dfa.Start
	for _, a := range input {
		cur = dfa.Next(cur, a)
		if cur == "" {
			return false
		}
	}
	return dfa.IsAccepting(cur)
}

// AddState adds a new state. If it already exists, this has no effect.
func (dfa *DFA) AddState(state string, accepting bool) {
	if _, ok := dfa.states[state]; ok {
		return
	}

	newState := dfaState{
		name:        state,
		transitions: make(map[string]Transition),
		accepting:   accepting,
	}

	if dfa.states == nil {
		dfa.states = map[string]dfaState{}
	}

	dfa.states[state] = newState
}

// AddTransition sets the move from one existing state to another on input,
// replacing any existing move on that input. Panics if either state does not
// exist or if input is empty.
func (dfa *DFA) AddTransition(fromState string, input string, toState string) {
	if input == "" {
		panic("DFA cannot have ε-moves")
	}

	curFromState, ok := dfa.states[fromState]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", fromState))
	}
	if _, ok := dfa.states[toState]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", toState))
	}

	curFromState.transitions[input] = Transition{
		input: input,
		next:  toState,
	}
	dfa.states[fromState] = curFromState
}

func (dfa DFA) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<START: %q, STATES:", dfa.Start))

	orderedStates := util.OrderedKeys(dfa.states)

	for i := range orderedStates {
		sb.WriteString("\n\t")
		sb.WriteString(dfa.states[orderedStates[i]].String())

		if i+1 < len(dfa.states) {
			sb.WriteRune(',')
		} else {
			sb.WriteRune('\n')
		}
	}

	sb.WriteRune('>')

	return sb.String()
}
