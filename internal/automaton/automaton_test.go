package automaton

import (
	"strings"
	"testing"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_FromRightLinear(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		accept []string
		reject []string
	}{
		{
			name:   "one terminal per step",
			input:  "S -> a S | b A ; A -> c A | ε",
			accept: []string{"b", "a a b c c", "a b"},
			reject: []string{"", "a", "b b", "c"},
		},
		{
			name:   "chain of terminals",
			input:  "S -> a b S | c",
			accept: []string{"c", "a b c", "a b a b c"},
			reject: []string{"a c", "a b", ""},
		},
		{
			name:   "unit production",
			input:  "S -> A | a ; A -> b",
			accept: []string{"a", "b"},
			reject: []string{"a b", ""},
		},
		{
			name:   "nullable start",
			input:  "S -> a S | ε",
			accept: []string{"", "a", "a a a"},
			reject: []string{"b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.input)

			nfa, err := FromRightLinear(g)
			if !assert.NoError(err) {
				return
			}
			dfa := nfa.ToDFA()

			for _, s := range tc.accept {
				assert.Truef(nfa.Accepts(strings.Fields(s)), "NFA should accept %q", s)
				assert.Truef(dfa.Accepts(strings.Fields(s)), "DFA should accept %q", s)
			}
			for _, s := range tc.reject {
				assert.Falsef(nfa.Accepts(strings.Fields(s)), "NFA should reject %q", s)
				assert.Falsef(dfa.Accepts(strings.Fields(s)), "DFA should reject %q", s)
			}
		})
	}
}

func Test_FromRightLinear_NotRightLinear(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse("S -> S a | b")

	_, err := FromRightLinear(g)

	assert.ErrorIs(err, ErrNotRightLinear)
	assert.False(IsRightLinear(g))
	assert.True(IsRightLinear(grammar.MustParse("S -> a S | b")))
}

func Test_NFA_ToDFA(t *testing.T) {
	assert := assert.New(t)

	g := grammar.MustParse("S -> a S | b A ; A -> c A | ε")
	nfa, err := FromRightLinear(g)
	if !assert.NoError(err) {
		return
	}

	actual := nfa.ToDFA()

	expect := "<START: \"{S}\", STATES:\n" +
		"\t(({A} [=(c)=> {A}])),\n" +
		"\t({S} [=(a)=> {S}, =(b)=> {A}])\n" +
		">"
	assert.Equal(expect, actual.String())
}

func Test_ToGrammar(t *testing.T) {
	assert := assert.New(t)

	dfa := buildDFA(map[string][]string{
		"start": {"=(a)=> start", "=(b)=> end"},
		"end":   {"=(c)=> end"},
	}, "start", []string{"end"})

	actual, err := ToGrammar(*dfa)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("A -> a A | b B\nB -> c B | ε", actual.String())
	assert.Equal("A", actual.StartSymbol())
	assert.True(IsRightLinear(actual))
}

func Test_RoundTrip_SameLanguage(t *testing.T) {
	inputs := []string{
		"S -> a S | b A ; A -> c A | ε",
		"S -> a b S | c",
		"S -> A | a ; A -> b | b A",
		"S -> a S | a B ; B -> b | b B",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(input)
			nfa, err := FromRightLinear(g)
			if !assert.NoError(err) {
				return
			}

			back, err := ToGrammar(nfa.ToDFA())
			if !assert.NoError(err) {
				return
			}

			assert.Equal(g.Enumerate(5), back.Enumerate(5))
		})
	}
}

func Test_DFA_NumberStates(t *testing.T) {
	assert := assert.New(t)

	dfa := buildDFA(map[string][]string{
		"x": {"=(a)=> y"},
		"y": {"=(b)=> x"},
		"z": {},
	}, "y", []string{"x"})

	dfa.NumberStates()

	assert.Equal("0", dfa.Start)
	assert.Equal(util.StringSetOf([]string{"0", "1", "2"}), dfa.States())
	assert.Equal("1", dfa.Next("0", "b"))
	assert.True(dfa.IsAccepting("1"))
	assert.True(dfa.Accepts([]string{"b", "a", "b"}))
}

func Test_parseTransition(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Transition{input: "a", next: "B"}, mustParseTransition("=(a)=> B"))
	assert.Equal(Transition{input: "", next: "{A, B}"}, mustParseTransition("=(ε)=> {A, B}"))

	_, err := parseTransition("a B")
	assert.Error(err)
}

func buildDFA(from map[string][]string, start string, acceptingStates []string) *DFA {
	dfa := &DFA{}

	acceptSet := util.StringSetOf(acceptingStates)

	for k := range from {
		dfa.AddState(k, acceptSet.Has(k))
	}

	// add transitions AFTER all states are already in or it will cause a panic
	for k := range from {
		for i := range from[k] {
			transition := mustParseTransition(from[k][i])
			dfa.AddTransition(k, transition.input, transition.next)
		}
	}

	dfa.Start = start

	return dfa
}
