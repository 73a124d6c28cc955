package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// scenarioGrammar is used in several tests below. It has a nullable start
// symbol, epsilon productions, unit productions, and long productions.
const scenarioGrammar = "S -> a B | A B ; A -> d | d S | a A a A b | ε ; B -> a | a S | A"

func Test_Grammar_Nullables(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "no epsilons",
			input:  "S -> a S b | a b",
			expect: nil,
		},
		{
			name:   "direct and indirect nullables",
			input:  scenarioGrammar,
			expect: []string{"S", "A", "B"},
		},
		{
			name:   "chain of nullables",
			input:  "S -> A b ; A -> B C ; B -> ε | b ; C -> B B",
			expect: []string{"A", "B", "C"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.Nullables()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Grammar_RemoveEpsilons(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "no epsilons",
			input:  "S -> a S b | a b",
			expect: "S -> a S b | a b",
		},
		{
			name:  "scenario grammar",
			input: scenarioGrammar,
			expect: "S -> a B | a | A B | B | A\n" +
				"A -> d | d S | a A a A b | a a A b | a A a b | a a b\n" +
				"B -> a | a S | A",
		},
		{
			name:   "epsilon-only non-terminal is removed",
			input:  "S -> A b | A ; A -> ε",
			expect: "S -> b",
		},
		{
			name:   "epsilon-only start symbol is kept empty",
			input:  "S -> ε",
			expect: "S -> " + EmptySetGlyph,
		},
		{
			name:  "ε-free variants are deduplicated",
			input: "S -> A A a ; A -> a | ε",
			expect: "S -> A A a | A a | a\n" +
				"A -> a",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)
			before := g.String()

			actual, err := g.RemoveEpsilons()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.Equal(before, g.String(), "original grammar was modified")
		})
	}
}

func Test_Grammar_RemoveUnitProductions(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "no unit productions",
			input:  "S -> a S b | a b",
			expect: "S -> a S b | a b",
		},
		{
			name:  "unit cycle",
			input: "A -> B | a ; B -> A",
			expect: "A -> a\n" +
				"B -> a",
		},
		{
			name:   "self unit",
			input:  "S -> S | a",
			expect: "S -> a",
		},
		{
			name:  "chain of units",
			input: "S -> A ; A -> B ; B -> b | C c ; C -> c",
			expect: "S -> b | C c\n" +
				"A -> b | C c\n" +
				"B -> b | C c\n" +
				"C -> c",
		},
		{
			name: "epsilon-free scenario grammar",
			input: "S -> a B | a | A B | B | A ;" +
				"A -> d | d S | a A a A b | a a A b | a A a b | a a b ;" +
				"B -> a | a S | A",
			expect: "S -> a B | a | A B | a S | d | d S | a A a A b | a a A b | a A a b | a a b\n" +
				"A -> d | d S | a A a A b | a a A b | a A a b | a a b\n" +
				"B -> a | a S | d | d S | a A a A b | a a A b | a A a b | a a b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.RemoveUnitProductions()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Grammar_RemoveUnreachableNonTerminals(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expect      string
		expectTerms []string
	}{
		{
			name:        "all reachable",
			input:       "S -> a A ; A -> b",
			expect:      "S -> a A\nA -> b",
			expectTerms: []string{"a", "b"},
		},
		{
			name:        "unreachable non-terminal is removed but its terminals stay",
			input:       "S -> a A ; A -> b ; C -> c",
			expect:      "S -> a A\nA -> b",
			expectTerms: []string{"a", "b", "c"},
		},
		{
			name:        "only reachable from an unreachable symbol",
			input:       "S -> a ; C -> D ; D -> d",
			expect:      "S -> a",
			expectTerms: []string{"a", "d"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.RemoveUnreachableNonTerminals()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.Equal(tc.expectTerms, actual.Terminals())
		})
	}
}

func Test_Grammar_RemoveUnproductiveNonTerminals(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "all productive",
			input:  "S -> a S b | a b",
			expect: "S -> a S b | a b",
		},
		{
			name:  "unproductive non-terminal and its uses are removed",
			input: "S -> a A | b | B ; A -> A a ; B -> b",
			expect: "S -> b | B\n" +
				"B -> b",
		},
		{
			name:   "unproductive start symbol is kept with no productions",
			input:  "S -> A ; A -> a A",
			expect: "S -> " + EmptySetGlyph,
		},
		{
			name:  "productive only through another",
			input: "S -> A B ; A -> a ; B -> A A",
			expect: "S -> A B\n" +
				"A -> a\n" +
				"B -> A A",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.RemoveUnproductiveNonTerminals()
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Grammar_Binarize(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:  "long production",
			input: "S -> A B C D ; A -> a ; B -> b ; C -> c ; D -> d",
			expect: "S -> F D\n" +
				"A -> a\n" +
				"B -> b\n" +
				"C -> c\n" +
				"D -> d\n" +
				"E -> A B\n" +
				"F -> E C",
		},
		{
			name:  "pair is reused",
			input: "S -> A B C | A B D ; A -> a ; B -> b ; C -> c ; D -> d",
			expect: "S -> E C | E D\n" +
				"A -> a\n" +
				"B -> b\n" +
				"C -> c\n" +
				"D -> d\n" +
				"E -> A B",
		},
		{
			name:   "short productions untouched",
			input:  "S -> a S | b",
			expect: "S -> a S | b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.Binarize(NewAllocator(g))
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Grammar_LiftTerminals(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:  "terminal in pair",
			input: "S -> a B | b ; B -> b",
			expect: "S -> A B | b\n" +
				"B -> b\n" +
				"A -> a",
		},
		{
			name:  "same terminal lifted once",
			input: "S -> a a | a S",
			expect: "S -> A A | A S\n" +
				"A -> a",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.LiftTerminals(NewAllocator(g))
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
		})
	}
}

func Test_Grammar_Reshape(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:  "long production with terminals",
			input: "S -> a S b | a b",
			expect: "S -> A B | C B\n" +
				"A -> C S\n" +
				"B -> b\n" +
				"C -> a",
		},
		{
			name:   "already in normal form",
			input:  "S -> A B ; A -> a ; B -> b",
			expect: "S -> A B\nA -> a\nB -> b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.Reshape(NewAllocator(g))
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.True(actual.IsCNF())
		})
	}
}

func Test_Grammar_IsCNF(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect bool
	}{
		{name: "CNF", input: "S -> A B | a ; A -> a ; B -> b", expect: true},
		{name: "terminal in pair", input: "S -> a B ; B -> b", expect: false},
		{name: "unit production", input: "S -> B ; B -> b", expect: false},
		{name: "long production", input: "S -> B B B ; B -> b", expect: false},
		{name: "epsilon", input: "S -> ε | a", expect: false},
		{name: "unit self loop", input: "S -> A ; A -> A", expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			assert.Equal(tc.expect, g.IsCNF())
		})
	}
}

func Test_Grammar_ToCNF(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:  "anbn",
			input: "S -> a S b | a b",
			expect: "S -> A B | C B\n" +
				"A -> C S\n" +
				"B -> b\n" +
				"C -> a",
		},
		{
			name:   "already CNF is unchanged",
			input:  "S -> A B ; A -> a ; B -> b",
			expect: "S -> A B\nA -> a\nB -> b",
		},
		{
			name:   "unit cycle",
			input:  "A -> B | a ; B -> A",
			expect: "A -> a",
		},
		{
			name:   "empty language",
			input:  "S -> A ; A -> a A",
			expect: "S -> " + EmptySetGlyph,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.ToCNF(Options{})
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual.String())
			assert.True(actual.IsCNF())
		})
	}
}

func Test_Grammar_ToCNF_Scenario(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(scenarioGrammar)

	actual, err := g.ToCNF(Options{})
	if !assert.NoError(err) {
		return
	}

	assertCNFShape(assert, actual)
	assertClosed(assert, actual)

	for _, input := range []string{"a a", "d a a", "a", "d", "d d a", "a d a b"} {
		accepted, err := actual.Accepts(strings.Fields(input))
		assert.NoError(err)
		assert.Truef(accepted, "CNF grammar should accept %q", input)
	}

	for _, input := range []string{"", "b", "a b"} {
		accepted, err := actual.Accepts(strings.Fields(input))
		assert.NoError(err)
		assert.Falsef(accepted, "CNF grammar should not accept %q", input)
	}
}

func Test_Grammar_ToCNF_UnreachableIsRemoved(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> a S b | a b ; C -> c C | c")

	actual, err := g.ToCNF(Options{})
	if !assert.NoError(err) {
		return
	}

	assert.NotContains(actual.NonTerminals(), "C")
	assert.False(actual.IsNonTerminal("C"))
}

func Test_Grammar_ToCNF_KeepEmpty(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectStart string
	}{
		{
			name:        "start used on right side gets new start",
			input:       scenarioGrammar,
			expectStart: "S-P",
		},
		{
			name:        "start not used on right side keeps start",
			input:       "S -> A B ; A -> a | ε ; B -> b | ε",
			expectStart: "S",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.ToCNF(Options{KeepEmpty: true})
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectStart, actual.StartSymbol())
			assert.True(actual.Rule(actual.StartSymbol()).CanProduce(Epsilon))
			assert.False(actual.IsCNF(), "strict CNF check must reject start -> ε")
			assertClosed(assert, actual)

			accepted, err := actual.Accepts(nil)
			assert.NoError(err)
			assert.True(accepted)

			assert.Equal(g.Enumerate(5), actual.Enumerate(5))
		})
	}
}

func Test_Grammar_ToCNF_KeepEmptyWithoutNullableStart(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> a S b | a b")

	withKeep, err := g.ToCNF(Options{KeepEmpty: true})
	if !assert.NoError(err) {
		return
	}
	without, err := g.ToCNF(Options{})
	if !assert.NoError(err) {
		return
	}

	assert.Equal(without.String(), withKeep.String())
}

func Test_Grammar_ToCNF_LanguageEquivalence(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		maxLen int
	}{
		{name: "scenario grammar", input: scenarioGrammar, maxLen: 6},
		{name: "anbn", input: "S -> a S b | a b", maxLen: 8},
		{name: "balanced parens", input: "S -> l S r S | ε", maxLen: 8},
		{name: "unit cycles and epsilons", input: "S -> A | B c ; A -> B | a A ; B -> A | ε | b", maxLen: 5},
		{name: "long mixed productions", input: "S -> a B c D e | f ; B -> b | ε ; D -> d D | d", maxLen: 7},
		{name: "arithmetic", input: "E -> E plus T | T ; T -> T times F | F ; F -> lp E rp | id", maxLen: 7},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			actual, err := g.ToCNF(Options{})
			if !assert.NoError(err) {
				return
			}

			var expect []string
			for _, s := range g.Enumerate(tc.maxLen) {
				if s != "" {
					expect = append(expect, s)
				}
			}

			assert.Equal(expect, actual.Enumerate(tc.maxLen))
			assertCNFShape(assert, actual)
			assertClosed(assert, actual)
		})
	}
}

func Test_Grammar_ToCNF_Idempotent(t *testing.T) {
	inputs := []string{
		scenarioGrammar,
		"S -> a S b | a b",
		"A -> B | a ; B -> A",
		"S -> l S r S | ε",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(input)

			once, err := g.ToCNF(Options{})
			if !assert.NoError(err) {
				return
			}
			twice, err := once.ToCNF(Options{})
			if !assert.NoError(err) {
				return
			}

			assert.Equal(once.String(), twice.String())
			assertIdenticalProductionSets(assert, once, twice)
		})
	}
}

func Test_Grammar_ToCNF_Trace(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(scenarioGrammar)

	var stages []Stage
	var last Grammar
	_, err := g.ToCNF(Options{Trace: func(s Stage, g Grammar) {
		stages = append(stages, s)
		last = g
	}})
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Stage{Raw, EpsilonFree, UnitFree, Reachable, Productive, Binarized, CNF}, stages)
	assert.True(last.IsCNF())

	stages = nil
	cnf := MustParse("S -> A B ; A -> a ; B -> b")
	_, err = cnf.ToCNF(Options{Trace: func(s Stage, g Grammar) {
		stages = append(stages, s)
	}})
	assert.NoError(err)
	assert.Equal([]Stage{Raw, CNF}, stages)
}

func Test_Grammar_ToCNF_Errors(t *testing.T) {
	assert := assert.New(t)

	var g Grammar
	g.AddTerm("a")
	g.AddRule("S", Production{"a", "X"})

	_, err := g.ToCNF(Options{})
	assert.ErrorIs(err, ErrMalformedGrammar)

	var empty Grammar
	_, err = empty.ToCNF(Options{})
	assert.ErrorIs(err, ErrMalformedGrammar)

	tooManyNullables := MustParse("S -> " + strings.Repeat("A ", maxNullableOccurrences+1) + "; A -> a | ε")
	_, err = tooManyNullables.ToCNF(Options{})
	assert.ErrorIs(err, ErrNonTermination)
	assert.ErrorIs(err, ErrSizeLimit)
	assert.NotErrorIs(err, ErrMalformedGrammar)

	fewNullables := MustParse("S -> " + strings.Repeat("A ", 3) + "; A -> a | ε")
	_, err = fewNullables.ToCNF(Options{})
	assert.NoError(err)
}

func Test_Grammar_Accepts_NotCNF(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> a S b | a b")

	_, err := g.Accepts([]string{"a", "b"})
	assert.ErrorIs(err, ErrNotCNF)
}

func Test_Grammar_Enumerate(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		maxLen int
		expect []string
	}{
		{
			name:   "anbn",
			input:  "S -> a S b | a b",
			maxLen: 4,
			expect: []string{"a a b b", "a b"},
		},
		{
			name:   "nullable start",
			input:  "S -> a S | ε",
			maxLen: 2,
			expect: []string{"", "a", "a a"},
		},
		{
			name:   "unit cycle terminates",
			input:  "A -> B | a ; B -> A | b",
			maxLen: 3,
			expect: []string{"a", "b"},
		},
		{
			name:   "empty language",
			input:  "S -> A ; A -> a A",
			maxLen: 5,
			expect: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)

			assert.Equal(tc.expect, g.Enumerate(tc.maxLen))
		})
	}
}

func Test_Stage_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("epsilon-free", EpsilonFree.String())
	assert.Equal("CNF", CNF.String())
	assert.Equal("Stage(99)", Stage(99).String())
}

// assertCNFShape asserts that every production of g is a single terminal or a
// pair of non-terminals.
func assertCNFShape(assert *assert.Assertions, g Grammar) {
	for _, r := range g.Rules() {
		for _, p := range r.Productions {
			if len(p) == 1 {
				assert.Truef(g.IsTerminal(p[0]), "%s -> %s: single symbol is not a terminal", r.NonTerminal, p)
			} else if len(p) == 2 {
				assert.Truef(g.IsNonTerminal(p[0]) && g.IsNonTerminal(p[1]), "%s -> %s: pair is not two non-terminals", r.NonTerminal, p)
			} else {
				assert.Failf("bad production length", "%s -> %s", r.NonTerminal, p)
			}
		}
	}
}

// assertClosed asserts that every non-terminal of g is reachable from the
// start symbol and productive.
func assertClosed(assert *assert.Assertions, g Grammar) {
	reachable := g.Reachable()
	productive, err := g.Productive()
	if !assert.NoError(err) {
		return
	}

	for _, nt := range g.NonTerminals() {
		assert.Truef(reachable.Has(nt), "%s is not reachable", nt)
		assert.Truef(productive.Has(nt), "%s is not productive", nt)
	}
}
