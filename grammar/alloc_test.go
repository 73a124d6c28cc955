package grammar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Allocator_Allocate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		reserve []string
		count   int
		expect  []string
	}{
		{
			name:   "skips symbols in grammar",
			input:  "S -> A B ; A -> a ; B -> b",
			count:  3,
			expect: []string{"C", "D", "E"},
		},
		{
			name:    "skips reserved names",
			input:   "S -> a",
			reserve: []string{"A", "C"},
			count:   3,
			expect:  []string{"B", "D", "E"},
		},
		{
			name:    "falls back to indexed names when letters run out",
			input:   "S -> a",
			reserve: append(latinCapitals(), "N2"),
			count:   3,
			expect:  []string{"N1", "N3", "N4"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(tc.input)
			a := NewAllocator(g)
			a.Reserve(tc.reserve...)

			var actual []string
			for i := 0; i < tc.count; i++ {
				actual = append(actual, a.Allocate())
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Allocator_NeverRepeats(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> A N1 ; A -> a ; N1 -> b")
	a := NewAllocator(g)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := a.Allocate()
		assert.False(seen[name], "%q allocated twice", name)
		assert.False(g.IsNonTerminal(name) || g.IsTerminal(name), "%q is already in grammar", name)
		seen[name] = true
	}
}

func Test_Allocator_Deterministic(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> A B C ; A -> a ; B -> b ; C -> c")
	a1 := NewAllocator(g)
	a2 := NewAllocator(g)

	for i := 0; i < 40; i++ {
		assert.Equal(a1.Allocate(), a2.Allocate())
	}
}

func Test_Allocator_AllocateFrom(t *testing.T) {
	assert := assert.New(t)

	g := MustParse("S -> a")
	a := NewAllocator(g)
	a.Reserve("S-P")

	assert.Equal("S-P-P", a.AllocateFrom("S"))
	assert.Equal("S-P-P-P", a.AllocateFrom("S"))
	assert.Equal("T-P", a.AllocateFrom("T"))
}

func latinCapitals() []string {
	var letters []string
	for ch := 'A'; ch <= 'Z'; ch++ {
		letters = append(letters, fmt.Sprintf("%c", ch))
	}
	return letters
}
