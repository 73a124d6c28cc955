package grammar

import (
	"github.com/dekarrin/chomsky/internal/util"
)

// Accepts returns whether g derives the given sequence of terminals. g must
// be in Chomsky Normal Form, optionally with a start -> ε production; if it
// is not, an error with ErrNotCNF as a cause is returned. The empty input is
// accepted only if the start symbol has an epsilon production.
func (g Grammar) Accepts(input []string) (bool, error) {
	if !g.isCNF(true) {
		return false, newError("cannot run CYK", ErrNotCNF)
	}

	start := g.StartSymbol()
	if len(input) == 0 {
		return g.Rule(start).CanProduce(Epsilon), nil
	}

	n := len(input)

	// table[i][l-1] holds the non-terminals deriving input[i:i+l]
	table := make([][]util.StringSet, n)
	for i := range table {
		table[i] = make([]util.StringSet, n-i)
		for l := range table[i] {
			table[i][l] = util.NewStringSet()
		}
	}

	for i, tok := range input {
		for _, r := range g.rules {
			if r.CanProduce(Production{tok}) {
				table[i][0].Add(r.NonTerminal)
			}
		}
	}

	for l := 2; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			cell := table[i][l-1]
			for split := 1; split < l; split++ {
				left := table[i][split-1]
				right := table[i+split][l-split-1]
				if left.Empty() || right.Empty() {
					continue
				}
				for _, r := range g.rules {
					if cell.Has(r.NonTerminal) {
						continue
					}
					for _, p := range r.Productions {
						if len(p) == 2 && left.Has(p[0]) && right.Has(p[1]) {
							cell.Add(r.NonTerminal)
							break
						}
					}
				}
			}
		}
	}

	return table[0][n-1].Has(start), nil
}
