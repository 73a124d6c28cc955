package grammar

import (
	"github.com/dekarrin/chomsky/internal/util"
)

// isUnit returns whether p is a unit production in g, that is, a single
// non-terminal.
func (g Grammar) isUnit(p Production) bool {
	return len(p) == 1 && g.IsNonTerminal(p[0])
}

// RemoveUnitProductions returns a grammar that derives the same strings as g
// but has no productions made of a single non-terminal.
//
// Each unit production A -> B is replaced, in place, by B's productions at the
// time it is resolved. B's own unit productions are then resolved in turn, and
// any unit production pointing at a non-terminal already resolved for A is
// dropped, so unit cycles such as A -> B, B -> A end with every member of the
// cycle holding the same non-unit productions.
//
// g should be free of epsilon productions for the result to be equivalent.
func (g Grammar) RemoveUnitProductions() (Grammar, error) {
	g = g.Copy()
	limit := iterationLimit(g)

	updated := true
	for iter := 0; updated; iter++ {
		if iter > limit {
			return Grammar{}, nonTerminationf("removing unit productions did not settle after %d passes", limit)
		}
		updated = false

		for i := range g.rules {
			nt := g.rules[i].NonTerminal
			work := g.rules[i].Copy().Productions
			resolvedSymbols := util.NewStringSet()
			resolvedSymbols.Add(nt)

			out := newProdSet()
			for j := 0; j < len(work); j++ {
				p := work[j]
				if !g.isUnit(p) {
					out.add(p)
					continue
				}
				updated = true

				target := p[0]
				if resolvedSymbols.Has(target) {
					continue
				}
				resolvedSymbols.Add(target)

				// splice in the target's productions right where the unit
				// production was so that they are examined next.
				targetProds := g.rules[g.rulesByName[target]].Copy().Productions
				spliced := make([]Production, 0, len(work)+len(targetProds))
				spliced = append(spliced, work[:j+1]...)
				spliced = append(spliced, targetProds...)
				spliced = append(spliced, work[j+1:]...)
				work = spliced
			}

			g.setProductions(nt, out.prods)
		}
	}

	return g, nil
}
