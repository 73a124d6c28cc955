package grammar

import (
	"github.com/dekarrin/chomsky/internal/util"
)

// Reachable returns the set of non-terminals that appear in some sentential
// form derived from the start symbol, including the start symbol itself.
func (g Grammar) Reachable() util.StringSet {
	reached := util.NewStringSet()
	start := g.StartSymbol()
	if !g.IsNonTerminal(start) {
		return reached
	}

	queue := []string{start}
	reached.Add(start)
	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]

		r := g.rules[g.rulesByName[nt]]
		for _, p := range r.Productions {
			for _, sym := range p {
				if g.IsNonTerminal(sym) && !reached.Has(sym) {
					reached.Add(sym)
					queue = append(queue, sym)
				}
			}
		}
	}

	return reached
}

// RemoveUnreachableNonTerminals returns a grammar with every non-terminal that
// cannot be reached from the start symbol removed along with its rule.
// Terminals are never removed.
func (g Grammar) RemoveUnreachableNonTerminals() (Grammar, error) {
	g = g.Copy()
	if !g.IsNonTerminal(g.StartSymbol()) {
		return Grammar{}, malformedf("start symbol %q is not a non-terminal", g.StartSymbol())
	}

	reached := g.Reachable()
	for _, nt := range g.NonTerminals() {
		if !reached.Has(nt) {
			g.RemoveRule(nt)
		}
	}

	return g, nil
}

// Productive returns the set of non-terminals that derive at least one string
// made only of terminals.
func (g Grammar) Productive() (util.StringSet, error) {
	productive := util.NewStringSet()
	limit := iterationLimit(g)

	updated := true
	for iter := 0; updated; iter++ {
		if iter > limit {
			return nil, nonTerminationf("finding productive symbols did not settle after %d passes", limit)
		}
		updated = false

		for _, r := range g.rules {
			if productive.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if g.isProductiveProduction(p, productive) {
					productive.Add(r.NonTerminal)
					updated = true
					break
				}
			}
		}
	}

	return productive, nil
}

// isProductiveProduction returns whether every symbol of p is a terminal or a
// non-terminal known to be productive.
func (g Grammar) isProductiveProduction(p Production, productive util.StringSet) bool {
	if p.IsEpsilon() {
		return true
	}
	for _, sym := range p {
		if !g.IsTerminal(sym) && !productive.Has(sym) {
			return false
		}
	}
	return true
}

// RemoveUnproductiveNonTerminals returns a grammar with every non-terminal
// that cannot derive a string of terminals removed, along with every
// production that refers to one. The start symbol is always kept; if it is
// itself unproductive it is left with no productions, and the grammar
// generates nothing.
func (g Grammar) RemoveUnproductiveNonTerminals() (Grammar, error) {
	g = g.Copy()

	productive, err := g.Productive()
	if err != nil {
		return Grammar{}, err
	}

	start := g.StartSymbol()
	for _, nt := range g.NonTerminals() {
		if !productive.Has(nt) && nt != start {
			g.RemoveRule(nt)
		}
	}

	for _, r := range g.rules {
		var kept []Production
		for _, p := range r.Productions {
			if g.isProductiveProduction(p, productive) {
				kept = append(kept, p)
			}
		}
		g.setProductions(r.NonTerminal, kept)
	}

	return g, nil
}
