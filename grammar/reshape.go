package grammar

// Binarize returns a grammar in which no production is longer than two
// symbols. The leftmost pair of each long production is repeatedly replaced by
// a new non-terminal whose only production is that pair. A pair that was
// already replaced once reuses the non-terminal made for it. New names come
// from a, and new rules are added after all existing ones.
func (g Grammar) Binarize(a *Allocator) (Grammar, error) {
	g = g.Copy()
	a.Reserve(g.symbols()...)

	pairs := map[[2]string]string{}

	// rules added during the loop are always pairs, so the bound can be fixed
	count := len(g.rules)
	for i := 0; i < count; i++ {
		nt := g.rules[i].NonTerminal
		ps := newProdSet()

		for _, p := range g.rules[i].Copy().Productions {
			for len(p) > 2 {
				pair := [2]string{p[0], p[1]}
				pairNT, ok := pairs[pair]
				if !ok {
					pairNT = a.Allocate()
					pairs[pair] = pairNT
					g.AddRule(pairNT, Production{p[0], p[1]})
				}

				shortened := make(Production, 0, len(p)-1)
				shortened = append(shortened, pairNT)
				shortened = append(shortened, p[2:]...)
				p = shortened
			}
			ps.add(p)
		}

		g.setProductions(nt, ps.prods)
	}

	return g, nil
}

// LiftTerminals returns a grammar in which no production of two or more
// symbols contains a terminal. Each such terminal is replaced by a new
// non-terminal whose only production is that terminal, with one non-terminal
// made per distinct terminal. New names come from a, and new rules are added
// after all existing ones.
func (g Grammar) LiftTerminals(a *Allocator) (Grammar, error) {
	g = g.Copy()
	a.Reserve(g.symbols()...)

	lifted := map[string]string{}

	count := len(g.rules)
	for i := 0; i < count; i++ {
		nt := g.rules[i].NonTerminal
		ps := newProdSet()

		for _, p := range g.rules[i].Copy().Productions {
			if len(p) >= 2 {
				for j, sym := range p {
					if !g.IsTerminal(sym) {
						continue
					}
					termNT, ok := lifted[sym]
					if !ok {
						termNT = a.Allocate()
						lifted[sym] = termNT
						g.AddRule(termNT, Production{sym})
					}
					p[j] = termNT
				}
			}
			ps.add(p)
		}

		g.setProductions(nt, ps.prods)
	}

	return g, nil
}

// Reshape binarizes g and then lifts the terminals out of its pairs. If g has
// no epsilon or unit productions, the result is in Chomsky Normal Form.
func (g Grammar) Reshape(a *Allocator) (Grammar, error) {
	return g.reshape(a, nil)
}

// reshape is Reshape, calling afterBinarize (if set) with the grammar between
// the two steps.
func (g Grammar) reshape(a *Allocator, afterBinarize func(Grammar)) (Grammar, error) {
	binarized, err := g.Binarize(a)
	if err != nil {
		return Grammar{}, err
	}
	if afterBinarize != nil {
		afterBinarize(binarized.Copy())
	}
	return binarized.LiftTerminals(a)
}
