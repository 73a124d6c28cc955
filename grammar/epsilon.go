package grammar

import (
	"github.com/dekarrin/chomsky/internal/util"
)

// maxNullableOccurrences is the most nullable symbols a single production may
// contain before expanding it is refused.
const maxNullableOccurrences = 24

// Nullables returns every non-terminal that can derive the empty string, in
// definition order.
func (g Grammar) Nullables() ([]string, error) {
	nullable, err := g.nullableSet()
	if err != nil {
		return nil, err
	}

	var nts []string
	for _, nt := range g.NonTerminals() {
		if nullable.Has(nt) {
			nts = append(nts, nt)
		}
	}
	return nts, nil
}

// nullableSet finds the nullable non-terminals by fixpoint. A non-terminal is
// nullable if it has an epsilon production or a production made only of
// nullable non-terminals.
func (g Grammar) nullableSet() (util.StringSet, error) {
	nullable := util.NewStringSet()
	limit := iterationLimit(g)

	updated := true
	for iter := 0; updated; iter++ {
		if iter > limit {
			return nil, nonTerminationf("finding nullable symbols did not settle after %d passes", limit)
		}
		updated = false

		for _, r := range g.rules {
			if nullable.Has(r.NonTerminal) {
				continue
			}
			for _, p := range r.Productions {
				if p.IsEpsilon() || allIn(p, nullable) {
					nullable.Add(r.NonTerminal)
					updated = true
					break
				}
			}
		}
	}

	return nullable, nil
}

// allIn returns whether every symbol of p is in s.
func allIn(p Production, s util.StringSet) bool {
	for _, sym := range p {
		if !s.Has(sym) {
			return false
		}
	}
	return true
}

// RemoveEpsilons returns a grammar that derives the same strings as g, except
// for the empty string, and has no epsilon productions.
//
// Every production that contains nullable non-terminals is replaced by each
// variant that keeps or omits each nullable occurrence independently, with the
// all-omitted variant dropped when it would be empty. Non-terminals whose only
// production was epsilon are removed, along with any productions that refer to
// them, unless they are the start symbol.
func (g Grammar) RemoveEpsilons() (Grammar, error) {
	g = g.Copy()

	nullable, err := g.nullableSet()
	if err != nil {
		return Grammar{}, err
	}

	var epsilonOnly []string
	for _, r := range g.rules {
		ps := newProdSet()
		hadEpsilon := false

		for _, p := range r.Productions {
			if p.IsEpsilon() {
				hadEpsilon = true
				continue
			}

			variants, err := epsilonVariants(p, nullable)
			if err != nil {
				return Grammar{}, err
			}
			for _, v := range variants {
				if len(v) > 0 {
					ps.add(v)
				}
			}
		}

		if hadEpsilon && len(ps.prods) == 0 && r.NonTerminal != g.StartSymbol() {
			epsilonOnly = append(epsilonOnly, r.NonTerminal)
		}
		g.setProductions(r.NonTerminal, ps.prods)
	}

	if len(epsilonOnly) > 0 {
		gone := util.StringSetOf(epsilonOnly)
		for _, nt := range epsilonOnly {
			g.RemoveRule(nt)
		}
		for _, r := range g.rules {
			var kept []Production
			for _, p := range r.Productions {
				if !p.HasAny(gone) {
					kept = append(kept, p)
				}
			}
			g.setProductions(r.NonTerminal, kept)
		}
	}

	return g, nil
}

// epsilonVariants gives every way of keeping or omitting each nullable
// occurrence in p. The first variant keeps all of them; the last omits all of
// them and may be empty.
func epsilonVariants(p Production, nullable util.StringSet) ([]Production, error) {
	var occurrences []int
	for i, sym := range p {
		if nullable.Has(sym) {
			occurrences = append(occurrences, i)
		}
	}
	if len(occurrences) > maxNullableOccurrences {
		return nil, sizeLimitf("production %s has %d nullable symbols; more than %d cannot be expanded", p, len(occurrences), maxNullableOccurrences)
	}

	// bit j of the mask says whether the j-th nullable occurrence is kept
	perms := 1 << len(occurrences)
	variants := make([]Production, 0, perms)
	for mask := perms - 1; mask >= 0; mask-- {
		var v Production
		occ := 0
		for i, sym := range p {
			if occ < len(occurrences) && occurrences[occ] == i {
				keep := (mask>>occ)&1 == 1
				occ++
				if !keep {
					continue
				}
			}
			v = append(v, sym)
		}
		variants = append(variants, v)
	}

	return variants, nil
}
