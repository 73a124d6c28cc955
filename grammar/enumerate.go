package grammar

import (
	"sort"
	"strings"
)

// Enumerate returns every string of at most maxLen terminals that g derives
// from its start symbol. Each string is given as its terminals separated by
// single spaces, with the empty string standing for ε. The result is sorted.
//
// Enumeration works on bounded languages, so it terminates for every grammar,
// including those with epsilon productions and unit cycles.
func (g Grammar) Enumerate(maxLen int) []string {
	if maxLen < 0 || !g.IsNonTerminal(g.StartSymbol()) {
		return nil
	}

	langs := make(map[string]map[string][]string, len(g.rules))
	for _, r := range g.rules {
		langs[r.NonTerminal] = map[string][]string{}
	}

	// each pass can only add strings, and there are finitely many of them
	updated := true
	for updated {
		updated = false
		for _, r := range g.rules {
			lang := langs[r.NonTerminal]
			for _, p := range r.Productions {
				for _, seq := range g.boundedExpansions(p, langs, maxLen) {
					k := strings.Join(seq, " ")
					if _, ok := lang[k]; !ok {
						lang[k] = seq
						updated = true
					}
				}
			}
		}
	}

	var sentences []string
	for k := range langs[g.StartSymbol()] {
		sentences = append(sentences, k)
	}
	sort.Strings(sentences)
	return sentences
}

// boundedExpansions gives every terminal string of at most maxLen symbols
// that p derives using the languages found so far.
func (g Grammar) boundedExpansions(p Production, langs map[string]map[string][]string, maxLen int) [][]string {
	partials := [][]string{{}}
	if p.IsEpsilon() {
		return partials
	}

	for _, sym := range p {
		var next [][]string

		if lang, ok := langs[sym]; ok {
			for _, pre := range partials {
				for _, suf := range lang {
					if len(pre)+len(suf) > maxLen {
						continue
					}
					joined := make([]string, 0, len(pre)+len(suf))
					joined = append(joined, pre...)
					joined = append(joined, suf...)
					next = append(next, joined)
				}
			}
		} else {
			for _, pre := range partials {
				if len(pre)+1 > maxLen {
					continue
				}
				joined := make([]string, 0, len(pre)+1)
				joined = append(joined, pre...)
				joined = append(joined, sym)
				next = append(next, joined)
			}
		}

		if len(next) == 0 {
			return nil
		}
		partials = next
	}

	return partials
}
