package grammar

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrNoDerivation is returned by Sample when the grammar derives no string
// within the requested depth.
var ErrNoDerivation = errors.New("no derivation within depth")

// heights gives, for each productive non-terminal, the height of its
// shallowest derivation tree. Terminals have height 0.
func (g Grammar) heights() map[string]int {
	h := map[string]int{}
	for _, t := range g.Terminals() {
		h[t] = 0
	}

	updated := true
	for updated {
		updated = false
		for _, r := range g.rules {
			for _, p := range r.Productions {
				ph, ok := productionHeight(p, h)
				if !ok {
					continue
				}
				if cur, known := h[r.NonTerminal]; !known || ph < cur {
					h[r.NonTerminal] = ph
					updated = true
				}
			}
		}
	}

	return h
}

// productionHeight gives the height of the shallowest tree rooted in a
// production p, or false if some symbol of p has no known height.
func productionHeight(p Production, h map[string]int) (int, bool) {
	if p.IsEpsilon() {
		return 1, true
	}

	highest := 0
	for _, sym := range p {
		sh, ok := h[sym]
		if !ok {
			return 0, false
		}
		if sh > highest {
			highest = sh
		}
	}
	return highest + 1, true
}

// Sample returns a random string derived from the start symbol, using rng to
// pick productions. The derivation tree is never deeper than maxDepth; only
// productions that can finish within the remaining depth are chosen. The
// string is given as its terminals separated by single spaces.
//
// If no string can be derived within maxDepth, an error with ErrNoDerivation
// as a cause is returned.
func (g Grammar) Sample(rng *rand.Rand, maxDepth int) (string, error) {
	start := g.StartSymbol()
	h := g.heights()

	startH, ok := h[start]
	if !ok || !g.IsNonTerminal(start) {
		return "", newError(fmt.Sprintf("%s generates no strings", start), ErrNoDerivation)
	}
	if startH > maxDepth {
		return "", newError(fmt.Sprintf("shortest derivation from %s needs depth %d, but max is %d", start, startH, maxDepth), ErrNoDerivation)
	}

	var out []string
	g.derive(rng, start, maxDepth, h, &out)
	return strings.Join(out, " "), nil
}

// derive expands sym into out. h[sym] must be at most depth.
func (g Grammar) derive(rng *rand.Rand, sym string, depth int, h map[string]int, out *[]string) {
	if g.IsTerminal(sym) {
		*out = append(*out, sym)
		return
	}

	r := g.rules[g.rulesByName[sym]]
	var fits []Production
	for _, p := range r.Productions {
		ph, ok := productionHeight(p, h)
		if ok && ph <= depth {
			fits = append(fits, p)
		}
	}

	chosen := fits[rng.Intn(len(fits))]
	if chosen.IsEpsilon() {
		return
	}
	for _, child := range chosen {
		g.derive(rng, child, depth-1, h, out)
	}
}
