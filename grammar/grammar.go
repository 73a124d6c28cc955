// Package grammar holds a model of context-free grammars and the
// transformations that bring one into Chomsky Normal Form.
//
// Symbols are arbitrary whitespace-free tokens. Whether a symbol is a terminal
// or a non-terminal is decided entirely by which set it was declared in, never
// by its spelling. Every transformation is functional: it copies the Grammar it
// is called on and returns the transformed copy, leaving the original intact.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/internal/util"
	"github.com/dekarrin/rosed"
)

// Grammar is a context-free grammar: a set of rules, one per non-terminal,
// together with the set of terminals and the designated start symbol. The zero
// value is an empty grammar ready for use.
type Grammar struct {
	rulesByName map[string]int
	rules       []Rule
	terminals   util.StringSet

	// Start is the start symbol. If not set, the first non-terminal defined
	// is used.
	Start string
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		terminals:   util.NewStringSet(g.terminals),
		Start:       g.Start,
	}

	for k, v := range g.rulesByName {
		g2.rulesByName[k] = v
	}

	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}

	return g2
}

// StartSymbol returns the start symbol of the grammar. If Start is not set,
// the first non-terminal defined is returned; if there are none, "" is
// returned.
func (g Grammar) StartSymbol() string {
	if g.Start != "" {
		return g.Start
	}
	if len(g.rules) > 0 {
		return g.rules[0].NonTerminal
	}
	return ""
}

// Rule returns the grammar rule for the given non-terminal symbol. If there is
// no rule defined for that non-terminal, a Rule with an empty NonTerminal field
// is returned; else it will be the same string as the one passed to the
// function.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}

	return g.rules[curIdx].Copy()
}

// Rules returns a copy of every rule in the grammar, in definition order.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// Productions returns the production mapping of the grammar: each
// non-terminal mapped to a copy of its productions.
func (g Grammar) Productions() map[string][]Production {
	m := make(map[string][]Production, len(g.rules))
	for _, r := range g.rules {
		m[r.NonTerminal] = r.Copy().Productions
	}
	return m
}

// NonTerminals returns the names of all non-terminals in the grammar, in the
// order their rules were defined.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, len(g.rules))
	for i := range g.rules {
		nts[i] = g.rules[i].NonTerminal
	}
	return nts
}

// Terminals returns all terminals of the grammar in alphabetical order.
func (g Grammar) Terminals() []string {
	return util.OrderedKeys(map[string]bool(g.terminals))
}

// IsTerminal returns whether sym is declared as a terminal.
func (g Grammar) IsTerminal(sym string) bool {
	return g.terminals.Has(sym)
}

// IsNonTerminal returns whether sym is declared as a non-terminal.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

// NumProductions returns the total number of productions across all rules.
func (g Grammar) NumProductions() int {
	var count int
	for _, r := range g.rules {
		count += len(r.Productions)
	}
	return count
}

// AddTerm adds the given terminal. Panics if it is empty or is already a
// non-terminal.
func (g *Grammar) AddTerm(terminal string) {
	if terminal == "" {
		panic("empty terminal not allowed")
	}
	if g.IsNonTerminal(terminal) {
		panic(fmt.Sprintf("cannot add terminal %q; already a non-terminal", terminal))
	}

	if g.terminals == nil {
		g.terminals = util.NewStringSet()
	}
	g.terminals.Add(terminal)
}

// AddNonTerminal declares a non-terminal with no productions. If it already
// exists, this has no effect. Panics if it is empty or is already a terminal.
func (g *Grammar) AddNonTerminal(nonterminal string) {
	if nonterminal == "" {
		panic("empty nonterminal name not allowed")
	}
	if g.IsTerminal(nonterminal) {
		panic(fmt.Sprintf("cannot add non-terminal %q; already a terminal", nonterminal))
	}
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}
	if _, ok := g.rulesByName[nonterminal]; ok {
		return
	}

	g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
	g.rulesByName[nonterminal] = len(g.rules) - 1
}

// AddRule adds the given production for a non-terminal, declaring the
// non-terminal if needed. If the production already exists for that
// non-terminal, this has no effect. Panics if nonterminal is empty, if
// production is empty, or if it mixes the empty symbol with others.
func (g *Grammar) AddRule(nonterminal string, production Production) {
	if len(production) < 1 {
		panic("empty production not allowed")
	}
	if len(production) > 1 && production.HasSymbol("") {
		panic("epsilon must appear alone in a production")
	}

	g.AddNonTerminal(nonterminal)

	curIdx := g.rulesByName[nonterminal]
	curRule := g.rules[curIdx]
	if curRule.CanProduce(production) {
		return
	}
	curRule.Productions = append(curRule.Productions, production.Copy())
	g.rules[curIdx] = curRule
}

// Merge adds every terminal, non-terminal, and production of other to g.
// Productions g already has are not added again, and g's start symbol is
// kept. If a symbol is a terminal in one grammar and a non-terminal in the
// other, an error with ErrMalformedGrammar as a cause is returned and g is
// left unchanged.
func (g *Grammar) Merge(other Grammar) error {
	for _, t := range other.Terminals() {
		if g.IsNonTerminal(t) {
			return malformedf("%q is a non-terminal here but a terminal in the merged grammar", t)
		}
	}
	for _, nt := range other.NonTerminals() {
		if g.IsTerminal(nt) {
			return malformedf("%q is a terminal here but a non-terminal in the merged grammar", nt)
		}
	}

	for _, t := range other.Terminals() {
		g.AddTerm(t)
	}
	for _, r := range other.rules {
		g.AddNonTerminal(r.NonTerminal)
		for _, p := range r.Productions {
			g.AddRule(r.NonTerminal, p)
		}
	}
	return nil
}

// RemoveRule removes the given non-terminal from the grammar along with all of
// its productions, whether or not it has any. If it is not a non-terminal of
// the grammar, this has no effect. Productions of other rules that refer to it
// are left as-is.
func (g *Grammar) RemoveRule(nonterminal string) {
	if g.rulesByName == nil {
		return
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return
	}

	// delete from the map
	delete(g.rulesByName, nonterminal)

	// delete from the slice, then fix up the indexes of everything after it
	g.rules = append(g.rules[:curIdx], g.rules[curIdx+1:]...)
	for i := curIdx; i < len(g.rules); i++ {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}
}

// setProductions replaces the productions of an existing non-terminal.
func (g *Grammar) setProductions(nonterminal string, prods []Production) {
	idx := g.rulesByName[nonterminal]
	g.rules[idx].Productions = prods
}

// prependRule inserts a new rule ahead of all others.
func (g *Grammar) prependRule(r Rule) {
	g.rules = append([]Rule{r.Copy()}, g.rules...)
	g.rulesByName = make(map[string]int, len(g.rules))
	for i := range g.rules {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}
}

// symbols returns every declared terminal and non-terminal.
func (g Grammar) symbols() []string {
	syms := g.NonTerminals()
	return append(syms, g.Terminals()...)
}

// Validate returns an error describing every problem with the grammar: a
// start symbol that is not a non-terminal, a symbol declared as both a
// terminal and a non-terminal, a production using an undeclared symbol, an
// empty symbol used alongside others, or duplicate productions. If the
// grammar is consistent, nil is returned.
func (g Grammar) Validate() error {
	var problems []string

	start := g.StartSymbol()
	if start == "" {
		problems = append(problems, "no start symbol")
	} else if !g.IsNonTerminal(start) {
		problems = append(problems, fmt.Sprintf("start symbol %q is not a non-terminal", start))
	}

	for _, t := range g.Terminals() {
		if g.IsNonTerminal(t) {
			problems = append(problems, fmt.Sprintf("%q is both a terminal and a non-terminal", t))
		}
	}

	for _, r := range g.rules {
		seen := newProdSet()
		for _, p := range r.Productions {
			if !seen.add(p) {
				problems = append(problems, fmt.Sprintf("%s: duplicate production %s", r.NonTerminal, p))
			}
			if p.IsEpsilon() {
				continue
			}
			for _, sym := range p {
				if sym == "" {
					problems = append(problems, fmt.Sprintf("%s: epsilon mixed with other symbols in %s", r.NonTerminal, strings.Join(p, " ")))
				} else if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					problems = append(problems, fmt.Sprintf("%s: undeclared symbol %q in %s", r.NonTerminal, sym, p))
				}
			}
		}
	}

	if len(problems) > 0 {
		return malformedf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// iterationLimit gives the most passes any fixpoint loop over g is allowed to
// make before it is considered runaway.
func iterationLimit(g Grammar) int {
	return (len(g.rules)+1)*(g.NumProductions()+len(g.terminals)+1)*2 + 16
}

// String returns the rules of the grammar, one per line, in definition order.
func (g Grammar) String() string {
	var sb strings.Builder

	for i := range g.rules {
		sb.WriteString(g.rules[i].String())
		if i+1 < len(g.rules) {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// Table returns a bordered table of the grammar's rules with one row per
// non-terminal, listing each production in its own column, suitable for
// display on a terminal of the given width.
func (g Grammar) Table(width int) string {
	start := g.StartSymbol()

	data := [][]string{{"NON-TERMINAL", "PRODUCTIONS"}}
	for _, r := range g.rules {
		name := r.NonTerminal
		if name == start {
			name += " (start)"
		}

		alts := make([]string, len(r.Productions))
		for i := range r.Productions {
			alts[i] = r.Productions[i].String()
		}
		data = append(data, []string{name, strings.Join(alts, " | ")})
	}

	data = append(data, []string{"(terminals)", strings.Join(g.Terminals(), " ")})

	return rosed.Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders: true,
			TableHeaders: true,
		}).
		String()
}
