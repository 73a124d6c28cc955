package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dekarrin/chomsky/internal/util"
)

// New creates a Grammar from explicit definitions of its non-terminals,
// terminals, productions, and start symbol. The given values are copied, so
// later changes to them by the caller have no effect on the returned Grammar.
//
// Each production string is split on whitespace if it contains any; otherwise
// it is broken into symbols by repeatedly taking the longest declared symbol
// that prefixes the remaining text, which lets single-character grammars be
// written as "aB". The strings "" and "ε" denote the empty production.
//
// Non-terminals are defined in the order given by nonTerminals. The returned
// error will have ErrMalformedGrammar as a cause if the definitions are
// inconsistent, or ErrUnsupportedShape if a key of rules is made of more than
// one symbol.
func New(nonTerminals, terminals []string, rules map[string][]string, start string) (Grammar, error) {
	var g Grammar

	declared := util.NewStringSet()
	for _, t := range terminals {
		if err := checkSymbolName(t); err != nil {
			return Grammar{}, err
		}
		declared.Add(t)
	}
	for _, nt := range nonTerminals {
		if err := checkSymbolName(nt); err != nil {
			return Grammar{}, err
		}
		if util.InSlice(nt, terminals) {
			return Grammar{}, malformedf("%q is declared as both a terminal and a non-terminal", nt)
		}
		declared.Add(nt)
	}

	for _, t := range terminals {
		g.AddTerm(t)
	}
	for _, nt := range nonTerminals {
		g.AddNonTerminal(nt)
	}

	if start == "" {
		return Grammar{}, malformedf("no start symbol given")
	}
	if !g.IsNonTerminal(start) {
		return Grammar{}, malformedf("start symbol %q is not a non-terminal", start)
	}
	g.Start = start

	// go through the rule keys in definition order so that the first problem
	// found is the same on every run
	keys := make([]string, 0, len(rules))
	for _, nt := range nonTerminals {
		if _, ok := rules[nt]; ok && !util.InSlice(nt, keys) {
			keys = append(keys, nt)
		}
	}
	var extra []string
	for k := range rules {
		if !g.IsNonTerminal(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	for _, k := range extra {
		syms, err := tokenize(k, declared)
		if err == nil && len(syms) > 1 {
			return Grammar{}, unsupportedf("%q has more than one symbol", k)
		}
		return Grammar{}, malformedf("rule given for %q, which is not a non-terminal", k)
	}

	for _, nt := range keys {
		for _, alt := range rules[nt] {
			prod, err := parseProduction(alt, declared)
			if err != nil {
				return Grammar{}, fmt.Errorf("%s: %w", nt, err)
			}
			g.AddRule(nt, prod)
		}
	}

	return g, nil
}

// MustParse is identical to Parse but panics if an error is encountered.
func MustParse(s string) Grammar {
	g, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Parse creates a Grammar from rule notation, such as:
//
//	S -> a B | A B ;
//	A -> d | d S | a A a A b | ε ;
//	B -> a | a S | A
//
// Rules are separated by newlines or semicolons, and "→" may be used in place
// of "->". Symbols in a production are separated by whitespace. A symbol
// beginning with an upper-case letter is a non-terminal; anything else is a
// terminal. An empty alternative or "ε" is the empty production. The left side
// of the first rule is the start symbol.
//
// Non-terminals that appear only on the right side of rules are declared with
// no productions.
func Parse(s string) (Grammar, error) {
	var g Grammar

	// normalize so that we can split on both kinds of rule separator.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, ";", "\n")
	lines := strings.Split(s, "\n")

	type parsedRule struct {
		nt   string
		alts []Production
	}
	var parsed []parsedRule

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		nt, alts, err := parseRule(line)
		if err != nil {
			return Grammar{}, fmt.Errorf("line %d: %w", i+1, err)
		}
		parsed = append(parsed, parsedRule{nt: nt, alts: alts})
	}

	if len(parsed) < 1 {
		return Grammar{}, malformedf("no rules given")
	}

	// declare every left side first so that they end up in the order given
	for _, pr := range parsed {
		g.AddNonTerminal(pr.nt)
	}

	for _, pr := range parsed {
		for _, alt := range pr.alts {
			for _, sym := range alt {
				if sym == "" || g.IsNonTerminal(sym) || g.IsTerminal(sym) {
					continue
				}
				if isNonTerminalName(sym) {
					g.AddNonTerminal(sym)
				} else {
					g.AddTerm(sym)
				}
			}
			g.AddRule(pr.nt, alt)
		}
	}

	g.Start = parsed[0].nt

	return g, nil
}

// parseRule parses a single rule of the form "A -> alt1 | alt2".
func parseRule(r string) (string, []Production, error) {
	sides := strings.SplitN(r, "->", 2)
	if len(sides) != 2 {
		sides = strings.SplitN(r, "→", 2)
	}
	if len(sides) != 2 {
		return "", nil, malformedf("not a rule: %q", r)
	}

	left := strings.Fields(sides[0])
	if len(left) < 1 {
		return "", nil, malformedf("rule has no left side: %q", r)
	}
	if len(left) > 1 {
		return "", nil, unsupportedf("%q has more than one symbol", strings.TrimSpace(sides[0]))
	}
	nonTerminal := left[0]
	if !isNonTerminalName(nonTerminal) {
		return "", nil, malformedf("left side %q is not a non-terminal", nonTerminal)
	}

	var prods []Production
	for _, alt := range strings.Split(sides[1], "|") {
		syms := strings.Fields(alt)
		if len(syms) == 0 || (len(syms) == 1 && syms[0] == EpsilonGlyph) {
			prods = append(prods, Epsilon.Copy())
			continue
		}
		if util.InSlice(EpsilonGlyph, syms) {
			return "", nil, malformedf("%s: epsilon mixed with other symbols in %q", nonTerminal, strings.TrimSpace(alt))
		}
		prods = append(prods, Production(syms))
	}

	return nonTerminal, prods, nil
}

// isNonTerminalName returns whether the text form of a symbol marks it as a
// non-terminal.
func isNonTerminalName(sym string) bool {
	r, _ := utf8.DecodeRuneInString(sym)
	return unicode.IsUpper(r)
}

func checkSymbolName(sym string) error {
	if sym == "" {
		return malformedf("empty symbol name")
	}
	if sym == EpsilonGlyph {
		return malformedf("%q is reserved for the empty production", EpsilonGlyph)
	}
	if strings.IndexFunc(sym, unicode.IsSpace) >= 0 {
		return malformedf("symbol %q contains whitespace", sym)
	}
	return nil
}

// parseProduction converts the string form of a production into its symbols.
func parseProduction(alt string, declared util.StringSet) (Production, error) {
	trimmed := strings.TrimSpace(alt)
	if trimmed == "" || trimmed == EpsilonGlyph {
		return Epsilon.Copy(), nil
	}

	syms, err := tokenize(trimmed, declared)
	if err != nil {
		return nil, err
	}
	if len(syms) > 1 && util.InSlice(EpsilonGlyph, syms) {
		return nil, malformedf("epsilon mixed with other symbols in %q", trimmed)
	}
	return Production(syms), nil
}

// tokenize splits s into declared symbols.
func tokenize(s string, declared util.StringSet) ([]string, error) {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		syms := strings.Fields(s)
		for _, sym := range syms {
			if !declared.Has(sym) && sym != EpsilonGlyph {
				return nil, malformedf("undeclared symbol %q in %q", sym, s)
			}
		}
		return syms, nil
	}

	// no whitespace; take the longest declared symbol at each position
	var syms []string
	rest := s
	for rest != "" {
		var longest string
		for sym := range declared {
			if len(sym) > len(longest) && strings.HasPrefix(rest, sym) {
				longest = sym
			}
		}
		if longest == "" {
			if strings.HasPrefix(rest, EpsilonGlyph) {
				longest = EpsilonGlyph
			} else {
				r, _ := utf8.DecodeRuneInString(rest)
				return nil, malformedf("undeclared symbol %q in %q", string(r), s)
			}
		}
		syms = append(syms, longest)
		rest = rest[len(longest):]
	}
	return syms, nil
}
