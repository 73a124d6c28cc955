// Package gramfile loads and saves grammar definitions in the GRAMMAR file
// format, a TOML-based format used to give a context-free grammar to the
// normalizer.
//
// A file either lists its rules in [[rule]] tables:
//
//	format = "CHOMSKY"
//	type = "GRAMMAR"
//
//	[grammar]
//	name = "anbn"
//	start = "S"
//	nonterminals = ["S"]
//	terminals = ["a", "b"]
//
//	[[rule]]
//	nonterminal = "S"
//	productions = ["a S b", "a b"]
//
// or gives them all at once in the text rule syntax understood by
// grammar.Parse:
//
//	[grammar]
//	text = "S -> a S b | a b"
package gramfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/chomsky/grammar"
)

const (
	// Format is the value of the format key that every grammar file has.
	Format = "CHOMSKY"

	// TypeGrammar is the value of the type key for a grammar definition file.
	TypeGrammar = "GRAMMAR"
)

var (
	// ErrNotGrammarFile is the error returned when a file does not have the
	// expected format and type keys.
	ErrNotGrammarFile = errors.New("not a CHOMSKY GRAMMAR file")

	// ErrAmbiguousDefinition is the error returned when a file gives both a
	// text definition and [[rule]] tables.
	ErrAmbiguousDefinition = errors.New("grammar has both text and rule tables")
)

// FileInfo contains the essential information all grammar files must contain.
// It can be obtained from a file by reading it into memory and calling
// ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Definition is a grammar loaded from a file along with the name it was given
// there.
type Definition struct {
	Name    string
	Grammar grammar.Grammar
}

type topLevel struct {
	Format  string       `toml:"format"`
	Type    string       `toml:"type"`
	Grammar grammarTable `toml:"grammar"`
	Rules   []ruleTable  `toml:"rule,omitempty"`
}

type grammarTable struct {
	Name         string   `toml:"name,omitempty"`
	Start        string   `toml:"start,omitempty"`
	NonTerminals []string `toml:"nonterminals,omitempty"`
	Terminals    []string `toml:"terminals,omitempty"`
	Text         string   `toml:"text,omitempty"`
}

type ruleTable struct {
	NonTerminal string   `toml:"nonterminal"`
	Productions []string `toml:"productions"`
}

// Load reads the grammar file at path.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	def, err := Decode(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%q: %w", path, err)
	}
	return def, nil
}

// Save writes def to the file at path, replacing it if it already exists.
func Save(path string, def Definition) error {
	data, err := Encode(def)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%q: writing to disk: %w", path, err)
	}
	return nil
}

// Decode reads a Definition from the bytes of a grammar file.
func Decode(data []byte) (Definition, error) {
	info, err := ScanFileInfo(data)
	if err != nil {
		return Definition{}, fmt.Errorf("detecting file type: %w", err)
	}
	if strings.ToUpper(info.Format) != Format || strings.ToUpper(info.Type) != TypeGrammar {
		return Definition{}, ErrNotGrammarFile
	}

	var top topLevel
	if _, err := toml.Decode(string(data), &top); err != nil {
		return Definition{}, err
	}

	g, err := top.toGrammar()
	if err != nil {
		return Definition{}, err
	}
	return Definition{Name: top.Grammar.Name, Grammar: g}, nil
}

// Encode gives the bytes of a grammar file holding def. Rules are always
// written as [[rule]] tables.
func Encode(def Definition) ([]byte, error) {
	g := def.Grammar
	top := topLevel{
		Format: Format,
		Type:   TypeGrammar,
		Grammar: grammarTable{
			Name:         def.Name,
			Start:        g.StartSymbol(),
			NonTerminals: g.NonTerminals(),
			Terminals:    g.Terminals(),
		},
	}

	for _, r := range g.Rules() {
		rt := ruleTable{NonTerminal: r.NonTerminal, Productions: []string{}}
		for _, p := range r.Productions {
			rt.Productions = append(rt.Productions, p.String())
		}
		top.Rules = append(top.Rules, rt)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(top); err != nil {
		return nil, fmt.Errorf("encoding grammar: %w", err)
	}
	return buf.Bytes(), nil
}

func (top topLevel) toGrammar() (grammar.Grammar, error) {
	gt := top.Grammar

	if gt.Text != "" {
		if len(top.Rules) > 0 {
			return grammar.Grammar{}, ErrAmbiguousDefinition
		}
		g, err := grammar.Parse(gt.Text)
		if err != nil {
			return grammar.Grammar{}, err
		}
		if gt.Start != "" {
			g.Start = gt.Start
			if err := g.Validate(); err != nil {
				return grammar.Grammar{}, err
			}
		}
		return g, nil
	}

	nonTerminals := gt.NonTerminals
	rules := map[string][]string{}
	for i, r := range top.Rules {
		if r.NonTerminal == "" {
			return grammar.Grammar{}, fmt.Errorf("rule #%d: missing nonterminal", i+1)
		}
		if len(gt.NonTerminals) == 0 {
			if _, ok := rules[r.NonTerminal]; !ok {
				nonTerminals = append(nonTerminals, r.NonTerminal)
			}
		}
		rules[r.NonTerminal] = append(rules[r.NonTerminal], r.Productions...)
	}

	start := gt.Start
	if start == "" && len(nonTerminals) > 0 {
		start = nonTerminals[0]
	}

	return grammar.New(nonTerminals, gt.Terminals, rules, start)
}

// ScanFileInfo takes the given data bytes and attempts to read the common
// header info from it. The bytes are read up to the first instance of a table
// definition header and those bytes are parsed for the info. If there is an
// error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	onNewLine := true
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}
