package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// This file contains the format for binary encoding of grammars.

// MarshalBinary converts p into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (p Production) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(len(p))...)
	for _, sym := range p {
		data = append(data, rezi.EncString(sym)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into p.
// All of p's existing symbols are replaced.
func (p *Production) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("symbol count: %w", err)
	}
	data = data[n:]
	if count < 0 {
		return fmt.Errorf("symbol count < 0")
	}

	syms := make(Production, count)
	for i := range syms {
		syms[i], n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("symbol %d: %w", i, err)
		}
		data = data[n:]
	}

	*p = syms
	return nil
}

// MarshalBinary converts r into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (r Rule) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(r.NonTerminal)...)
	data = append(data, rezi.EncInt(len(r.Productions))...)
	for _, p := range r.Productions {
		data = append(data, rezi.EncBinary(p)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into r.
// All of r's existing fields are replaced.
func (r *Rule) UnmarshalBinary(data []byte) error {
	var decoded Rule
	var n int
	var err error

	decoded.NonTerminal, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("non-terminal: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("production count: %w", err)
	}
	data = data[n:]
	if count < 0 {
		return fmt.Errorf("production count < 0")
	}

	decoded.Productions = make([]Production, count)
	for i := range decoded.Productions {
		n, err = rezi.DecBinary(data, &decoded.Productions[i])
		if err != nil {
			return fmt.Errorf("production %d: %w", i, err)
		}
		data = data[n:]
	}

	*r = decoded
	return nil
}

// MarshalBinary converts g into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.Start)...)

	terms := g.Terminals()
	data = append(data, rezi.EncInt(len(terms))...)
	for _, t := range terms {
		data = append(data, rezi.EncString(t)...)
	}

	data = append(data, rezi.EncInt(len(g.rules))...)
	for _, r := range g.rules {
		data = append(data, rezi.EncBinary(r)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into g.
// All of g's existing rules and terminals are replaced. The decoded grammar is
// validated, and an error is returned if it is not consistent.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var decoded Grammar
	var n int
	var err error

	decoded.Start, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start symbol: %w", err)
	}
	data = data[n:]

	termCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("terminal count: %w", err)
	}
	data = data[n:]
	for i := 0; i < termCount; i++ {
		var t string
		t, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("terminal %d: %w", i, err)
		}
		data = data[n:]
		if t == "" {
			return malformedf("terminal %d is empty", i)
		}
		decoded.AddTerm(t)
	}

	ruleCount, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]
	for i := 0; i < ruleCount; i++ {
		var r Rule
		n, err = rezi.DecBinary(data, &r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		data = data[n:]

		if r.NonTerminal == "" || decoded.IsTerminal(r.NonTerminal) {
			return malformedf("rule %d has bad non-terminal %q", i, r.NonTerminal)
		}
		decoded.AddNonTerminal(r.NonTerminal)
		for _, p := range r.Productions {
			if len(p) < 1 || (len(p) > 1 && p.HasSymbol("")) {
				return malformedf("%s: bad production %q", r.NonTerminal, []string(p))
			}
			decoded.AddRule(r.NonTerminal, p)
		}
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	*g = decoded
	return nil
}
