package api

import (
	"time"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/server/dao"
)

// InfoModel is the response to a request for server info.
type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		Chomsky string `json:"chomsky"`
	} `json:"version"`
}

// GrammarModel is the body of a request to create a grammar. Either Text or
// Rules is given, but not both. If KeepEmpty is not given, the server's
// default is used.
type GrammarModel struct {
	Name         string              `json:"name"`
	Start        string              `json:"start,omitempty"`
	NonTerminals []string            `json:"nonterminals,omitempty"`
	Terminals    []string            `json:"terminals,omitempty"`
	Rules        map[string][]string `json:"rules,omitempty"`
	Text         string              `json:"text,omitempty"`
	KeepEmpty    *bool               `json:"keep_empty,omitempty"`
}

// RulesModel is a grammar as it appears in responses.
type RulesModel struct {
	Start        string   `json:"start"`
	NonTerminals []string `json:"nonterminals"`
	Terminals    []string `json:"terminals"`
	Rules        []string `json:"rules"`
}

// StoredGrammarModel is a grammar held by the server along with its normal
// form.
type StoredGrammarModel struct {
	URI        string     `json:"uri"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	KeepEmpty  bool       `json:"keep_empty"`
	Created    string     `json:"created"`
	Source     RulesModel `json:"source"`
	Normalized RulesModel `json:"normalized"`
}

// AcceptsModel is the body of a membership request.
type AcceptsModel struct {
	Input []string `json:"input"`
}

// AcceptsResultModel is the response to a membership request.
type AcceptsResultModel struct {
	Input    []string `json:"input"`
	Accepted bool     `json:"accepted"`
}

// StringsModel is the response to an enumeration request.
type StringsModel struct {
	Max     int      `json:"max"`
	Strings []string `json:"strings"`
}

func rulesModel(g grammar.Grammar) RulesModel {
	m := RulesModel{
		Start:        g.StartSymbol(),
		NonTerminals: g.NonTerminals(),
		Terminals:    g.Terminals(),
		Rules:        []string{},
	}
	if m.NonTerminals == nil {
		m.NonTerminals = []string{}
	}
	if m.Terminals == nil {
		m.Terminals = []string{}
	}
	for _, r := range g.Rules() {
		m.Rules = append(m.Rules, r.String())
	}
	return m
}

func storedGrammarModel(g dao.Grammar) StoredGrammarModel {
	return StoredGrammarModel{
		URI:        PathPrefix + "/grammars/" + g.ID.String(),
		ID:         g.ID.String(),
		Name:       g.Name,
		KeepEmpty:  g.KeepEmpty,
		Created:    g.Created.Format(time.RFC3339),
		Source:     rulesModel(g.Source),
		Normalized: rulesModel(g.Normalized),
	}
}
