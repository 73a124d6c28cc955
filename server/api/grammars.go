package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/server/result"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/go-chi/chi/v5"
)

// HTTPCreateGrammar returns a HandlerFunc that normalizes the grammar in the
// request body and stores it along with its normal form.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return api.handler(api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	var model GrammarModel
	if err := parseJSON(req, &model); err != nil {
		return errResult(err)
	}

	src, err := model.toGrammar()
	if err != nil {
		return errResult(err)
	}

	created, err := api.Backend.CreateGrammar(req.Context(), model.Name, src, model.KeepEmpty)
	if err != nil {
		return errResult(err)
	}

	resp := storedGrammarModel(created)
	return result.Created(resp, "grammar %q (%s) created", created.Name, created.ID).WithHeader("Location", resp.URI)
}

// HTTPGetAllGrammars returns a HandlerFunc that retrieves every stored
// grammar.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return api.handler(api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	grammars, err := api.Backend.GetAllGrammars(req.Context())
	if err != nil {
		return errResult(err)
	}

	resp := make([]StoredGrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = storedGrammarModel(grammars[i])
	}

	return result.OK(resp, "got %d grammar(s)", len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that retrieves a single grammar. The
// request must have an "id" URL parameter.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return api.handler(api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	g, err := api.Backend.GetGrammar(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return errResult(err)
	}

	return result.OK(storedGrammarModel(g), "got grammar %q (%s)", g.Name, g.ID)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a grammar and responds
// with it as it was just before deletion. The request must have an "id" URL
// parameter.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return api.handler(api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	deleted, err := api.Backend.DeleteGrammar(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return errResult(err)
	}

	return result.OK(storedGrammarModel(deleted), "deleted grammar %q (%s)", deleted.Name, deleted.ID)
}

// HTTPAccepts returns a HandlerFunc that checks whether a grammar generates
// the input in the request body. The request must have an "id" URL parameter.
func (api API) HTTPAccepts() http.HandlerFunc {
	return api.handler(api.epAccepts)
}

func (api API) epAccepts(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	var model AcceptsModel
	if err := parseJSON(req, &model); err != nil {
		return errResult(err)
	}
	if model.Input == nil {
		model.Input = []string{}
	}

	accepted, err := api.Backend.Accepts(req.Context(), id, model.Input)
	if err != nil {
		return errResult(err)
	}

	resp := AcceptsResultModel{Input: model.Input, Accepted: accepted}
	return result.OK(resp, "grammar %s accepted=%t for %d symbol(s)", id, accepted, len(model.Input))
}

// HTTPStrings returns a HandlerFunc that lists every string up to a length
// given by the "max" query parameter that a grammar generates. Without "max",
// the API's StringsLength is used. The request must have an "id" URL
// parameter.
func (api API) HTTPStrings() http.HandlerFunc {
	return api.handler(api.epStrings)
}

func (api API) epStrings(req *http.Request) result.Result {
	id := chi.URLParam(req, "id")

	maxLen := api.StringsLength
	if maxStr := req.URL.Query().Get("max"); maxStr != "" {
		var err error
		maxLen, err = strconv.Atoi(maxStr)
		if err != nil {
			return errResult(badField("max", "must be an integer"))
		}
	}

	sentences, err := api.Backend.Strings(req.Context(), id, maxLen)
	if err != nil {
		return errResult(err)
	}

	resp := StringsModel{Max: maxLen, Strings: sentences}
	return result.OK(resp, "grammar %s gave %d string(s) up to length %d", id, len(sentences), maxLen)
}

// toGrammar builds the grammar the model describes. With Text, the grammar is
// parsed from it and Start may override its start symbol. Otherwise Rules is
// used; if no non-terminals are declared they are taken from the rule keys
// with the start symbol first and the rest sorted.
func (m GrammarModel) toGrammar() (grammar.Grammar, error) {
	if m.Text != "" {
		if len(m.Rules) > 0 || len(m.NonTerminals) > 0 || len(m.Terminals) > 0 {
			return grammar.Grammar{}, badField("text", "cannot be given along with rules, nonterminals, or terminals")
		}
		g, err := grammar.Parse(m.Text)
		if err != nil {
			return grammar.Grammar{}, serr.Grammar("text", err)
		}
		if m.Start != "" {
			g.Start = m.Start
			if err := g.Validate(); err != nil {
				return grammar.Grammar{}, serr.Grammar("start", err)
			}
		}
		return g, nil
	}

	if len(m.Rules) == 0 {
		return grammar.Grammar{}, badField("rules", "property is empty or missing from request")
	}

	nts := m.NonTerminals
	start := m.Start
	if len(nts) == 0 {
		if start == "" {
			return grammar.Grammar{}, badField("start", "must be given when nonterminals is not")
		}
		var rest []string
		for nt := range m.Rules {
			if nt != start {
				rest = append(rest, nt)
			}
		}
		sort.Strings(rest)
		nts = append([]string{start}, rest...)
	} else if start == "" {
		start = nts[0]
	}

	g, err := grammar.New(nts, m.Terminals, m.Rules, start)
	if err != nil {
		return grammar.Grammar{}, serr.Grammar("rules", err)
	}
	return g, nil
}

func badField(name, problem string) error {
	return serr.New(name+": "+problem, serr.ErrBadArgument)
}
