package cnfs

import (
	"context"
	"strings"
	"testing"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/server/dao/inmem"
	"github.com/dekarrin/chomsky/server/serr"
	"github.com/stretchr/testify/assert"
)

func Test_Service_CreateGrammar(t *testing.T) {
	testCases := []struct {
		name            string
		defaultKeep     bool
		existing        []string
		newName         string
		src             grammar.Grammar
		keepEmpty       *bool
		expectKeepEmpty bool
		expectCNF       string
		expectErrs      []error
	}{
		{
			name:      "normal grammar",
			newName:   "anbn",
			src:       grammar.MustParse("S -> a S b | a b"),
			expectCNF: "S -> A B | C B\nA -> C S\nB -> b\nC -> a",
		},
		{
			name:            "keep empty",
			newName:         "anbn",
			src:             grammar.MustParse("S -> a S b | ε"),
			keepEmpty:       boolPtr(true),
			expectKeepEmpty: true,
		},
		{
			name:            "keep empty from service default",
			defaultKeep:     true,
			newName:         "anbn",
			src:             grammar.MustParse("S -> a S b | ε"),
			expectKeepEmpty: true,
		},
		{
			name:        "caller overrides service default",
			defaultKeep: true,
			newName:     "anbn",
			src:         grammar.MustParse("S -> a S b | ε"),
			keepEmpty:   boolPtr(false),
			expectCNF:   "S -> A B | C B\nA -> C S\nB -> b\nC -> a",
		},
		{
			name:       "blank name",
			newName:    "  ",
			src:        grammar.MustParse("S -> a"),
			expectErrs: []error{serr.ErrBadArgument},
		},
		{
			name:       "malformed grammar",
			newName:    "bad",
			src:        grammar.Grammar{},
			expectErrs: []error{serr.ErrBadArgument},
		},
		{
			name:       "too large to normalize",
			newName:    "big",
			src:        grammar.MustParse("S -> " + strings.Repeat("A ", 25) + "; A -> a | ε"),
			expectErrs: []error{serr.ErrGrammar},
		},
		{
			name:       "name taken",
			existing:   []string{"anbn"},
			newName:    "anbn",
			src:        grammar.MustParse("S -> a"),
			expectErrs: []error{serr.ErrAlreadyExists},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := Service{DB: inmem.NewDatastore(), KeepEmpty: tc.defaultKeep}

			for _, name := range tc.existing {
				_, err := svc.CreateGrammar(ctx, name, grammar.MustParse("S -> b"), nil)
				if !assert.NoError(err) {
					return
				}
			}

			actual, err := svc.CreateGrammar(ctx, tc.newName, tc.src, tc.keepEmpty)
			if len(tc.expectErrs) > 0 {
				for _, e := range tc.expectErrs {
					assert.ErrorIs(err, e)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.newName, actual.Name)
			assert.Equal(tc.expectKeepEmpty, actual.KeepEmpty)
			assert.Equal(tc.src.String(), actual.Source.String())
			if !tc.expectKeepEmpty {
				assert.True(actual.Normalized.IsCNF())
			}
			if tc.expectCNF != "" {
				assert.Equal(tc.expectCNF, actual.Normalized.String())
			}
		})
	}
}

func Test_Service_GetAndDeleteGrammar(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := Service{DB: inmem.NewDatastore()}

	created, err := svc.CreateGrammar(ctx, "anbn", grammar.MustParse("S -> a S b | a b"), nil)
	if !assert.NoError(err) {
		return
	}

	_, err = svc.GetGrammar(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)

	got, err := svc.GetGrammar(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal("anbn", got.Name)

	all, err := svc.GetAllGrammars(ctx)
	assert.NoError(err)
	assert.Len(all, 1)

	deleted, err := svc.DeleteGrammar(ctx, created.ID.String())
	assert.NoError(err)
	assert.Equal(created.ID, deleted.ID)

	_, err = svc.GetGrammar(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteGrammar(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_Accepts(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		keepEmpty bool
		input     []string
		expect    bool
	}{
		{name: "in language", src: "S -> a S b | ε", input: []string{"a", "a", "b", "b"}, expect: true},
		{name: "not in language", src: "S -> a S b | ε", input: []string{"a", "b", "b"}, expect: false},
		{name: "empty string with nullable start", src: "S -> a S b | ε", input: nil, expect: true},
		{name: "empty string kept", src: "S -> a S b | ε", keepEmpty: true, input: nil, expect: true},
		{name: "empty string not generated", src: "S -> a S b | a b", input: nil, expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := Service{DB: inmem.NewDatastore()}

			created, err := svc.CreateGrammar(ctx, "g", grammar.MustParse(tc.src), &tc.keepEmpty)
			if !assert.NoError(err) {
				return
			}

			actual, err := svc.Accepts(ctx, created.ID.String(), tc.input)
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Service_Strings(t *testing.T) {
	testCases := []struct {
		name      string
		limit     int
		maxLen    int
		expect    []string
		expectErr error
	}{
		{name: "within default limit", maxLen: 4, expect: []string{"", "a a b b", "a b"}},
		{name: "zero length", maxLen: 0, expect: []string{""}},
		{name: "past default limit", maxLen: DefaultMaxStringsLength + 1, expectErr: serr.ErrBadArgument},
		{name: "negative", maxLen: -1, expectErr: serr.ErrBadArgument},
		{name: "within set limit", limit: 2, maxLen: 2, expect: []string{"", "a b"}},
		{name: "past set limit", limit: 2, maxLen: 4, expectErr: serr.ErrBadArgument},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := Service{DB: inmem.NewDatastore(), MaxStringsLength: tc.limit}

			created, err := svc.CreateGrammar(ctx, "g", grammar.MustParse("S -> a S b | ε"), nil)
			if !assert.NoError(err) {
				return
			}

			actual, err := svc.Strings(ctx, created.ID.String(), tc.maxLen)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}
