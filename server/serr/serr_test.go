package serr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/stretchr/testify/assert"
)

func Test_Error(t *testing.T) {
	cause := errors.New("disk on fire")

	testCases := []struct {
		name      string
		input     error
		expectMsg string
		expectIs  []error
		expectNot []error
	}{
		{
			name:      "message only",
			input:     New("name is blank"),
			expectMsg: "name is blank",
			expectNot: []error{ErrBadArgument},
		},
		{
			name:      "message and causes",
			input:     New("name is blank", ErrBadArgument),
			expectMsg: "name is blank: " + ErrBadArgument.Error(),
			expectIs:  []error{ErrBadArgument},
			expectNot: []error{ErrNotFound},
		},
		{
			name:      "db wrap without message",
			input:     WrapDB("", cause),
			expectMsg: "disk on fire",
			expectIs:  []error{cause, ErrDB},
		},
		{
			name:      "db wrap with message",
			input:     WrapDB("could not get grammar", cause),
			expectMsg: "could not get grammar: disk on fire",
			expectIs:  []error{cause, ErrDB},
		},
		{
			name:      "wrapped further",
			input:     fmt.Errorf("service: %w", New("", ErrNotFound)),
			expectMsg: "service: " + ErrNotFound.Error(),
			expectIs:  []error{ErrNotFound},
		},
		{
			name:      "cause wraps a sentinel",
			input:     New("lookup", fmt.Errorf("repo: %w", cause)),
			expectMsg: "lookup: repo: disk on fire",
			expectIs:  []error{cause},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expectMsg, tc.input.Error())
			for _, target := range tc.expectIs {
				assert.ErrorIs(tc.input, target)
			}
			for _, target := range tc.expectNot {
				assert.NotErrorIs(tc.input, target)
			}
		})
	}
}

func Test_Grammar(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		start    string
		expectIs error
		expectNo error
	}{
		{
			name:     "malformed is the client's fault",
			src:      "S -> a S",
			start:    "X",
			expectIs: ErrBadArgument,
			expectNo: ErrGrammar,
		},
		{
			name:     "size limit is a grammar problem",
			src:      "S -> " + strings.Repeat("A ", 25) + "; A -> a | ε",
			expectIs: ErrGrammar,
			expectNo: ErrBadArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := grammar.MustParse(tc.src)
			if tc.start != "" {
				g.Start = tc.start
			}
			_, cnfErr := g.ToCNF(grammar.Options{})
			if !assert.Error(cnfErr) {
				return
			}

			actual := Grammar("could not normalize", cnfErr)

			assert.ErrorIs(actual, tc.expectIs)
			assert.NotErrorIs(actual, tc.expectNo)
			assert.Contains(actual.Error(), cnfErr.Error())
		})
	}
}

func Test_Status(t *testing.T) {
	testCases := []struct {
		name   string
		input  error
		expect int
	}{
		{name: "nil", input: nil, expect: http.StatusOK},
		{name: "not found", input: ErrNotFound, expect: http.StatusNotFound},
		{name: "exists", input: New("taken", ErrAlreadyExists), expect: http.StatusConflict},
		{name: "bad argument", input: New("bad", ErrBadArgument), expect: http.StatusBadRequest},
		{name: "bad body", input: New("bad", errors.New("json"), ErrBodyUnmarshal), expect: http.StatusBadRequest},
		{name: "grammar", input: New("no", ErrGrammar), expect: http.StatusUnprocessableEntity},
		{name: "db", input: WrapDB("", errors.New("gone")), expect: http.StatusInternalServerError},
		{name: "unknown", input: errors.New("what"), expect: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Status(tc.input))
		})
	}
}
