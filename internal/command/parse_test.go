package command

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{
			name:   "blank",
			input:  "   ",
			expect: Command{},
		},
		{
			name:   "rule keeps case and spacing",
			input:  "rule S -> a  B | ε",
			expect: Command{Verb: "RULE", Args: []string{"S", "->", "a", "B", "|", "ε"}, Text: "S -> a  B | ε"},
		},
		{
			name:   "alias",
			input:  "add A -> a",
			expect: Command{Verb: "RULE", Args: []string{"A", "->", "a"}, Text: "A -> a"},
		},
		{
			name:   "accept with no input",
			input:  "ACCEPT",
			expect: Command{Verb: "ACCEPT", Args: []string{}, Text: ""},
		},
		{
			name:   "strings with length",
			input:  "gen 4",
			expect: Command{Verb: "STRINGS", Args: []string{"4"}, Text: "4"},
		},
		{
			name:   "show table",
			input:  "show table",
			expect: Command{Verb: "SHOW", Args: []string{"table"}, Text: "table"},
		},
		{
			name:      "rule with nothing",
			input:     "RULE",
			expectErr: true,
		},
		{
			name:      "bad length",
			input:     "STRINGS lots",
			expectErr: true,
		},
		{
			name:      "quit with args",
			input:     "QUIT now",
			expectErr: true,
		},
		{
			name:      "unknown verb",
			input:     "FROBNICATE",
			expectErr: true,
		},
		{
			name:      "start with two symbols",
			input:     "START A B",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Command_NumberArg(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(7, Command{Verb: "STRINGS"}.NumberArg(7))
	assert.Equal(3, Command{Verb: "STRINGS", Args: []string{"3"}}.NumberArg(7))
}

type lineReader struct {
	lines []string
}

func (lr *lineReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *lineReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	r := &lineReader{lines: []string{"FROBNICATE", "CNF"}}

	cmd, err := Get(r, w)

	assert.NoError(err)
	assert.Equal("CNF", cmd.Verb)
	assert.True(strings.HasPrefix(out.String(), "I don't know what you mean by \"FROBNICATE\"\n"))

	_, err = Get(r, w)
	assert.ErrorIs(err, io.EOF)
}
