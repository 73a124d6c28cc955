package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_MarshalBinary(t *testing.T) {
	inputs := []string{
		scenarioGrammar,
		"E -> E plus T | T ; T -> id ; U -> ",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert := assert.New(t)

			g := MustParse(input)

			data, err := g.MarshalBinary()
			if !assert.NoError(err) {
				return
			}

			var actual Grammar
			err = actual.UnmarshalBinary(data)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(g.String(), actual.String())
			assert.Equal(g.StartSymbol(), actual.StartSymbol())
			assert.Equal(g.Terminals(), actual.Terminals())
			assert.Equal(g.NonTerminals(), actual.NonTerminals())
		})
	}
}

func Test_Grammar_UnmarshalBinary_BadData(t *testing.T) {
	assert := assert.New(t)

	g := MustParse(scenarioGrammar)
	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual Grammar

	assert.Error(actual.UnmarshalBinary(nil))
	assert.Error(actual.UnmarshalBinary(data[:len(data)/2]))
	assert.Equal("", actual.String(), "failed decode must not change the grammar")
}
