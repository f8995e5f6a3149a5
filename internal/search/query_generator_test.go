package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/services"
)

func generatorSettings() *config.IndexSettings {
	return &config.IndexSettings{Fields: []config.FieldSettings{{Path: "title"}, {Path: "notes"}}}
}

func TestGenerateRequest_Or(t *testing.T) {
	request, err := GenerateRequest(generatorSettings(), services.QueryParams{Query: "Quick quick fox", Top: ptr(5)})
	require.NoError(t, err)

	require.Len(t, request.Or, 4, "one search per distinct word and field")
	assert.Equal(t, "title", request.Or[0].Search.Path)
	assert.Equal(t, []string{"quick"}, request.Or[0].Search.Terms)
	assert.Equal(t, "notes", request.Or[1].Search.Path)
	assert.Equal(t, []string{"fox"}, request.Or[3].Search.Terms)
	assert.Equal(t, 5, *request.Top)
}

func TestGenerateRequest_And(t *testing.T) {
	request, err := GenerateRequest(generatorSettings(), services.QueryParams{Query: "quick fox", Operator: "AND"})
	require.NoError(t, err)

	require.Len(t, request.And, 2)
	for _, word := range request.And {
		assert.Len(t, word.Or, 2)
	}
}

func TestGenerateRequest_SingleSearch(t *testing.T) {
	request, err := GenerateRequest(generatorSettings(), services.QueryParams{
		Query:       "fox",
		Fields:      []string{"notes"},
		Levenshtein: ptr(uint8(1)),
		StartsWith:  true,
		Explain:     true,
	})
	require.NoError(t, err)

	require.NotNil(t, request.Search)
	assert.Equal(t, uint8(1), *request.Search.Levenshtein)
	assert.True(t, request.Search.StartsWith)
	assert.True(t, request.Explain)
}

func TestGenerateRequest_Errors(t *testing.T) {
	_, err := GenerateRequest(generatorSettings(), services.QueryParams{Query: " ?! "})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = GenerateRequest(generatorSettings(), services.QueryParams{Query: "fox", Operator: "xor"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = GenerateRequest(generatorSettings(), services.QueryParams{Query: "fox", Fields: []string{"missing"}})
	assert.ErrorIs(t, err, errors.ErrFieldNotFound)

	_, err = GenerateRequest(&config.IndexSettings{}, services.QueryParams{Query: "fox"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
