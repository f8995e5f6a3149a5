package search

import (
	"strings"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/internal/tokenizer"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
)

// GenerateRequest builds a request tree from a free-text query. Every word is searched
// in every selected field; words are combined with OR unless the operator is "and", in
// which case each word must hit at least one field.
func GenerateRequest(settings *config.IndexSettings, params services.QueryParams) (model.Request, error) {
	words := tokenizer.UniqueTokens(params.Query)
	if len(words) == 0 {
		return model.Request{}, errors.NewValidationError("query", "query must contain at least one word")
	}

	operator := strings.ToLower(strings.TrimSpace(params.Operator))
	if operator == "" {
		operator = "or"
	}
	if operator != "or" && operator != "and" {
		return model.Request{}, errors.NewValidationError("operator", "must be 'or' or 'and'")
	}

	fields := params.Fields
	if len(fields) == 0 {
		for _, field := range settings.Fields {
			fields = append(fields, field.Path)
		}
	}
	if len(fields) == 0 {
		return model.Request{}, errors.NewValidationError("fields", "index has no searchable fields")
	}
	for _, path := range fields {
		if _, ok := settings.Field(path); !ok {
			return model.Request{}, errors.NewFieldNotFoundError(path, "field")
		}
	}

	perWord := make([]model.Request, 0, len(words))
	for _, word := range words {
		searches := make([]model.Request, 0, len(fields))
		for _, path := range fields {
			searches = append(searches, model.Request{Search: &model.RequestSearchPart{
				Path:        path,
				Terms:       []string{word},
				Levenshtein: params.Levenshtein,
				StartsWith:  params.StartsWith,
			}})
		}
		if len(searches) == 1 {
			perWord = append(perWord, searches[0])
		} else {
			perWord = append(perWord, model.Request{Or: searches})
		}
	}

	var request model.Request
	switch {
	case len(perWord) == 1:
		request = perWord[0]
	case operator == "and":
		request = model.Request{And: perWord}
	default:
		// A flat union counts every (field, word) pair as a distinct term
		for _, node := range perWord {
			if node.Search != nil {
				request.Or = append(request.Or, node)
			} else {
				request.Or = append(request.Or, node.Or...)
			}
		}
	}

	request.Top = params.Top
	request.Skip = params.Skip
	request.Explain = params.Explain
	return request, nil
}
