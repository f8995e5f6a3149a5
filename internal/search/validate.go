package search

import (
	"fmt"
	"strings"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/model"
)

// ValidateRequest checks the shape of a request tree against the index schema.
func ValidateRequest(request model.Request, settings *config.IndexSettings) error {
	if request.Top != nil && *request.Top < 0 {
		return errors.NewValidationError("top", "must not be negative")
	}
	if request.Skip != nil && *request.Skip < 0 {
		return errors.NewValidationError("skip", "must not be negative")
	}
	return validateNode(request, settings, "request")
}

func validateNode(node model.Request, settings *config.IndexSettings, at string) error {
	set := 0
	if node.Search != nil {
		set++
	}
	if len(node.Or) > 0 {
		set++
	}
	if len(node.And) > 0 {
		set++
	}
	switch {
	case set == 0:
		return errors.NewValidationError(at, "one of search, or, and must be set")
	case set > 1:
		return errors.NewValidationError(at, "only one of search, or, and may be set")
	}

	if node.Search != nil {
		if err := validateSearchPart(*node.Search, settings, at+".search"); err != nil {
			return err
		}
	}
	for i, child := range node.Or {
		if err := validateNode(child, settings, fmt.Sprintf("%s.or[%d]", at, i)); err != nil {
			return err
		}
	}
	for i, child := range node.And {
		if err := validateNode(child, settings, fmt.Sprintf("%s.and[%d]", at, i)); err != nil {
			return err
		}
	}

	for i, boost := range node.Boost {
		field := fmt.Sprintf("%s.boost[%d]", at, i)
		if strings.TrimSpace(boost.Path) == "" {
			return errors.NewValidationError(field, "path is required")
		}
		if boost.BoostFun != nil && !boost.BoostFun.IsValid() {
			return errors.NewValidationError(field, fmt.Sprintf("unknown boost function '%s'", *boost.BoostFun))
		}
	}
	for i, part := range node.BoostTerm {
		if err := validateSearchPart(part, settings, fmt.Sprintf("%s.boost_term[%d]", at, i)); err != nil {
			return err
		}
	}
	if node.Filter != nil {
		return validateNode(*node.Filter, settings, at+".filter")
	}
	return nil
}

func validateSearchPart(part model.RequestSearchPart, settings *config.IndexSettings, at string) error {
	if strings.TrimSpace(part.Path) == "" {
		return errors.NewValidationError(at, "path is required")
	}
	if _, ok := settings.Field(part.Path); !ok {
		return errors.NewFieldNotFoundError(part.Path, "field")
	}
	if len(part.Terms) == 0 {
		return errors.NewValidationError(at, "at least one term is required")
	}
	for _, term := range part.Terms {
		if term == "" {
			return errors.NewValidationError(at, "terms must not be empty")
		}
	}
	if part.Top != nil && *part.Top < 0 {
		return errors.NewValidationError(at+".top", "must not be negative")
	}
	if part.Skip != nil && *part.Skip < 0 {
		return errors.NewValidationError(at+".skip", "must not be negative")
	}
	return nil
}
