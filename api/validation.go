// Package api provides the HTTP handlers of the search server and their request validation.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/services"
)

// maxMultiSearchQueries bounds the number of requests in one multi-search call.
const maxMultiSearchQueries = 20

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateIndexName validates an index name parameter
func ValidateIndexName(indexName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if indexName == "" {
		result.AddError("indexName", "Index name is required")
		return result
	}

	if strings.TrimSpace(indexName) != indexName {
		result.AddError("indexName", "Index name cannot have leading or trailing whitespace")
		return result
	}

	if strings.ContainsAny(indexName, `/\`) || indexName == "." || indexName == ".." {
		result.AddError("indexName", "Index name cannot contain path separators")
	}

	return result
}

// ValidateIndexSettings validates index settings for creation
func ValidateIndexSettings(settings *config.IndexSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Index settings are required")
		return result
	}

	if nameResult := ValidateIndexName(settings.Name); nameResult.HasErrors() {
		for _, err := range nameResult.Errors {
			result.AddError("name", err.Message)
		}
	}

	// Apply defaults before validation
	settings.ApplyDefaults()

	if len(settings.Fields) == 0 {
		result.AddError("fields", "At least one field is required")
	}

	// Validate field paths and join chains
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		for _, conflict := range conflicts {
			result.AddError("field_validation", conflict)
		}
	}

	return result
}

// ValidateMultiSearch validates the shape of a multi-search request.
// The requests themselves are validated when they are planned.
func ValidateMultiSearch(query *services.MultiSearchQuery) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(query.Queries) == 0 {
		result.AddError("queries", "At least one query is required")
		return result
	}
	if len(query.Queries) > maxMultiSearchQueries {
		result.AddError("queries", fmt.Sprintf("At most %d queries are allowed", maxMultiSearchQueries))
	}

	seen := make(map[string]bool, len(query.Queries))
	for i, q := range query.Queries {
		if strings.TrimSpace(q.Name) == "" {
			result.AddError(fmt.Sprintf("queries[%d].name", i), "Query name is required")
			continue
		}
		if seen[q.Name] {
			result.AddError(fmt.Sprintf("queries[%d].name", i), "Duplicate query name '"+q.Name+"'")
		}
		seen[q.Name] = true
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}
