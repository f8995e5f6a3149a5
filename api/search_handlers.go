package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
)

// QuerySearchRequest holds the query-string parameters of a free-text search.
type QuerySearchRequest struct {
	Query       string `form:"q" binding:"required"`
	Fields      string `form:"fields"` // comma separated field paths
	Operator    string `form:"operator"`
	Levenshtein *uint8 `form:"levenshtein"`
	StartsWith  bool   `form:"starts_with"`
	Top         *int   `form:"top"`
	Skip        *int   `form:"skip"`
	Explain     bool   `form:"explain"`
}

// Params converts the query-string parameters into query generator input.
func (r QuerySearchRequest) Params() services.QueryParams {
	var fields []string
	for _, field := range strings.Split(r.Fields, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	return services.QueryParams{
		Query:       r.Query,
		Fields:      fields,
		Operator:    r.Operator,
		Levenshtein: r.Levenshtein,
		StartsWith:  r.StartsWith,
		Top:         r.Top,
		Skip:        r.Skip,
		Explain:     r.Explain,
	}
}

// indexFor resolves the index of the route, sending the error response when it fails.
func (api *API) indexFor(c *gin.Context) (services.IndexAccessor, string, bool) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return nil, indexName, false
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return nil, indexName, false
		}
		SendInternalError(c, "get index", err)
		return nil, indexName, false
	}
	return indexAccessor, indexName, true
}

// SearchHandler runs a request tree against an index.
// Request Body: model.Request
func (api *API) SearchHandler(c *gin.Context) {
	indexAccessor, indexName, ok := api.indexFor(c)
	if !ok {
		return
	}

	var req model.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	results, err := indexAccessor.Search(c.Request.Context(), req)
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// QuerySearchHandler runs a free-text query given as query-string parameters.
// Example: GET /indexes/movies/_search?q=matrix&fields=title&operator=and
func (api *API) QuerySearchHandler(c *gin.Context) {
	indexAccessor, indexName, ok := api.indexFor(c)
	if !ok {
		return
	}

	var req QuerySearchRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := indexAccessor.SearchQuery(c.Request.Context(), req.Params())
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// MultiSearchHandler runs several named request trees against one index concurrently.
// Request Body: services.MultiSearchQuery
func (api *API) MultiSearchHandler(c *gin.Context) {
	indexAccessor, indexName, ok := api.indexFor(c)
	if !ok {
		return
	}

	var query services.MultiSearchQuery
	if result := ValidateJSONBinding(c, &query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateMultiSearch(&query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := indexAccessor.MultiSearch(c.Request.Context(), query)
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
