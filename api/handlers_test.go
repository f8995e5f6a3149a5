package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/engine"
	testutil "github.com/PSeitz/veloci-sub001/internal/testing"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
)

func setupTestRouter(eng *engine.Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, eng)
	return router
}

func setupMovieRouter(t *testing.T) *gin.Engine {
	t.Helper()
	eng := testutil.CreateTestEngine(t)
	testutil.CreateTestIndex(t, eng, "movies")
	return setupTestRouter(eng)
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthCheckHandler(t *testing.T) {
	router := setupMovieRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["indexes"])
}

func TestCreateIndexHandler(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	router := setupTestRouter(eng)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{
			name: "valid index creation",
			requestBody: CreateIndexRequest{
				Settings: testutil.MovieSettings("created"),
				Snapshot: testutil.MovieSnapshot(),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "valid index without data",
			requestBody: CreateIndexRequest{
				Settings: testutil.MovieSettings("empty"),
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name: "missing index name",
			requestBody: CreateIndexRequest{
				Settings: config.IndexSettings{Fields: []config.FieldSettings{testutil.TextField("title")}},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name: "broken join chain",
			requestBody: CreateIndexRequest{
				Settings: config.IndexSettings{
					Name: "broken",
					Fields: []config.FieldSettings{{
						Path:   "title",
						Levels: []config.JoinLevel{{Name: "title.tokens_to_text_id", Target: "title"}},
					}},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name: "duplicate index",
			requestBody: CreateIndexRequest{
				Settings: testutil.MovieSettings("created"),
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeIndexExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/indexes", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			}
		})
	}

	assert.Equal(t, []string{"created", "empty"}, eng.ListIndexes())

	// index data sent as JSON is searchable
	w := doRequest(router, http.MethodGet, "/indexes/created/_search?q=inception", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result services.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 1, result.Total)
	assert.Equal(t, uint32(1), result.Hits[0].ID)
}

func TestListIndexesHandler(t *testing.T) {
	router := setupMovieRouter(t)

	w := doRequest(router, http.MethodGet, "/indexes", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Indexes []string `json:"indexes"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"movies"}, body.Indexes)
	assert.Equal(t, 1, body.Count)
}

func TestGetIndexHandler(t *testing.T) {
	router := setupMovieRouter(t)

	w := doRequest(router, http.MethodGet, "/indexes/movies", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Settings config.IndexSettings `json:"settings"`
		Stats    struct {
			Fields     int `json:"fields"`
			BoostPaths int `json:"boost_paths"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "movies", body.Settings.Name)
	assert.Len(t, body.Settings.Fields, 2)
	assert.Equal(t, 2, body.Stats.Fields)
	assert.Equal(t, 1, body.Stats.BoostPaths)

	w = doRequest(router, http.MethodGet, "/indexes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorCodeIndexNotFound, decodeError(t, w).Code)
}

func TestDeleteIndexHandler(t *testing.T) {
	router := setupMovieRouter(t)

	w := doRequest(router, http.MethodDelete, "/indexes/movies", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodDelete, "/indexes/movies", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/indexes/movies", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchHandler(t *testing.T) {
	router := setupMovieRouter(t)
	levenshtein := uint8(9)

	tests := []struct {
		name           string
		index          string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
		expectedIDs    []uint32
	}{
		{
			name:           "single field search",
			index:          "movies",
			requestBody:    model.Request{Search: &model.RequestSearchPart{Path: "title", Terms: []string{"inception"}}},
			expectedStatus: http.StatusOK,
			expectedIDs:    []uint32{1},
		},
		{
			name:  "or across fields",
			index: "movies",
			requestBody: model.Request{Or: []model.Request{
				{Search: &model.RequestSearchPart{Path: "title", Terms: []string{"matrix"}}},
				{Search: &model.RequestSearchPart{Path: "description", Terms: []string{"wormhole"}}},
			}},
			expectedStatus: http.StatusOK,
			expectedIDs:    []uint32{0, 2},
		},
		{
			name:           "unknown index",
			index:          "missing",
			requestBody:    model.Request{Search: &model.RequestSearchPart{Path: "title", Terms: []string{"matrix"}}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeIndexNotFound,
		},
		{
			name:           "unknown field",
			index:          "movies",
			requestBody:    model.Request{Search: &model.RequestSearchPart{Path: "genre", Terms: []string{"drama"}}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeFieldNotFound,
		},
		{
			name:           "empty request",
			index:          "movies",
			requestBody:    model.Request{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
		{
			name:           "distance above maximum",
			index:          "movies",
			requestBody:    model.Request{Search: &model.RequestSearchPart{Path: "title", Terms: []string{"matrix"}, Levenshtein: &levenshtein}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
		{
			name:           "invalid JSON",
			index:          "movies",
			requestBody:    "{",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/indexes/"+tt.index+"/_search", tt.requestBody)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
				return
			}

			var result services.SearchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.NotEmpty(t, result.QueryId)
			ids := make([]uint32, 0, len(result.Hits))
			for _, hit := range result.Hits {
				ids = append(ids, hit.ID)
			}
			assert.ElementsMatch(t, tt.expectedIDs, ids)
		})
	}
}

func TestQuerySearchHandler(t *testing.T) {
	router := setupMovieRouter(t)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIDs    []uint32
	}{
		{name: "all fields", query: "q=matrix", expectedStatus: http.StatusOK, expectedIDs: []uint32{0}},
		{name: "restricted fields", query: "q=matrix&fields=description", expectedStatus: http.StatusOK, expectedIDs: []uint32{}},
		{name: "or operator", query: "q=matrix%20inception", expectedStatus: http.StatusOK, expectedIDs: []uint32{0, 1}},
		{name: "and operator", query: "q=matrix%20inception&operator=and", expectedStatus: http.StatusOK, expectedIDs: []uint32{}},
		{name: "typo", query: "q=incepton", expectedStatus: http.StatusOK, expectedIDs: []uint32{1}},
		{name: "missing query", query: "fields=title", expectedStatus: http.StatusBadRequest},
		{name: "bad operator", query: "q=matrix&operator=xor", expectedStatus: http.StatusBadRequest},
		{name: "unknown field", query: "q=matrix&fields=genre", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/indexes/movies/_search?"+tt.query, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedIDs == nil {
				return
			}

			var result services.SearchResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			ids := make([]uint32, 0, len(result.Hits))
			for _, hit := range result.Hits {
				ids = append(ids, hit.ID)
			}
			assert.ElementsMatch(t, tt.expectedIDs, ids)
		})
	}
}

func TestMultiSearchHandler(t *testing.T) {
	router := setupMovieRouter(t)

	body := services.MultiSearchQuery{Queries: []services.NamedRequest{
		{Name: "title", Request: model.Request{Search: &model.RequestSearchPart{Path: "title", Terms: []string{"interstellar"}}}},
		{Name: "description", Request: model.Request{Search: &model.RequestSearchPart{Path: "description", Terms: []string{"a"}}}},
	}}

	w := doRequest(router, http.MethodPost, "/indexes/movies/_multi_search", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result services.MultiSearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.TotalQueries)
	assert.Equal(t, 1, result.Results["title"].Total)
	assert.Equal(t, 3, result.Results["description"].Total)

	duplicate := services.MultiSearchQuery{Queries: []services.NamedRequest{
		{Name: "same", Request: body.Queries[0].Request},
		{Name: "same", Request: body.Queries[1].Request},
	}}
	w = doRequest(router, http.MethodPost, "/indexes/movies/_multi_search", duplicate)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeValidationFailed, decodeError(t, w).Code)

	w = doRequest(router, http.MethodPost, "/indexes/missing/_multi_search", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	router := setupMovieRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/indexes/missing", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", decodeError(t, w).RequestID)
}
