package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PSeitz/veloci-sub001/config"
	internalErrors "github.com/PSeitz/veloci-sub001/internal/errors"
	"github.com/PSeitz/veloci-sub001/store"
)

// CreateIndexRequest carries the settings of a new index and its prebuilt data.
type CreateIndexRequest struct {
	Settings config.IndexSettings `json:"settings"`
	Snapshot *store.Snapshot      `json:"snapshot,omitempty"`
}

// CreateIndexHandler handles the request to create a new index.
// Request Body: CreateIndexRequest
func (api *API) CreateIndexHandler(c *gin.Context) {
	var req CreateIndexRequest

	// Validate JSON binding
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Validate index settings
	if result := ValidateIndexSettings(&req.Settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	err := api.engine.CreateIndex(req.Settings, req.Snapshot)
	if err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, req.Settings.Name)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
				"Failed to create index '"+req.Settings.Name+"': "+err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + req.Settings.Name + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves the settings and the size of a specific index.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": indexAccessor.Settings(),
		"stats":    indexAccessor.Stats(),
	})
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if err := api.engine.DeleteIndex(indexName); err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		// file system errors
		SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
			"Failed to delete index '"+indexName+"': "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}
