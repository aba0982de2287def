package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PlatformHandler serves the record platform contract so other deployments
// can use this one through records.NewHTTPClient
type PlatformHandler struct {
	client records.Client
	tables repository.TableRepository
	log    zerolog.Logger
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(repos *repository.Repositories, log zerolog.Logger) *PlatformHandler {
	return &PlatformHandler{
		client: repos.Records,
		tables: repos.Tables,
		log:    log.With().Str("handler", "platform").Logger(),
	}
}

// ListTables handles GET /platform/v1/tables
func (h *PlatformHandler) ListTables(c *gin.Context) {
	names, err := h.tables.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list_tables", "", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": names})
}

// Fetch handles POST /platform/v1/tables/:table/fetch
func (h *PlatformHandler) Fetch(c *gin.Context) {
	params, ok := h.bind(c)
	if !ok {
		return
	}
	table := c.Param("table")

	resp, err := h.client.FetchRecords(c.Request.Context(), table, params)
	if err != nil {
		h.internalError(c, "fetch", table, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID handles POST /platform/v1/tables/:table/records/:id
func (h *PlatformHandler) GetByID(c *gin.Context) {
	id, err := records.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, records.RecordResponse{Message: "id must be an integer"})
		return
	}
	params, ok := h.bind(c)
	if !ok {
		return
	}
	table := c.Param("table")

	resp, err := h.client.GetRecordByID(c.Request.Context(), table, id, params)
	if err != nil {
		h.internalError(c, "get", table, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create handles POST /platform/v1/tables/:table/create
func (h *PlatformHandler) Create(c *gin.Context) {
	h.mutate(c, "create", h.client.CreateRecord)
}

// Update handles POST /platform/v1/tables/:table/update
func (h *PlatformHandler) Update(c *gin.Context) {
	h.mutate(c, "update", h.client.UpdateRecord)
}

// Delete handles POST /platform/v1/tables/:table/delete
func (h *PlatformHandler) Delete(c *gin.Context) {
	h.mutate(c, "delete", h.client.DeleteRecord)
}

type mutationFunc func(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error)

func (h *PlatformHandler) mutate(c *gin.Context, op string, fn mutationFunc) {
	params, ok := h.bind(c)
	if !ok {
		return
	}
	table := c.Param("table")

	resp, err := fn(c.Request.Context(), table, params)
	if err != nil {
		h.internalError(c, op, table, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// bind decodes the request params; an empty body means no params
func (h *PlatformHandler) bind(c *gin.Context) (*records.Params, bool) {
	var params records.Params
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid params: " + err.Error()})
		return nil, false
	}
	return &params, true
}

func (h *PlatformHandler) internalError(c *gin.Context, op, table string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("table", table).Msg("Platform request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
}
