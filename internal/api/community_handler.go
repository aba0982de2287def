package api

import (
	"net/http"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/notify"
	"github.com/community-records-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommunityHandler handles community endpoints
type CommunityHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommunityHandler creates a new CommunityHandler
func NewCommunityHandler(services *service.Services, log zerolog.Logger) *CommunityHandler {
	return &CommunityHandler{
		services: services,
		log:      log.With().Str("handler", "community").Logger(),
	}
}

// Search handles GET /v1/communities/search?q=
func (h *CommunityHandler) Search(c *gin.Context) {
	results, err := h.services.Communities.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Warn().Err(err).Msg("Community search failed")
	}
	respondData(c, http.StatusOK, results)
}

// List handles GET /v1/communities
func (h *CommunityHandler) List(c *gin.Context) {
	communities, err := h.services.Communities.List(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Listing communities failed")
	}
	respondData(c, http.StatusOK, communities)
}

// Get handles GET /v1/communities/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	community, err := h.services.Communities.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondData(c, http.StatusOK, community)
}

// GetByName handles GET /v1/communities/by-name/:name
func (h *CommunityHandler) GetByName(c *gin.Context) {
	community, err := h.services.Communities.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondData(c, http.StatusOK, community)
}

// Create handles POST /v1/communities
func (h *CommunityHandler) Create(c *gin.Context) {
	var in models.CommunityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid community payload: "+err.Error())
		return
	}

	community, err := h.services.Communities.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.CommunityCreateFailed))
		return
	}
	respondData(c, http.StatusCreated, community, notify.Success(notify.CommunityCreated))
}

// Update handles PATCH /v1/communities/:id
func (h *CommunityHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var upd models.CommunityUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid community update: "+err.Error())
		return
	}

	community, err := h.services.Communities.Update(c.Request.Context(), id, &upd)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.CommunityUpdateFailed))
		return
	}
	respondData(c, http.StatusOK, community, notify.Success(notify.CommunityUpdated))
}

// Delete handles DELETE /v1/communities/:id
func (h *CommunityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.services.Communities.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.CommunityDeleteFailed))
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": deleted}, notify.Success(notify.CommunityDeleted))
}
