package api

import (
	"net/http"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/notify"
	"github.com/community-records-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles user endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Listing users failed")
	}
	respondData(c, http.StatusOK, users)
}

// Search handles GET /v1/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.services.Users.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Warn().Err(err).Msg("User search failed")
	}
	respondData(c, http.StatusOK, users)
}

// Get handles GET /v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondData(c, http.StatusOK, user)
}

// Create handles POST /v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid user payload: "+err.Error())
		return
	}

	user, err := h.services.Users.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.UserCreateFailed))
		return
	}
	respondData(c, http.StatusCreated, user, notify.Success(notify.UserCreated))
}

// Update handles PATCH /v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var upd models.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid user update: "+err.Error())
		return
	}

	user, err := h.services.Users.Update(c.Request.Context(), id, &upd)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.UserUpdateFailed))
		return
	}
	respondData(c, http.StatusOK, user, notify.Success(notify.UserUpdated))
}

// Delete handles DELETE /v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.services.Users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.UserDeleteFailed))
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": deleted}, notify.Success(notify.UserDeleted))
}
