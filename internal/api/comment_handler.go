package api

import (
	"errors"
	"net/http"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/notify"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListByPost handles GET /v1/posts/:post_id/comments.
// Failures are logged and answered with an empty list.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		return
	}

	comments, err := h.services.Comments.ListByPost(c.Request.Context(), postID)
	if err != nil {
		h.log.Warn().Err(err).Int64("post_id", postID).Msg("Listing comments failed")
	}
	respondData(c, http.StatusOK, comments)
}

// List handles GET /v1/comments
func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.services.Comments.List(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Listing comments failed")
	}
	respondData(c, http.StatusOK, comments)
}

// Get handles GET /v1/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	comment, err := h.services.Comments.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondData(c, http.StatusOK, comment)
}

// Create handles POST /v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var in models.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid comment payload: "+err.Error())
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), &in)
	if err != nil {
		notices := notify.Failure(err, notify.CommentCreateFailed)
		if errors.Is(err, records.ErrClientUnavailable) {
			notices = []notify.Notice{notify.Error(notify.CommentCreateBlocked)}
		}
		respondError(c, err, notices)
		return
	}
	respondData(c, http.StatusCreated, comment, notify.Success(notify.CommentCreated))
}

// Update handles PATCH /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var upd models.CommentUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, "invalid comment update: "+err.Error())
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), id, &upd)
	if err != nil {
		respondError(c, err, notify.Failure(err, notify.CommentUpdateFailed))
		return
	}
	respondData(c, http.StatusOK, comment, notify.Success(notify.CommentUpdated))
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.services.Comments.Delete(c.Request.Context(), id)
	if err != nil {
		notices := notify.Failure(err, notify.CommentDeleteFailed)
		switch {
		case errors.Is(err, records.ErrClientUnavailable):
			notices = []notify.Notice{notify.Error(notify.CommentDeleteBlocked)}
		case errors.Is(err, service.ErrNotFound):
			notices = []notify.Notice{notify.Error(notify.CommentNotFound)}
		}
		respondError(c, err, notices)
		return
	}
	respondData(c, http.StatusOK, gin.H{"deleted": deleted}, notify.Success(notify.CommentDeleted))
}

// voteRequest is the body of a vote
type voteRequest struct {
	VoteType models.VoteType `json:"voteType"`
}

// Vote handles POST /v1/comments/:id/vote
func (h *CommentHandler) Vote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid vote payload: "+err.Error())
		return
	}

	comment, err := h.services.Comments.Vote(c.Request.Context(), id, req.VoteType)
	if err != nil {
		notices := notify.Failure(err, notify.CommentVoteFailed)
		if errors.Is(err, service.ErrNotFound) {
			notices = []notify.Notice{notify.Error(notify.CommentNotFound)}
		}
		respondError(c, err, notices)
		return
	}
	respondData(c, http.StatusOK, comment)
}

// scoreRequest is the body of a score update
type scoreRequest struct {
	Score *int `json:"score"`
}

// UpdateScore handles PUT /v1/comments/:id/score
func (h *CommentHandler) UpdateScore(c *gin.Context) {
	if !h.services.Comments.SupportsScores() {
		respondError(c, service.ErrUnsupported, nil)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Score == nil {
		badRequest(c, "score is required")
		return
	}

	comment, err := h.services.Comments.UpdateScore(c.Request.Context(), id, *req.Score)
	if err != nil {
		notices := notify.Failure(err, notify.CommentUpdateFailed)
		if errors.Is(err, service.ErrNotFound) {
			notices = []notify.Notice{notify.Error(notify.CommentNotFound)}
		}
		respondError(c, err, notices)
		return
	}
	respondData(c, http.StatusOK, comment, notify.Success(notify.CommentScoreUpdated))
}
