package service

import (
	"context"

	"github.com/community-records-api/internal/config"
	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/rs/zerolog"
)

// CommentService defines the interface for comment operations.
// List reads return an empty, non-nil slice alongside any error.
type CommentService interface {
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	List(ctx context.Context) ([]*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error)
	Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error)
	UpdateScore(ctx context.Context, id int64, score int) (*models.Comment, error)
	SupportsScores() bool
}

// CommunityService defines the interface for community operations
type CommunityService interface {
	Search(ctx context.Context, query string) ([]*models.CommunitySearchResult, error)
	List(ctx context.Context) ([]*models.Community, error)
	GetByID(ctx context.Context, id int64) (*models.Community, error)
	GetByName(ctx context.Context, name string) (*models.Community, error)
	Create(ctx context.Context, in *models.CommunityInput) (*models.Community, error)
	Update(ctx context.Context, id int64, upd *models.CommunityUpdate) (*models.Community, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserService defines the interface for user operations
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, in *models.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, query string) ([]*models.User, error)
}

// Services holds all service interfaces
type Services struct {
	Comments    CommentService
	Communities CommunityService
	Users       UserService
}

// NewServices creates all services over one record client. The comment
// backend is chosen by cfg.Comments.Backend.
func NewServices(client records.Client, cfg *config.Config, log zerolog.Logger) *Services {
	var store CommentStore
	if cfg != nil && cfg.Comments.Backend == config.CommentBackendMemory {
		store = NewMemoryCommentStore(cfg.Comments.Latency)
		log.Info().Dur("latency", cfg.Comments.Latency).Msg("Using in-memory comment store")
	} else {
		store = NewRemoteCommentStore(client)
	}

	return &Services{
		Comments:    NewCommentService(store, log),
		Communities: NewCommunityService(client, log),
		Users:       NewUserService(client, log),
	}
}
