package service

import (
	"context"

	"github.com/community-records-api/internal/models"
)

// CommentStore is a comment backend. The remote store persists through the
// record platform; the memory store keeps a process-local thread.
type CommentStore interface {
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	List(ctx context.Context) ([]*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error)
	Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
	Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error)
}

// ScoreSetter is implemented by stores that keep a score independent of votes
type ScoreSetter interface {
	UpdateScore(ctx context.Context, id int64, score int) (*models.Comment, error)
}
