package service

import (
	"context"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	store CommentStore
	log   zerolog.Logger
}

// NewCommentService creates a CommentService over store
func NewCommentService(store CommentStore, log zerolog.Logger) CommentService {
	return &commentService{
		store: store,
		log:   log.With().Str("service", "comment").Logger(),
	}
}

// ListByPost returns the comments of a post
func (s *commentService) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if s.store == nil {
		return []*models.Comment{}, s.fail(records.ErrClientUnavailable, "list_by_post", postID)
	}
	comments, err := s.store.ListByPost(ctx, postID)
	if err != nil {
		return []*models.Comment{}, s.fail(err, "list_by_post", postID)
	}
	return comments, nil
}

// List returns every comment
func (s *commentService) List(ctx context.Context) ([]*models.Comment, error) {
	if s.store == nil {
		return []*models.Comment{}, s.fail(records.ErrClientUnavailable, "list", 0)
	}
	comments, err := s.store.List(ctx)
	if err != nil {
		return []*models.Comment{}, s.fail(err, "list", 0)
	}
	return comments, nil
}

// GetByID returns one comment
func (s *commentService) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if s.store == nil {
		return nil, s.fail(records.ErrClientUnavailable, "get", id)
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(err, "get", id)
	}
	return c, nil
}

// Create adds a comment
func (s *commentService) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if s.store == nil {
		return nil, s.fail(records.ErrClientUnavailable, "create", 0)
	}
	c, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, s.fail(err, "create", 0)
	}
	s.log.Info().Int64("id", c.ID).Int64("post_id", c.PostID).Msg("Comment created")
	return c, nil
}

// Update applies a sparse update
func (s *commentService) Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error) {
	if s.store == nil {
		return nil, s.fail(records.ErrClientUnavailable, "update", id)
	}
	c, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return nil, s.fail(err, "update", id)
	}
	return c, nil
}

// Delete removes a comment
func (s *commentService) Delete(ctx context.Context, id int64) (bool, error) {
	if s.store == nil {
		return false, s.fail(records.ErrClientUnavailable, "delete", id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return false, s.fail(err, "delete", id)
	}
	s.log.Info().Int64("id", id).Msg("Comment deleted")
	return true, nil
}

// Vote records an upvote or downvote
func (s *commentService) Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
	if s.store == nil {
		return nil, s.fail(records.ErrClientUnavailable, "vote", id)
	}
	c, err := s.store.Vote(ctx, id, voteType)
	if err != nil {
		return nil, s.fail(err, "vote", id)
	}
	return c, nil
}

// UpdateScore sets the score on backends that keep one
func (s *commentService) UpdateScore(ctx context.Context, id int64, score int) (*models.Comment, error) {
	setter, ok := s.store.(ScoreSetter)
	if !ok {
		return nil, s.fail(ErrUnsupported, "update_score", id)
	}
	c, err := setter.UpdateScore(ctx, id, score)
	if err != nil {
		return nil, s.fail(err, "update_score", id)
	}
	return c, nil
}

// SupportsScores reports whether UpdateScore can succeed
func (s *commentService) SupportsScores() bool {
	_, ok := s.store.(ScoreSetter)
	return ok
}

func (s *commentService) fail(err error, op string, id int64) error {
	logFailure(s.log, err, op, commentTable, id)
	return err
}
