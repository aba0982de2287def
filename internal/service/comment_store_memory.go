package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/validation"
)

// DefaultMemoryLatency is the delay applied to every memory store call
const DefaultMemoryLatency = 500 * time.Millisecond

// MemoryCommentStore keeps comments in process memory, in insertion order.
// Each call is serialized, but sequences of calls are not atomic.
type MemoryCommentStore struct {
	mu        sync.Mutex
	comments  []*models.Comment
	latency   time.Duration
	now       func() time.Time
	validator *validation.Validator
}

// Ensure MemoryCommentStore implements CommentStore and ScoreSetter
var (
	_ CommentStore = (*MemoryCommentStore)(nil)
	_ ScoreSetter  = (*MemoryCommentStore)(nil)
)

// NewMemoryCommentStore creates an empty store; a negative latency means none
func NewMemoryCommentStore(latency time.Duration) *MemoryCommentStore {
	if latency < 0 {
		latency = 0
	}
	return &MemoryCommentStore{
		latency:   latency,
		now:       time.Now,
		validator: validation.NewValidator(),
	}
}

// delay simulates a round trip, returning early when ctx is done
func (s *MemoryCommentStore) delay(ctx context.Context) error {
	if s.latency == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// List returns copies of every comment
func (s *MemoryCommentStore) List(ctx context.Context) ([]*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		out = append(out, cloneComment(c))
	}
	return out, nil
}

// ListByPost returns copies of the comments of a post
func (s *MemoryCommentStore) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, cloneComment(c))
		}
	}
	return out, nil
}

// GetByID returns a copy of one comment
func (s *MemoryCommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return cloneComment(s.comments[i]), nil
	}
	return nil, ErrCommentNotFound
}

// Create appends a comment with Id one above the current maximum
func (s *MemoryCommentStore) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}
	if in == nil {
		in = &models.CommentInput{}
	}
	if err := validation.AsError(s.validator.ValidateLocalComment(in)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, c := range s.comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	author := strings.TrimSpace(in.AuthorName)
	if author == "" {
		author = models.DefaultCommentAuthor
	}

	c := &models.Comment{
		ID:         maxID + 1,
		Content:    strings.TrimSpace(in.Content),
		PostID:     in.PostID,
		AuthorID:   in.AuthorID,
		AuthorName: author,
		CreatedOn:  s.now().UTC(),
	}
	if in.ParentID != nil && *in.ParentID > 0 {
		parent := *in.ParentID
		c.ParentID = &parent
	}

	s.comments = append(s.comments, c)
	return cloneComment(c), nil
}

// Update applies the fields set in upd
func (s *MemoryCommentStore) Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	c := s.comments[i]
	if upd != nil {
		if upd.Content != nil {
			c.Content = strings.TrimSpace(*upd.Content)
		}
		if upd.Upvotes != nil {
			c.Upvotes = *upd.Upvotes
		}
		if upd.Downvotes != nil {
			c.Downvotes = *upd.Downvotes
		}
	}
	return cloneComment(c), nil
}

// Delete removes a comment and then, in a single pass, every comment whose
// parent it was. Replies to those replies are kept.
func (s *MemoryCommentStore) Delete(ctx context.Context, id int64) error {
	if err := s.delay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrCommentNotFound
	}
	s.comments = append(s.comments[:i], s.comments[i+1:]...)

	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			continue
		}
		kept = append(kept, c)
	}
	for j := len(kept); j < len(s.comments); j++ {
		s.comments[j] = nil
	}
	s.comments = kept
	return nil
}

// Vote increments one counter and moves the score by one. Unknown vote
// types change nothing.
func (s *MemoryCommentStore) Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	c := s.comments[i]
	switch voteType {
	case models.VoteUp:
		c.Upvotes++
		c.Score++
	case models.VoteDown:
		c.Downvotes++
		c.Score--
	}
	return cloneComment(c), nil
}

// UpdateScore overwrites the score of a comment
func (s *MemoryCommentStore) UpdateScore(ctx context.Context, id int64, score int) (*models.Comment, error) {
	if err := s.delay(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	s.comments[i].Score = score
	return cloneComment(s.comments[i]), nil
}

// indexOf must be called with mu held
func (s *MemoryCommentStore) indexOf(id int64) int {
	for i, c := range s.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneComment(c *models.Comment) *models.Comment {
	out := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		out.ParentID = &parent
	}
	return &out
}
