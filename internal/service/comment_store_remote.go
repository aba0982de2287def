package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/validation"
)

// remoteCommentStore keeps comments in the comment_c platform table
type remoteCommentStore struct {
	client    records.Client
	validator *validation.Validator
}

// Ensure remoteCommentStore implements CommentStore
var _ CommentStore = (*remoteCommentStore)(nil)

// NewRemoteCommentStore creates a comment store backed by the record platform
func NewRemoteCommentStore(client records.Client) CommentStore {
	return &remoteCommentStore{
		client:    client,
		validator: validation.NewValidator(),
	}
}

// ListByPost returns the comments of a post, newest first
func (s *remoteCommentStore) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return s.fetch(ctx, []records.Condition{{
		FieldName: fieldCommentPost,
		Operator:  records.OpEqualTo,
		Values:    []any{postID},
	}})
}

// List returns every comment, newest first
func (s *remoteCommentStore) List(ctx context.Context) ([]*models.Comment, error) {
	return s.fetch(ctx, nil)
}

func (s *remoteCommentStore) fetch(ctx context.Context, where []records.Condition) ([]*models.Comment, error) {
	if s.client == nil {
		return nil, records.ErrClientUnavailable
	}

	resp, err := s.client.FetchRecords(ctx, commentTable, &records.Params{
		Fields:  records.Fields(commentFields...),
		Where:   where,
		OrderBy: []records.OrderBy{{FieldName: fieldCreatedOn, SortType: records.SortDesc}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	rows, err := records.CheckList(resp)
	if err != nil {
		return nil, err
	}
	return toComments(rows), nil
}

// GetByID returns a single comment
func (s *remoteCommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if s.client == nil {
		return nil, records.ErrClientUnavailable
	}

	resp, err := s.client.GetRecordByID(ctx, commentTable, id, &records.Params{
		Fields: records.Fields(commentFields...),
	})
	if errors.Is(err, records.ErrNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	rec, err := records.CheckRecord(resp)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrCommentNotFound
	}
	return toComment(rec), nil
}

// Create persists a comment with both vote counters at zero
func (s *remoteCommentStore) Create(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
	if s.client == nil {
		return nil, records.ErrClientUnavailable
	}
	if in == nil {
		in = &models.CommentInput{}
	}
	if err := validation.AsError(s.validator.ValidateComment(in)); err != nil {
		return nil, err
	}

	resp, err := s.client.CreateRecord(ctx, commentTable, &records.Params{
		Records: []records.Record{{
			fieldCommentContent:    strings.TrimSpace(in.Content),
			fieldCommentPost:       in.PostID,
			fieldCommentAuthor:     in.AuthorID,
			fieldCommentAuthorName: in.AuthorName,
			fieldCommentUpvotes:    0,
			fieldCommentDownvotes:  0,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	rec, err := records.FirstResult(resp)
	if err != nil {
		return nil, err
	}
	return toComment(rec), nil
}

// Update writes only the fields set in upd. An empty update still issues the
// call with the Id alone.
func (s *remoteCommentStore) Update(ctx context.Context, id int64, upd *models.CommentUpdate) (*models.Comment, error) {
	if s.client == nil {
		return nil, records.ErrClientUnavailable
	}

	rec := records.Record{records.IDField: id}
	if upd != nil {
		if upd.Content != nil {
			rec[fieldCommentContent] = *upd.Content
		}
		if upd.Upvotes != nil {
			rec[fieldCommentUpvotes] = *upd.Upvotes
		}
		if upd.Downvotes != nil {
			rec[fieldCommentDownvotes] = *upd.Downvotes
		}
	}

	resp, err := s.client.UpdateRecord(ctx, commentTable, &records.Params{Records: []records.Record{rec}})
	if err != nil {
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	updated, err := records.FirstResult(resp)
	if err != nil {
		return nil, err
	}
	return toComment(updated), nil
}

// Delete removes a comment
func (s *remoteCommentStore) Delete(ctx context.Context, id int64) error {
	if s.client == nil {
		return records.ErrClientUnavailable
	}

	resp, err := s.client.DeleteRecord(ctx, commentTable, &records.Params{RecordIDs: []int64{id}})
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return records.CheckDeleted(resp)
}

// Vote reads the comment and writes back one incremented counter. The two
// calls are not atomic; concurrent votes on one comment can lose updates.
func (s *remoteCommentStore) Vote(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	upd := &models.CommentUpdate{}
	switch voteType {
	case models.VoteUp:
		n := current.Upvotes + 1
		upd.Upvotes = &n
	case models.VoteDown:
		n := current.Downvotes + 1
		upd.Downvotes = &n
	}
	return s.Update(ctx, id, upd)
}
