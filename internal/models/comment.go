package models

import (
	"time"
)

// Comment represents a comment attached to a post
type Comment struct {
	ID         int64     `json:"Id"`
	Content    string    `json:"content"`
	PostID     int64     `json:"postId"`
	AuthorID   int64     `json:"authorId,omitempty"`
	AuthorName string    `json:"authorName"`
	ParentID   *int64    `json:"parentId,omitempty"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
	Score      int       `json:"score"`
	CreatedOn  time.Time `json:"createdOn"`
}

// CommentInput is the payload for creating a comment
type CommentInput struct {
	Content    string `json:"content"`
	PostID     int64  `json:"postId"`
	AuthorID   int64  `json:"authorId"`
	AuthorName string `json:"authorName"`
	ParentID   *int64 `json:"parentId,omitempty"`
}

// CommentUpdate is a sparse comment update; nil fields are left untouched
type CommentUpdate struct {
	Content   *string `json:"content,omitempty"`
	Upvotes   *int    `json:"upvotes,omitempty"`
	Downvotes *int    `json:"downvotes,omitempty"`
}

// Empty reports whether the update changes nothing
func (u *CommentUpdate) Empty() bool {
	return u == nil || (u.Content == nil && u.Upvotes == nil && u.Downvotes == nil)
}

// VoteType selects the counter a vote increments
type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// DefaultCommentAuthor is used by the local comment store when no author is given
const DefaultCommentAuthor = "Anonymous"

// MaxCommentLength is the maximum allowed characters in a comment body
const MaxCommentLength = 10000
