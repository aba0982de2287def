// Package notify turns service outcomes into user-facing notices attached to
// API responses. Services never notify on their own.
package notify

import (
	"errors"

	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/validation"
)

// Level is the severity of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a short message meant for display to the end user
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Success builds a success notice
func Success(msg string) Notice {
	return Notice{Level: LevelSuccess, Message: msg}
}

// Error builds an error notice
func Error(msg string) Notice {
	return Notice{Level: LevelError, Message: msg}
}

// Failure describes err as one or more error notices. Validation messages,
// per-record batch messages and platform rejection messages are surfaced as
// they are; anything else falls back to the given message.
func Failure(err error, fallback string) []Notice {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.Message)
		}
		return errorNotices(msgs)
	}

	if msgs := records.Messages(err); len(msgs) > 0 {
		return errorNotices(msgs)
	}
	return []Notice{Error(fallback)}
}

func errorNotices(msgs []string) []Notice {
	out := make([]Notice, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Error(m))
	}
	return out
}

// Messages shown for entity operations
const (
	CommentCreated       = "Comment added successfully"
	CommentUpdated       = "Comment updated successfully"
	CommentDeleted       = "Comment deleted successfully"
	CommentCreateFailed  = "Failed to create comment"
	CommentCreateBlocked = "Unable to create comment"
	CommentUpdateFailed  = "Failed to update comment"
	CommentDeleteFailed  = "Failed to delete comment"
	CommentDeleteBlocked = "Unable to delete comment"
	CommentNotFound      = "Comment not found"
	CommentVoteFailed    = "Failed to vote on comment"
	CommentScoreUpdated  = "Score updated"

	CommunityCreated      = "Community created successfully"
	CommunityUpdated      = "Community updated successfully"
	CommunityDeleted      = "Community deleted successfully"
	CommunityCreateFailed = "Failed to create community"
	CommunityUpdateFailed = "Failed to update community"
	CommunityDeleteFailed = "Failed to delete community"

	UserCreated      = "User created successfully"
	UserUpdated      = "User updated successfully"
	UserDeleted      = "User deleted successfully"
	UserCreateFailed = "Failed to create user"
	UserUpdateFailed = "Failed to update user"
	UserDeleteFailed = "Failed to delete user"
)
