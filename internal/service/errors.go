package service

import (
	"errors"
	"fmt"

	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/validation"
	"github.com/rs/zerolog"
)

// Service-level errors. Record platform failures are returned as the typed
// errors of the records package.
var (
	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is matched by every validation failure
	ErrInvalidInput = validation.ErrInvalid

	// ErrUnsupported indicates the configured backend lacks the capability
	ErrUnsupported = errors.New("operation not supported by backend")
)

// Not-found errors per entity
var (
	ErrCommentNotFound   = fmt.Errorf("comment %w", ErrNotFound)
	ErrCommunityNotFound = fmt.Errorf("community %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
)

// logFailure records a failed operation at the method boundary. Caller
// mistakes log at warn level.
func logFailure(log zerolog.Logger, err error, op, table string, id int64) {
	ev := log.Error()
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) {
		ev = log.Warn()
	}
	ev = ev.Err(err).Str("op", op).Str("table", table)
	if id > 0 {
		ev = ev.Int64("id", id)
	}
	if msgs := records.Messages(err); len(msgs) > 0 {
		ev = ev.Strs("messages", msgs)
	}
	ev.Msg("Operation failed")
}
