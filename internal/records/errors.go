package records

import (
	"errors"
	"fmt"
	"strings"
)

// Typed errors for record platform calls.
// Callers use errors.Is to classify failures instead of matching strings.
var (
	// ErrClientUnavailable indicates the record client was never initialized
	ErrClientUnavailable = errors.New("record client not initialized")

	// ErrRejected indicates the call completed but the platform reported success=false
	ErrRejected = errors.New("rejected by record platform")

	// ErrNoResult indicates a mutation succeeded without returning a record
	ErrNoResult = errors.New("no result returned")

	// ErrNotFound indicates the platform answered 404
	ErrNotFound = errors.New("not found")

	// ErrBadRequest indicates the platform answered 400
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates the platform answered 401 or 403
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the platform answered 429
	ErrRateLimited = errors.New("rate limited")
)

// RejectedError carries the platform message of a response-level rejection
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrRejected.Error(), e.Message)
}

// Is makes errors.Is(err, ErrRejected) hold
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// BatchError reports the failed records of a batch mutation.
// Records that succeeded in the same batch are already committed.
type BatchError struct {
	Failed    []Result
	Succeeded int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d records failed: %s",
		len(e.Failed), len(e.Failed)+e.Succeeded, strings.Join(e.Messages(), "; "))
}

// Is makes errors.Is(err, ErrRejected) hold
func (e *BatchError) Is(target error) bool {
	return target == ErrRejected
}

// Messages returns the non-empty messages of the failed records
func (e *BatchError) Messages() []string {
	msgs := make([]string, 0, len(e.Failed))
	for _, r := range e.Failed {
		if r.Message != "" {
			msgs = append(msgs, r.Message)
			continue
		}
		for _, fe := range r.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.FieldLabel, fe.Message))
		}
	}
	return msgs
}

// Messages extracts user-facing messages from err: the platform message of a
// rejection or every per-record message of a batch failure.
func Messages(err error) []string {
	var batchErr *BatchError
	if errors.As(err, &batchErr) {
		return batchErr.Messages()
	}
	var rejErr *RejectedError
	if errors.As(err, &rejErr) && rejErr.Message != "" {
		return []string{rejErr.Message}
	}
	return nil
}

// IsRemote reports whether err came from the platform rather than local validation
func IsRemote(err error) bool {
	return errors.Is(err, ErrRejected) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRateLimited)
}
