package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/community-records-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// ErrInvalid is matched by every Errors value
var ErrInvalid = errors.New("invalid input")

// MaxCommunityNameLength bounds community names
const MaxCommunityNameLength = 100

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of validation failures usable as an error
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalid) hold
func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// AsError returns nil for an empty list
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}

// Validator provides validation methods
type Validator struct {
	maxCommentLength int
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{maxCommentLength: models.MaxCommentLength}
}

// ValidateComment validates a comment bound for the record platform
func (v *Validator) ValidateComment(in *models.CommentInput) []ValidationError {
	var errs []ValidationError

	errs = append(errs, v.validateContent(in.Content)...)

	if in.PostID <= 0 {
		errs = append(errs, ValidationError{Field: "postId", Message: "postId is required", Value: in.PostID})
	}
	if in.AuthorID <= 0 {
		errs = append(errs, ValidationError{Field: "authorId", Message: "authorId is required", Value: in.AuthorID})
	}
	if strings.TrimSpace(in.AuthorName) == "" {
		errs = append(errs, ValidationError{Field: "authorName", Message: "authorName is required"})
	}

	return errs
}

// ValidateLocalComment validates a comment for the in-memory store, which
// only requires content and a post
func (v *Validator) ValidateLocalComment(in *models.CommentInput) []ValidationError {
	errs := v.validateContent(in.Content)
	if in.PostID <= 0 {
		errs = append(errs, ValidationError{Field: "postId", Message: "postId is required", Value: in.PostID})
	}
	return errs
}

func (v *Validator) validateContent(content string) []ValidationError {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []ValidationError{{Field: "content", Message: "Comment content is required"}}
	}
	if n := utf8.RuneCountInString(trimmed); n > v.maxCommentLength {
		return []ValidationError{{
			Field:   "content",
			Message: fmt.Sprintf("content exceeds maximum of %d characters (has %d)", v.maxCommentLength, n),
		}}
	}
	return nil
}

// ValidateCommunity validates a community create payload
func (v *Validator) ValidateCommunity(in *models.CommunityInput) []ValidationError {
	var errs []ValidationError

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > MaxCommunityNameLength {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name exceeds maximum of %d characters", MaxCommunityNameLength),
			Value:   in.Name,
		})
	}
	if in.Color != "" && !colorRegex.MatchString(in.Color) {
		errs = append(errs, ValidationError{Field: "color", Message: "color must be a hex value like #FF4500", Value: in.Color})
	}
	if in.MemberCount < 0 {
		errs = append(errs, ValidationError{Field: "memberCount", Message: "memberCount must not be negative", Value: in.MemberCount})
	}

	return errs
}

// ValidateCommunityUpdate validates the fields present in a sparse update
func (v *Validator) ValidateCommunityUpdate(in *models.CommunityUpdate) []ValidationError {
	var errs []ValidationError

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name must not be blank"})
	}
	if in.Color != nil && !colorRegex.MatchString(*in.Color) {
		errs = append(errs, ValidationError{Field: "color", Message: "color must be a hex value like #FF4500", Value: *in.Color})
	}
	if in.MemberCount != nil && *in.MemberCount < 0 {
		errs = append(errs, ValidationError{Field: "memberCount", Message: "memberCount must not be negative", Value: *in.MemberCount})
	}
	if in.PostCount != nil && *in.PostCount < 0 {
		errs = append(errs, ValidationError{Field: "postCount", Message: "postCount must not be negative", Value: *in.PostCount})
	}

	return errs
}

// ValidateUser validates the normalized name and email of a new user
func (v *Validator) ValidateUser(name, email string) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(name) == "" {
		errs = append(errs, ValidationError{Field: "Name", Message: "Name is required"})
	}
	if email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}

	return errs
}

// ValidateEmail validates an email supplied in an update
func (v *Validator) ValidateEmail(email string) []ValidationError {
	if !emailRegex.MatchString(email) {
		return []ValidationError{{Field: "email", Message: "invalid email format", Value: email}}
	}
	return nil
}
