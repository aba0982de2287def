package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/validation"
	"github.com/rs/zerolog"
)

// userService is the concrete implementation of UserService
type userService struct {
	client    records.Client
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

// NewUserService creates a UserService over client
func NewUserService(client records.Client, log zerolog.Logger) UserService {
	return &userService{
		client:    client,
		validator: validation.NewValidator(),
		now:       time.Now,
		log:       log.With().Str("service", "user").Logger(),
	}
}

// List returns the newest users
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.fetch(ctx, "list", &records.Params{
		Fields:     records.Fields(userFields...),
		OrderBy:    []records.OrderBy{{FieldName: fieldUserCreatedAt, SortType: records.SortDesc}},
		PagingInfo: &records.PagingInfo{Limit: models.UserListLimit, Offset: 0},
	})
	if err != nil {
		return []*models.User{}, err
	}
	return toUsers(rows), nil
}

// Search matches the query against name and email, highest karma first
func (s *userService) Search(ctx context.Context, query string) ([]*models.User, error) {
	rows, err := s.fetch(ctx, "search", &records.Params{
		Fields:      records.Fields(userFields...),
		WhereGroups: []records.WhereGroup{records.ContainsAny(query, records.GroupOR, fieldName, fieldUserEmail)},
		OrderBy:     []records.OrderBy{{FieldName: fieldUserKarma, SortType: records.SortDesc}},
		PagingInfo:  &records.PagingInfo{Limit: models.UserSearchLimit, Offset: 0},
	})
	if err != nil {
		return []*models.User{}, err
	}
	return toUsers(rows), nil
}

// GetByID returns one user
func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "get", id)
	}

	resp, err := s.client.GetRecordByID(ctx, userTable, id, &records.Params{
		Fields: records.Fields(userFields...),
	})
	if errors.Is(err, records.ErrNotFound) {
		return nil, s.fail(ErrUserNotFound, "get", id)
	}
	if err != nil {
		return nil, s.fail(fmt.Errorf("get user %d: %w", id, err), "get", id)
	}
	rec, err := records.CheckRecord(resp)
	if err != nil {
		return nil, s.fail(err, "get", id)
	}
	if rec == nil {
		return nil, s.fail(ErrUserNotFound, "get", id)
	}
	return toUser(rec), nil
}

// Create persists a user. Platform field names take precedence over aliases.
func (s *userService) Create(ctx context.Context, in *models.UserInput) (*models.User, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "create", 0)
	}
	if in == nil {
		in = &models.UserInput{}
	}

	name := firstNonEmpty(in.Name, in.NameAlias)
	email := firstNonEmpty(in.Email, in.EmailAlias)
	if err := validation.AsError(s.validator.ValidateUser(name, email)); err != nil {
		return nil, s.fail(err, "create", 0)
	}

	resp, err := s.client.CreateRecord(ctx, userTable, &records.Params{
		Records: []records.Record{{
			fieldName:          name,
			fieldUserEmail:     email,
			fieldUserBio:       firstNonEmpty(in.Bio, in.BioAlias),
			fieldUserAvatar:    firstNonEmpty(in.Avatar, in.AvatarAlias),
			fieldUserCreatedAt: s.now().UTC().Format(time.RFC3339),
		}},
	})
	if err != nil {
		return nil, s.fail(fmt.Errorf("create user: %w", err), "create", 0)
	}
	rec, err := records.FirstResult(resp)
	if err != nil {
		return nil, s.fail(err, "create", 0)
	}

	user := toUser(rec)
	s.log.Info().Int64("id", user.ID).Msg("User created")
	return user, nil
}

// Update writes only the provided fields, each under its platform name
func (s *userService) Update(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "update", id)
	}

	rec := records.Record{records.IDField: id}
	if upd != nil {
		if v := firstSet(upd.Name, upd.NameAlias); v != nil {
			rec[fieldName] = *v
		}
		if v := firstSet(upd.Email, upd.EmailAlias); v != nil {
			if err := validation.AsError(s.validator.ValidateEmail(*v)); err != nil {
				return nil, s.fail(err, "update", id)
			}
			rec[fieldUserEmail] = *v
		}
		if v := firstSet(upd.Bio, upd.BioAlias); v != nil {
			rec[fieldUserBio] = *v
		}
		if v := firstSet(upd.Avatar, upd.AvatarAlias); v != nil {
			rec[fieldUserAvatar] = *v
		}
	}

	resp, err := s.client.UpdateRecord(ctx, userTable, &records.Params{Records: []records.Record{rec}})
	if err != nil {
		return nil, s.fail(fmt.Errorf("update user %d: %w", id, err), "update", id)
	}
	updated, err := records.FirstResult(resp)
	if err != nil {
		return nil, s.fail(err, "update", id)
	}
	return toUser(updated), nil
}

// Delete removes a user
func (s *userService) Delete(ctx context.Context, id int64) (bool, error) {
	if s.client == nil {
		return false, s.fail(records.ErrClientUnavailable, "delete", id)
	}

	resp, err := s.client.DeleteRecord(ctx, userTable, &records.Params{RecordIDs: []int64{id}})
	if err != nil {
		return false, s.fail(fmt.Errorf("delete user %d: %w", id, err), "delete", id)
	}
	if err := records.CheckDeleted(resp); err != nil {
		return false, s.fail(err, "delete", id)
	}
	s.log.Info().Int64("id", id).Msg("User deleted")
	return true, nil
}

func (s *userService) fetch(ctx context.Context, op string, params *records.Params) ([]records.Record, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, op, 0)
	}
	resp, err := s.client.FetchRecords(ctx, userTable, params)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch users: %w", err), op, 0)
	}
	rows, err := records.CheckList(resp)
	if err != nil {
		return nil, s.fail(err, op, 0)
	}
	return rows, nil
}

func (s *userService) fail(err error, op string, id int64) error {
	logFailure(s.log, err, op, userTable, id)
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstSet(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
