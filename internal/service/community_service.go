package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/validation"
	"github.com/rs/zerolog"
)

// communityService is the concrete implementation of CommunityService
type communityService struct {
	client    records.Client
	validator *validation.Validator
	log       zerolog.Logger
}

// NewCommunityService creates a CommunityService over client
func NewCommunityService(client records.Client, log zerolog.Logger) CommunityService {
	return &communityService{
		client:    client,
		validator: validation.NewValidator(),
		log:       log.With().Str("service", "community").Logger(),
	}
}

// Search matches the term against name, description and category. A blank
// query returns no results without calling the platform.
func (s *communityService) Search(ctx context.Context, query string) ([]*models.CommunitySearchResult, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []*models.CommunitySearchResult{}, nil
	}

	rows, err := s.fetch(ctx, "search", &records.Params{
		Fields: records.Fields(communityFields...),
		WhereGroups: []records.WhereGroup{
			records.ContainsAny(term, "", fieldCommunityName, fieldCommunityDescription, fieldCommunityCategory),
		},
	})
	if err != nil {
		return []*models.CommunitySearchResult{}, err
	}

	results := make([]*models.CommunitySearchResult, 0, len(rows))
	for _, rec := range rows {
		results = append(results, &models.CommunitySearchResult{
			Community: toCommunity(rec),
			Snippet: communitySnippet(
				rec.String(fieldCommunityDescription),
				rec.String(fieldCommunityCategory),
				term,
			),
		})
	}
	return results, nil
}

// List returns every community
func (s *communityService) List(ctx context.Context) ([]*models.Community, error) {
	rows, err := s.fetch(ctx, "list", &records.Params{Fields: records.Fields(communityFields...)})
	if err != nil {
		return []*models.Community{}, err
	}
	return toCommunities(rows), nil
}

// GetByID returns one community
func (s *communityService) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "get", id)
	}

	resp, err := s.client.GetRecordByID(ctx, communityTable, id, &records.Params{
		Fields: records.Fields(communityFields...),
	})
	if errors.Is(err, records.ErrNotFound) {
		return nil, s.fail(ErrCommunityNotFound, "get", id)
	}
	if err != nil {
		return nil, s.fail(fmt.Errorf("get community %d: %w", id, err), "get", id)
	}
	rec, err := records.CheckRecord(resp)
	if err != nil {
		return nil, s.fail(err, "get", id)
	}
	if rec == nil {
		return nil, s.fail(ErrCommunityNotFound, "get", id)
	}
	return toCommunity(rec), nil
}

// GetByName returns the first community whose name matches exactly
func (s *communityService) GetByName(ctx context.Context, name string) (*models.Community, error) {
	rows, err := s.fetch(ctx, "get_by_name", &records.Params{
		Fields: records.Fields(communityFields...),
		Where: []records.Condition{{
			FieldName: fieldCommunityName,
			Operator:  records.OpEqualTo,
			Values:    []any{name},
		}},
		PagingInfo: &records.PagingInfo{Limit: 1, Offset: 0},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrCommunityNotFound
	}
	return toCommunity(rows[0]), nil
}

// Create persists a community, applying defaults for omitted fields
func (s *communityService) Create(ctx context.Context, in *models.CommunityInput) (*models.Community, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "create", 0)
	}
	if in == nil {
		in = &models.CommunityInput{}
	}
	if err := validation.AsError(s.validator.ValidateCommunity(in)); err != nil {
		return nil, s.fail(err, "create", 0)
	}

	members := in.MemberCount
	if members == 0 {
		members = models.DefaultCommunityMemberCount
	}
	color := in.Color
	if color == "" {
		color = models.DefaultCommunityColor
	}
	category := in.Category
	if category == "" {
		category = models.DefaultCommunityCategory
	}

	resp, err := s.client.CreateRecord(ctx, communityTable, &records.Params{
		Records: []records.Record{{
			fieldName:                 in.Name,
			fieldCommunityName:        in.Name,
			fieldCommunityDescription: in.Description,
			fieldCommunityMembers:     members,
			fieldCommunityColor:       color,
			fieldCommunityCategory:    category,
			fieldCommunityPosts:       0,
		}},
	})
	if err != nil {
		return nil, s.fail(fmt.Errorf("create community: %w", err), "create", 0)
	}
	rec, err := records.FirstResult(resp)
	if err != nil {
		return nil, s.fail(err, "create", 0)
	}

	community := toCommunity(rec)
	s.log.Info().Int64("id", community.ID).Str("name", community.Name).Msg("Community created")
	return community, nil
}

// Update writes only the fields set in upd; a name change sets both name columns
func (s *communityService) Update(ctx context.Context, id int64, upd *models.CommunityUpdate) (*models.Community, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, "update", id)
	}

	rec := records.Record{records.IDField: id}
	if upd != nil {
		if err := validation.AsError(s.validator.ValidateCommunityUpdate(upd)); err != nil {
			return nil, s.fail(err, "update", id)
		}
		if upd.Name != nil {
			rec[fieldName] = *upd.Name
			rec[fieldCommunityName] = *upd.Name
		}
		if upd.Description != nil {
			rec[fieldCommunityDescription] = *upd.Description
		}
		if upd.MemberCount != nil {
			rec[fieldCommunityMembers] = *upd.MemberCount
		}
		if upd.Color != nil {
			rec[fieldCommunityColor] = *upd.Color
		}
		if upd.Category != nil {
			rec[fieldCommunityCategory] = *upd.Category
		}
		if upd.PostCount != nil {
			rec[fieldCommunityPosts] = *upd.PostCount
		}
	}

	resp, err := s.client.UpdateRecord(ctx, communityTable, &records.Params{Records: []records.Record{rec}})
	if err != nil {
		return nil, s.fail(fmt.Errorf("update community %d: %w", id, err), "update", id)
	}
	updated, err := records.FirstResult(resp)
	if err != nil {
		return nil, s.fail(err, "update", id)
	}
	return toCommunity(updated), nil
}

// Delete removes a community
func (s *communityService) Delete(ctx context.Context, id int64) (bool, error) {
	if s.client == nil {
		return false, s.fail(records.ErrClientUnavailable, "delete", id)
	}

	resp, err := s.client.DeleteRecord(ctx, communityTable, &records.Params{RecordIDs: []int64{id}})
	if err != nil {
		return false, s.fail(fmt.Errorf("delete community %d: %w", id, err), "delete", id)
	}
	if err := records.CheckDeleted(resp); err != nil {
		return false, s.fail(err, "delete", id)
	}
	s.log.Info().Int64("id", id).Msg("Community deleted")
	return true, nil
}

func (s *communityService) fetch(ctx context.Context, op string, params *records.Params) ([]records.Record, error) {
	if s.client == nil {
		return nil, s.fail(records.ErrClientUnavailable, op, 0)
	}
	resp, err := s.client.FetchRecords(ctx, communityTable, params)
	if err != nil {
		return nil, s.fail(fmt.Errorf("fetch communities: %w", err), op, 0)
	}
	rows, err := records.CheckList(resp)
	if err != nil {
		return nil, s.fail(err, op, 0)
	}
	return rows, nil
}

func (s *communityService) fail(err error, op string, id int64) error {
	logFailure(s.log, err, op, communityTable, id)
	return err
}
