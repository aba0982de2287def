package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/community-records-api/internal/mocks"
	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunityService_SearchBlankSkipsClient(t *testing.T) {
	client := mocks.NewMockRecordClient()
	svc := service.NewCommunityService(client, zerolog.Nop())

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
	assert.Empty(t, client.Calls)
}

func TestCommunityService_SearchParams(t *testing.T) {
	client := mocks.NewMockRecordClient()
	svc := service.NewCommunityService(client, zerolog.Nop())

	_, err := svc.Search(context.Background(), "  GoLang ")
	require.NoError(t, err)

	call, ok := client.LastCall("fetch")
	require.True(t, ok)
	assert.Equal(t, "community_c", call.Table)
	require.Len(t, call.Params.WhereGroups, 1)
	group := call.Params.WhereGroups[0]
	assert.Equal(t, records.GroupOR, group.Operator)
	require.Len(t, group.SubGroups, 3)

	var fields []string
	for _, sub := range group.SubGroups {
		require.Len(t, sub.Conditions, 1)
		assert.Equal(t, records.OpContains, sub.Conditions[0].Operator)
		assert.Equal(t, []any{"golang"}, sub.Conditions[0].Values)
		fields = append(fields, sub.Conditions[0].FieldName)
	}
	assert.Equal(t, []string{"name_c", "description_c", "category_c"}, fields)
}

func TestCommunityService_SearchSnippets(t *testing.T) {
	desc := "..." + strings.Repeat("x", 37) + "QUERY" + strings.Repeat("x", 37)
	long := strings.Repeat("a", 60) + "Query" + strings.Repeat("b", 60)

	client := mocks.NewMockRecordClient()
	client.FetchFunc = func(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error) {
		return &records.ListResponse{Success: true, Data: []records.Record{
			{"Id": 1, "name_c": "one", "description_c": desc, "category_c": "misc"},
			{"Id": 2, "name_c": "two", "description_c": long, "category_c": "misc"},
			{"Id": 3, "name_c": "three", "description_c": "nothing here", "category_c": "Query Land"},
			{"Id": 4, "name_c": "query fans", "description_c": "no match", "category_c": "misc"},
		}}, nil
	}
	svc := service.NewCommunityService(client, zerolog.Nop())

	results, err := svc.Search(context.Background(), "query")
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, desc, results[0].Snippet)
	assert.Equal(t, strings.Repeat("a", 40)+"Query"+strings.Repeat("b", 40), results[1].Snippet)
	assert.Equal(t, "Category: Query Land", results[2].Snippet)
	assert.Equal(t, "", results[3].Snippet)

	assert.Equal(t, "community_1", results[0].Community.Key)
	assert.Equal(t, models.DefaultCommunityColor, results[0].Community.Color)
}

func TestCommunityService_RoundTripWithDefaults(t *testing.T) {
	client := mocks.NewMockRecordClient()
	svc := service.NewCommunityService(client, zerolog.Nop())
	ctx := context.Background()

	in := &models.CommunityInput{Name: "gophers", Description: "all things Go"}
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.Equal(t, "gophers", got.Name)
	assert.Equal(t, "all things Go", got.Description)
	assert.Equal(t, "community_1", got.Key)
	assert.Equal(t, "#FF4500", got.Color)
	assert.Equal(t, 1, got.MemberCount)
	assert.Equal(t, 0, got.PostCount)
	assert.Equal(t, "general", got.Category)

	call, _ := client.LastCall("create")
	rec := call.Params.Records[0]
	assert.Equal(t, "gophers", rec["Name"])
	assert.Equal(t, "gophers", rec["name_c"])
}

func TestCommunityService_CreateValidates(t *testing.T) {
	client := mocks.NewMockRecordClient()
	svc := service.NewCommunityService(client, zerolog.Nop())

	c, err := svc.Create(context.Background(), &models.CommunityInput{Name: " ", Color: "red"})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Empty(t, client.CallsTo("create"))
}

func TestCommunityService_UpdateIsSparse(t *testing.T) {
	client := mocks.NewMockRecordClient()
	svc := service.NewCommunityService(client, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.CommunityInput{Name: "old", Description: "d"})
	require.NoError(t, err)

	name := "new"
	posts := 12
	updated, err := svc.Update(ctx, created.ID, &models.CommunityUpdate{Name: &name, PostCount: &posts})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Name)
	assert.Equal(t, 12, updated.PostCount)
	assert.Equal(t, "d", updated.Description)

	call, _ := client.LastCall("update")
	assert.Equal(t, records.Record{
		"Id":           created.ID,
		"Name":         "new",
		"name_c":       "new",
		"post_count_c": 12,
	}, call.Params.Records[0])
}

func TestCommunityService_GetByName(t *testing.T) {
	client := mocks.NewMockRecordClient()
	client.Seed("community_c", records.Record{"name_c": "rust", "color_c": "#000000"})
	svc := service.NewCommunityService(client, zerolog.Nop())
	ctx := context.Background()

	c, err := svc.GetByName(ctx, "rust")
	require.NoError(t, err)
	assert.Equal(t, "rust", c.Name)
	assert.Equal(t, "#000000", c.Color)

	call, _ := client.LastCall("fetch")
	assert.Equal(t, &records.PagingInfo{Limit: 1, Offset: 0}, call.Params.PagingInfo)
	assert.Equal(t, "name_c", call.Params.Where[0].FieldName)

	c, err = svc.GetByName(ctx, "zig")
	assert.Nil(t, c)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommunityService_GetByIDMissing(t *testing.T) {
	svc := service.NewCommunityService(mocks.NewMockRecordClient(), zerolog.Nop())

	c, err := svc.GetByID(context.Background(), 404)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, service.ErrCommunityNotFound)
}

func TestCommunityService_DeleteAndNilClient(t *testing.T) {
	client := mocks.NewMockRecordClient()
	id := client.Seed("community_c", records.Record{"name_c": "tmp"})
	svc := service.NewCommunityService(client, zerolog.Nop())

	ok, err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)

	nilSvc := service.NewCommunityService(nil, zerolog.Nop())
	ok, err = nilSvc.Delete(context.Background(), id)
	assert.False(t, ok)
	assert.ErrorIs(t, err, records.ErrClientUnavailable)

	list, err := nilSvc.List(context.Background())
	assert.ErrorIs(t, err, records.ErrClientUnavailable)
	assert.NotNil(t, list)

	results, err := nilSvc.Search(context.Background(), "x")
	assert.ErrorIs(t, err, records.ErrClientUnavailable)
	assert.NotNil(t, results)
}
