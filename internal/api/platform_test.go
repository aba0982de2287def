package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/community-records-api/internal/api"
	"github.com/community-records-api/internal/config"
	"github.com/community-records-api/internal/mocks"
	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/repository"
	"github.com/community-records-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// platformServer serves the platform surface over a MockRecordClient and
// returns a records.Client talking to it over HTTP
func platformServer(t *testing.T) (records.Client, *mocks.MockRecordClient) {
	t.Helper()

	backing := mocks.NewMockRecordClient()
	repos := &repository.Repositories{
		Records: backing,
		Tables:  mocks.NewMockTableRepository("community_c", "comment_c", "user_c"),
	}
	router, _ := setupTestRouter(api.WithPlatform(repos))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client, err := records.NewHTTPClient(&config.RecordsConfig{
		BaseURL: srv.URL + "/platform/v1",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	return client, backing
}

func TestPlatform_ListTables(t *testing.T) {
	backing := mocks.NewMockRecordClient()
	router, _ := setupTestRouter(api.WithPlatform(&repository.Repositories{
		Records: backing,
		Tables:  mocks.NewMockTableRepository("user_c", "comment_c"),
	}))

	w, _ := do(t, router, http.MethodGet, "/platform/v1/tables", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"comment_c", "user_c"}, body.Data)
}

func TestPlatform_NotMountedByDefault(t *testing.T) {
	router, _ := setupTestRouter()

	w, _ := do(t, router, http.MethodGet, "/platform/v1/tables", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlatform_BadInput(t *testing.T) {
	router, _ := setupTestRouter(api.WithPlatform(&repository.Repositories{
		Records: mocks.NewMockRecordClient(),
		Tables:  mocks.NewMockTableRepository(),
	}))

	w, _ := do(t, router, http.MethodPost, "/platform/v1/tables/user_c/records/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/platform/v1/tables/user_c/fetch", nil)
	req.Body = http.NoBody
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlatform_InternalError(t *testing.T) {
	backing := mocks.NewMockRecordClient()
	backing.FetchFunc = func(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error) {
		return nil, errors.New("db down")
	}
	router, _ := setupTestRouter(api.WithPlatform(&repository.Repositories{
		Records: backing,
		Tables:  mocks.NewMockTableRepository(),
	}))

	w, _ := do(t, router, http.MethodPost, "/platform/v1/tables/user_c/fetch", map[string]any{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestPlatform_CommunityRoundTripOverHTTP(t *testing.T) {
	client, backing := platformServer(t)
	communities := service.NewCommunityService(client, zerolog.Nop())
	ctx := context.Background()

	created, err := communities.Create(ctx, &models.CommunityInput{Name: "gophers", Description: "all about go"})
	require.NoError(t, err)
	assert.Equal(t, models.CommunityKey(created.ID), created.Key)
	assert.Equal(t, models.DefaultCommunityColor, created.Color)
	assert.Equal(t, models.DefaultCommunityMemberCount, created.MemberCount)

	byName, err := communities.GetByName(ctx, "gophers")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = communities.GetByName(ctx, "rustaceans")
	assert.ErrorIs(t, err, service.ErrCommunityNotFound)

	got, err := communities.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "all about go", got.Description)

	deleted, err := communities.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, backing.Tables["community_c"])

	_, err = communities.Delete(ctx, created.ID)
	var batchErr *records.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, []string{"Record 1 not found"}, batchErr.Messages())
}

func TestPlatform_CommentVoteOverHTTP(t *testing.T) {
	client, backing := platformServer(t)
	comments := service.NewCommentService(service.NewRemoteCommentStore(client), zerolog.Nop())
	ctx := context.Background()

	c, err := comments.Create(ctx, &models.CommentInput{Content: "  hello  ", PostID: 7, AuthorID: 2, AuthorName: "ann"})
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Content)

	voted, err := comments.Vote(ctx, c.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Upvotes)
	assert.Equal(t, 1, voted.Score)

	list, err := comments.ListByPost(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ann", list[0].AuthorName)

	_, ok := backing.LastCall("update")
	assert.True(t, ok)
}
