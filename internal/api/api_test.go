package api_test

import (
	"bytes"
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
	"github.com/community-records-api/internal/service"
	"github.com/community-records-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	comments    *mocks.MockCommentService
	communities *mocks.MockCommunityService
	users       *mocks.MockUserService
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Redis:  config.RedisConfig{RateLimit: 2, Window: time.Minute},
	}
}

func setupTestRouter(opts ...api.Option) (*gin.Engine, *testServices) {
	gin.SetMode(gin.TestMode)

	ts := &testServices{
		comments:    mocks.NewMockCommentService(),
		communities: mocks.NewMockCommunityService(),
		users:       mocks.NewMockUserService(),
	}
	services := &service.Services{
		Comments:    ts.comments,
		Communities: ts.communities,
		Users:       ts.users,
	}

	router := api.NewRouter(services, testConfig(), zerolog.Nop(), opts...)
	return router, ts
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Notices []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notices"`
	Details []validation.ValidationError `json:"details"`
}

func do(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w, _ := do(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "community-records-api", response["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestHealthEndpoint_Unhealthy(t *testing.T) {
	router, _ := setupTestRouter(api.WithHealthCheck(func(ctx context.Context) error {
		return errors.New("db down")
	}))

	w, _ := do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	do(t, router, http.MethodGet, "/v1/communities", nil)
	w, _ := do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter()

	w, _ := do(t, router, http.MethodOptions, "/v1/comments/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestListByPost_EmptyOnError(t *testing.T) {
	router, ts := setupTestRouter()
	ts.comments.ListByPostFunc = func(ctx context.Context, postID int64) ([]*models.Comment, error) {
		return []*models.Comment{}, records.ErrClientUnavailable
	}

	w, env := do(t, router, http.MethodGet, "/v1/posts/5/comments", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestListByPost_BadID(t *testing.T) {
	router, _ := setupTestRouter()

	w, env := do(t, router, http.MethodGet, "/v1/posts/abc/comments", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "post_id")
}

func TestCreateComment(t *testing.T) {
	router, ts := setupTestRouter()

	w, env := do(t, router, http.MethodPost, "/v1/comments", map[string]any{
		"content": "hi", "postId": 3, "authorId": 4, "authorName": "ann",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, env.Notices, 1)
	assert.Equal(t, "success", env.Notices[0].Level)
	assert.Equal(t, "Comment added successfully", env.Notices[0].Message)

	require.Len(t, ts.comments.Created, 1)
	assert.Equal(t, int64(3), ts.comments.Created[0].PostID)
	assert.Equal(t, int64(4), ts.comments.Created[0].AuthorID)
}

func TestCreateComment_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantNotice []string
	}{
		{
			name:       "client unavailable",
			err:        records.ErrClientUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantNotice: []string{"Unable to create comment"},
		},
		{
			name: "batch failure",
			err: &records.BatchError{Failed: []records.Result{
				{Message: "content too long"}, {Message: "post missing"},
			}},
			wantStatus: http.StatusBadGateway,
			wantNotice: []string{"content too long", "post missing"},
		},
		{
			name:       "validation",
			err:        validation.Errors{{Field: "content", Message: "Comment content is required"}},
			wantStatus: http.StatusBadRequest,
			wantNotice: []string{"Comment content is required"},
		},
		{
			name:       "transport",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantNotice: []string{"Failed to create comment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ts := setupTestRouter()
			ts.comments.CreateFunc = func(ctx context.Context, in *models.CommentInput) (*models.Comment, error) {
				return nil, tt.err
			}

			w, env := do(t, router, http.MethodPost, "/v1/comments", map[string]any{"content": "x", "postId": 1})
			assert.Equal(t, tt.wantStatus, w.Code)

			var got []string
			for _, n := range env.Notices {
				assert.Equal(t, "error", n.Level)
				got = append(got, n.Message)
			}
			assert.Equal(t, tt.wantNotice, got)
		})
	}
}

func TestCreateComment_InvalidJSON(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/comments", bytes.NewBufferString("{bad"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteComment(t *testing.T) {
	router, ts := setupTestRouter()
	var gotType models.VoteType
	ts.comments.VoteFunc = func(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
		gotType = voteType
		return &models.Comment{ID: id, Upvotes: 1, Score: 1}, nil
	}

	w, env := do(t, router, http.MethodPost, "/v1/comments/8/vote", map[string]string{"voteType": "upvote"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.VoteUp, gotType)
	assert.Empty(t, env.Notices)

	var c models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, int64(8), c.ID)
	assert.Equal(t, 1, c.Upvotes)
}

func TestVoteComment_NotFound(t *testing.T) {
	router, ts := setupTestRouter()
	ts.comments.VoteFunc = func(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
		return nil, service.ErrCommentNotFound
	}

	w, env := do(t, router, http.MethodPost, "/v1/comments/8/vote", map[string]string{"voteType": "upvote"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, env.Notices, 1)
	assert.Equal(t, "Comment not found", env.Notices[0].Message)
}

func TestVoteComment_Failure(t *testing.T) {
	router, ts := setupTestRouter()
	ts.comments.VoteFunc = func(ctx context.Context, id int64, voteType models.VoteType) (*models.Comment, error) {
		return nil, errors.New("boom")
	}

	_, env := do(t, router, http.MethodPost, "/v1/comments/8/vote", map[string]string{"voteType": "downvote"})
	require.Len(t, env.Notices, 1)
	assert.Equal(t, "Failed to vote on comment", env.Notices[0].Message)
}

func TestDeleteComment(t *testing.T) {
	router, _ := setupTestRouter()

	w, env := do(t, router, http.MethodDelete, "/v1/comments/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted": true}`, string(env.Data))
	assert.Equal(t, "Comment deleted successfully", env.Notices[0].Message)
}

func TestUpdateScore(t *testing.T) {
	router, ts := setupTestRouter()

	w, _ := do(t, router, http.MethodPut, "/v1/comments/2/score", map[string]int{"score": 5})
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	ts.comments.Scores = true
	w, env := do(t, router, http.MethodPut, "/v1/comments/2/score", map[string]int{"score": 5})
	require.Equal(t, http.StatusOK, w.Code)
	var c models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, 5, c.Score)

	w, _ = do(t, router, http.MethodPut, "/v1/comments/2/score", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunitySearch(t *testing.T) {
	router, ts := setupTestRouter()
	var gotQuery string
	ts.communities.SearchFunc = func(ctx context.Context, query string) ([]*models.CommunitySearchResult, error) {
		gotQuery = query
		return []*models.CommunitySearchResult{{
			Community: &models.Community{ID: 1, Key: "community_1", Name: "gophers"},
			Snippet:   "all about go",
		}}, nil
	}

	w, env := do(t, router, http.MethodGet, "/v1/communities/search?q=go", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "go", gotQuery)

	var results []models.CommunitySearchResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "all about go", results[0].Snippet)
	assert.Equal(t, "community_1", results[0].Community.Key)
}

func TestCommunityByName(t *testing.T) {
	router, ts := setupTestRouter()
	ts.communities.GetByNameFunc = func(ctx context.Context, name string) (*models.Community, error) {
		if name == "gophers" {
			return &models.Community{ID: 2, Key: "community_2", Name: name}, nil
		}
		return nil, service.ErrCommunityNotFound
	}

	w, _ := do(t, router, http.MethodGet, "/v1/communities/by-name/gophers", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, router, http.MethodGet, "/v1/communities/by-name/rustaceans", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommunityCreateNotices(t *testing.T) {
	router, _ := setupTestRouter()

	w, env := do(t, router, http.MethodPost, "/v1/communities", map[string]any{"name": "gophers"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Community created successfully", env.Notices[0].Message)
}

func TestCommunityUpdate_ValidationDetails(t *testing.T) {
	router, ts := setupTestRouter()
	ts.communities.UpdateFunc = func(ctx context.Context, id int64, upd *models.CommunityUpdate) (*models.Community, error) {
		return nil, validation.Errors{{Field: "color", Message: "color must be a hex value like #FF4500"}}
	}

	w, env := do(t, router, http.MethodPatch, "/v1/communities/3", map[string]any{"color": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, env.Details, 1)
	assert.Equal(t, "color", env.Details[0].Field)
}

func TestUserEndpoints(t *testing.T) {
	router, ts := setupTestRouter()
	var gotUpdate *models.UserUpdate
	ts.users.UpdateFunc = func(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
		gotUpdate = upd
		return &models.User{ID: id, Bio: "hi"}, nil
	}

	w, env := do(t, router, http.MethodPatch, "/v1/users/3", map[string]string{"bio": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotUpdate.BioAlias)
	assert.Equal(t, "hi", *gotUpdate.BioAlias)
	assert.Nil(t, gotUpdate.Bio)
	assert.Equal(t, "User updated successfully", env.Notices[0].Message)

	w, _ = do(t, router, http.MethodGet, "/v1/users/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = do(t, router, http.MethodGet, "/v1/users/search?q=ann", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

// fakeCounter implements api.RateCounter in memory
type fakeCounter struct {
	counts  map[string]int64
	expires int
	err     error
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires++
	return redis.NewBoolResult(true, nil)
}

func TestRateLimiter(t *testing.T) {
	counter := &fakeCounter{}
	router, _ := setupTestRouter(api.WithRateLimiter(counter))

	for i := 0; i < 2; i++ {
		w, _ := do(t, router, http.MethodGet, "/v1/communities", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := do(t, router, http.MethodGet, "/v1/communities", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, 1, counter.expires)

	w, _ = do(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_RedisDownLetsRequestsThrough(t *testing.T) {
	router, _ := setupTestRouter(api.WithRateLimiter(&fakeCounter{err: errors.New("redis down")}))

	for i := 0; i < 5; i++ {
		w, _ := do(t, router, http.MethodGet, "/v1/communities", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	router, ts := setupTestRouter()
	ts.users.ListFunc = func(ctx context.Context) ([]*models.User, error) {
		panic("boom")
	}

	w, _ := do(t, router, http.MethodGet, "/v1/users", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
