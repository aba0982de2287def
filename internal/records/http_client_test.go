package records_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/community-records-api/internal/config"
	"github.com/community-records-api/internal/records"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Params  records.Params
}

func newTestClient(t *testing.T, status int, body string) (records.Client, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Params)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := records.NewHTTPClient(&config.RecordsConfig{
		BaseURL:   srv.URL + "/api/",
		APIKey:    "secret",
		ProjectID: "proj-1",
		Timeout:   5 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	return client, captured
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := records.NewHTTPClient(&config.RecordsConfig{BaseURL: "  "}, zerolog.Nop())
	assert.Error(t, err)
}

func TestHTTPClient_FetchRecords(t *testing.T) {
	client, req := newTestClient(t, http.StatusOK, `{"success":true,"data":[{"Id":1,"Name":"ann"}],"total":1}`)

	resp, err := client.FetchRecords(context.Background(), "user_c", &records.Params{
		Fields:     records.Fields("Name"),
		PagingInfo: &records.PagingInfo{Limit: 20},
	})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "ann", resp.Data[0].String("Name"))

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/tables/user_c/fetch", req.Path)
	assert.Equal(t, "Bearer secret", req.Headers.Get("Authorization"))
	assert.Equal(t, "proj-1", req.Headers.Get("X-Project-Id"))
	assert.Equal(t, []string{"Name"}, req.Params.FieldNames())
	assert.Equal(t, 20, req.Params.PagingInfo.Limit)
}

func TestHTTPClient_Paths(t *testing.T) {
	tests := []struct {
		name string
		call func(c records.Client) error
		path string
	}{
		{
			name: "get by id",
			call: func(c records.Client) error {
				_, err := c.GetRecordByID(context.Background(), "comment_c", 42, nil)
				return err
			},
			path: "/api/tables/comment_c/records/42",
		},
		{
			name: "create",
			call: func(c records.Client) error {
				_, err := c.CreateRecord(context.Background(), "comment_c", &records.Params{Records: []records.Record{{"content_c": "hi"}}})
				return err
			},
			path: "/api/tables/comment_c/create",
		},
		{
			name: "update",
			call: func(c records.Client) error {
				_, err := c.UpdateRecord(context.Background(), "comment_c", &records.Params{Records: []records.Record{{"Id": 1}}})
				return err
			},
			path: "/api/tables/comment_c/update",
		},
		{
			name: "delete",
			call: func(c records.Client) error {
				_, err := c.DeleteRecord(context.Background(), "comment_c", &records.Params{RecordIDs: []int64{1}})
				return err
			},
			path: "/api/tables/comment_c/delete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, req := newTestClient(t, http.StatusOK, `{"success":true}`)
			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.path, req.Path)
		})
	}
}

func TestHTTPClient_DeleteSendsRecordIds(t *testing.T) {
	client, req := newTestClient(t, http.StatusOK, `{"success":true,"results":[{"success":true}]}`)

	resp, err := client.DeleteRecord(context.Background(), "user_c", &records.Params{RecordIDs: []int64{3, 4}})
	require.NoError(t, err)
	assert.NoError(t, records.CheckDeleted(resp))
	assert.Equal(t, []int64{3, 4}, req.Params.RecordIDs)
}

func TestHTTPClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		wantErr error
	}{
		{http.StatusBadRequest, `{"message":"bad where"}`, records.ErrBadRequest},
		{http.StatusUnauthorized, `{}`, records.ErrUnauthorized},
		{http.StatusForbidden, `{}`, records.ErrUnauthorized},
		{http.StatusNotFound, `{"error":"no such table"}`, records.ErrNotFound},
		{http.StatusTooManyRequests, `slow down`, records.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, tt.status, tt.body)
			_, err := client.FetchRecords(context.Background(), "user_c", nil)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, records.IsRemote(err))
		})
	}
}

func TestHTTPClient_ServerErrorAndBadJSON(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError, `{"message":"db down"}`)
	_, err := client.FetchRecords(context.Background(), "user_c", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.False(t, records.IsRemote(err))

	client, _ = newTestClient(t, http.StatusOK, `not json`)
	_, err = client.GetRecordByID(context.Background(), "user_c", 1, nil)
	assert.ErrorContains(t, err, "decode response")
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"success":true}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.FetchRecords(ctx, "user_c", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
