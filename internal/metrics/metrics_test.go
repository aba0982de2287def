package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/community-records-api/internal/metrics"
	"github.com/community-records-api/internal/mocks"
	"github.com/community-records-api/internal/records"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument_CountsOutcomes(t *testing.T) {
	client := mocks.NewMockRecordClient()
	wrapped := metrics.Instrument(client)
	ctx := context.Background()

	okBefore := testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("fetch", "metrics_t", metrics.OutcomeOK))
	_, err := wrapped.FetchRecords(ctx, "metrics_t", &records.Params{})
	require.NoError(t, err)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("fetch", "metrics_t", metrics.OutcomeOK)))

	client.DeleteFunc = func(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
		return &records.MutationResponse{Success: true, Results: []records.Result{{Success: false}}}, nil
	}
	rejBefore := testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("delete", "metrics_t", metrics.OutcomeRejected))
	_, _ = wrapped.DeleteRecord(ctx, "metrics_t", &records.Params{RecordIDs: []int64{1}})
	assert.Equal(t, rejBefore+1, testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("delete", "metrics_t", metrics.OutcomeRejected)))

	client.GetFunc = func(ctx context.Context, table string, id int64, params *records.Params) (*records.RecordResponse, error) {
		return nil, errors.New("timeout")
	}
	errBefore := testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("get", "metrics_t", metrics.OutcomeError))
	_, err = wrapped.GetRecordByID(ctx, "metrics_t", 1, nil)
	assert.Error(t, err)
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.RecordCalls.WithLabelValues("get", "metrics_t", metrics.OutcomeError)))

	assert.Len(t, client.Calls, 3)
}

func TestInstrument_NilClient(t *testing.T) {
	assert.Nil(t, metrics.Instrument(nil))
}

func TestHandlerAndExposer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(metrics.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", metrics.Exposer())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{method="GET",path="/ping",status="200"}`))
}
