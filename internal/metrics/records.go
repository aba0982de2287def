package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/community-records-api/internal/records"
)

// Call outcomes
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// instrumentedClient decorates a records.Client with call counters and timings
type instrumentedClient struct {
	next records.Client
}

// Ensure instrumentedClient implements records.Client
var _ records.Client = (*instrumentedClient)(nil)

// Instrument wraps client so every call is counted and timed. A nil client
// stays nil so callers still see records.ErrClientUnavailable.
func Instrument(client records.Client) records.Client {
	if client == nil {
		return nil
	}
	return &instrumentedClient{next: client}
}

func (c *instrumentedClient) FetchRecords(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error) {
	start := time.Now()
	resp, err := c.next.FetchRecords(ctx, table, params)
	observe("fetch", table, start, err, resp != nil && resp.Success)
	return resp, err
}

func (c *instrumentedClient) GetRecordByID(ctx context.Context, table string, id int64, params *records.Params) (*records.RecordResponse, error) {
	start := time.Now()
	resp, err := c.next.GetRecordByID(ctx, table, id, params)
	observe("get", table, start, err, resp != nil && resp.Success)
	return resp, err
}

func (c *instrumentedClient) CreateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	start := time.Now()
	resp, err := c.next.CreateRecord(ctx, table, params)
	observe("create", table, start, err, mutationOK(resp))
	return resp, err
}

func (c *instrumentedClient) UpdateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	start := time.Now()
	resp, err := c.next.UpdateRecord(ctx, table, params)
	observe("update", table, start, err, mutationOK(resp))
	return resp, err
}

func (c *instrumentedClient) DeleteRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	start := time.Now()
	resp, err := c.next.DeleteRecord(ctx, table, params)
	observe("delete", table, start, err, mutationOK(resp))
	return resp, err
}

func observe(op, table string, start time.Time, err error, ok bool) {
	RecordLatency.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
	RecordCalls.WithLabelValues(op, table, outcome(err, ok)).Inc()
}

func outcome(err error, ok bool) string {
	switch {
	case err != nil && errors.Is(err, records.ErrRejected):
		return OutcomeRejected
	case err != nil:
		return OutcomeError
	case !ok:
		return OutcomeRejected
	}
	return OutcomeOK
}

func mutationOK(resp *records.MutationResponse) bool {
	if resp == nil || !resp.Success {
		return false
	}
	for _, r := range resp.Results {
		if !r.Success {
			return false
		}
	}
	return true
}
