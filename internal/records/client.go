// Package records defines the contract of the remote record platform the
// services are built on: request parameters, response envelopes, typed errors
// and an HTTP implementation of the client.
package records

import (
	"context"
)

// Client issues CRUD and query calls against named tables
type Client interface {
	FetchRecords(ctx context.Context, table string, params *Params) (*ListResponse, error)
	GetRecordByID(ctx context.Context, table string, id int64, params *Params) (*RecordResponse, error)
	CreateRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error)
	UpdateRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error)
	DeleteRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error)
}

// CheckList validates a fetch response and returns its rows
func CheckList(resp *ListResponse) ([]Record, error) {
	if resp == nil || !resp.Success {
		return nil, rejected(resp)
	}
	return resp.Data, nil
}

// CheckRecord validates a get-by-id response. A successful response without
// data yields (nil, nil).
func CheckRecord(resp *RecordResponse) (Record, error) {
	if resp == nil {
		return nil, &RejectedError{}
	}
	if !resp.Success {
		return nil, &RejectedError{Message: resp.Message}
	}
	return resp.Data, nil
}

// FirstResult validates a mutation response and returns the first persisted
// record. Any failed result fails the whole call, even when other records of
// the batch were committed.
func FirstResult(resp *MutationResponse) (Record, error) {
	if resp == nil {
		return nil, &RejectedError{}
	}
	if !resp.Success {
		return nil, &RejectedError{Message: resp.Message}
	}

	var succeeded []Result
	var failed []Result
	for _, r := range resp.Results {
		if r.Success {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r)
		}
	}

	if len(failed) > 0 {
		return nil, &BatchError{Failed: failed, Succeeded: len(succeeded)}
	}
	if len(succeeded) == 0 || succeeded[0].Data == nil {
		return nil, ErrNoResult
	}
	return succeeded[0].Data, nil
}

// CheckDeleted validates a delete response
func CheckDeleted(resp *MutationResponse) error {
	if resp == nil {
		return &RejectedError{}
	}
	if !resp.Success {
		return &RejectedError{Message: resp.Message}
	}

	var failed []Result
	succeeded := 0
	for _, r := range resp.Results {
		if r.Success {
			succeeded++
		} else {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		return &BatchError{Failed: failed, Succeeded: succeeded}
	}
	if succeeded == 0 {
		return ErrNoResult
	}
	return nil
}

func rejected(resp *ListResponse) error {
	if resp == nil {
		return &RejectedError{}
	}
	return &RejectedError{Message: resp.Message}
}
