package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/community-records-api/internal/records"
	"github.com/community-records-api/internal/repository"
)

// RecordCall captures one call made to MockRecordClient
type RecordCall struct {
	Op     string
	Table  string
	ID     int64
	Params *records.Params
}

// MockRecordClient is an in-memory implementation of records.Client.
// The Func fields override the default behaviour per operation.
type MockRecordClient struct {
	mu     sync.Mutex
	Tables map[string]map[int64]records.Record
	Calls  []RecordCall
	nextID int64

	FetchFunc  func(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error)
	GetFunc    func(ctx context.Context, table string, id int64, params *records.Params) (*records.RecordResponse, error)
	CreateFunc func(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error)
	UpdateFunc func(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error)
	DeleteFunc func(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error)
}

// Verify interface compliance
var _ records.Client = (*MockRecordClient)(nil)

func NewMockRecordClient() *MockRecordClient {
	return &MockRecordClient{
		Tables: make(map[string]map[int64]records.Record),
	}
}

// Seed stores rec under its Id, or a fresh Id when it has none, and returns the Id
func (m *MockRecordClient) Seed(table string, rec records.Record) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(table, rec)
}

// CallsTo returns the recorded calls of one operation
func (m *MockRecordClient) CallsTo(op string) []RecordCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []RecordCall
	for _, c := range m.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// LastCall returns the most recent call of one operation
func (m *MockRecordClient) LastCall(op string) (RecordCall, bool) {
	calls := m.CallsTo(op)
	if len(calls) == 0 {
		return RecordCall{}, false
	}
	return calls[len(calls)-1], true
}

func (m *MockRecordClient) record(op, table string, id int64, params *records.Params) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, RecordCall{Op: op, Table: table, ID: id, Params: params})
}

func (m *MockRecordClient) FetchRecords(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error) {
	m.record("fetch", table, 0, params)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, table, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]records.Record, 0)
	for _, rec := range m.sorted(table) {
		if params != nil && !matchesWhere(rec, params.Where) {
			continue
		}
		rows = append(rows, copyRecord(rec))
	}
	if params != nil && params.PagingInfo != nil && params.PagingInfo.Limit > 0 && len(rows) > params.PagingInfo.Limit {
		rows = rows[:params.PagingInfo.Limit]
	}
	return &records.ListResponse{Success: true, Data: rows, Total: len(rows)}, nil
}

func (m *MockRecordClient) GetRecordByID(ctx context.Context, table string, id int64, params *records.Params) (*records.RecordResponse, error) {
	m.record("get", table, id, params)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, table, id, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.Tables[table][id]
	if !ok {
		return &records.RecordResponse{Success: true}, nil
	}
	return &records.RecordResponse{Success: true, Data: copyRecord(rec)}, nil
}

func (m *MockRecordClient) CreateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	m.record("create", table, 0, params)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, table, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp := &records.MutationResponse{Success: true}
	for _, rec := range params.Records {
		in := copyRecord(rec)
		delete(in, records.IDField)
		id := m.insert(table, in)
		resp.Results = append(resp.Results, records.Result{Success: true, Data: copyRecord(m.Tables[table][id])})
	}
	return resp, nil
}

func (m *MockRecordClient) UpdateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	m.record("update", table, 0, params)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, table, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp := &records.MutationResponse{Success: true}
	for _, rec := range params.Records {
		stored, ok := m.Tables[table][rec.ID()]
		if !ok {
			resp.Results = append(resp.Results, records.Result{Message: fmt.Sprintf("Record %d not found", rec.ID())})
			continue
		}
		for k, v := range rec {
			stored[k] = v
		}
		stored["ModifiedOn"] = time.Now().UTC().Format(time.RFC3339Nano)
		resp.Results = append(resp.Results, records.Result{Success: true, Data: copyRecord(stored)})
	}
	return resp, nil
}

func (m *MockRecordClient) DeleteRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	m.record("delete", table, 0, params)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, table, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp := &records.MutationResponse{Success: true}
	for _, id := range params.RecordIDs {
		if _, ok := m.Tables[table][id]; !ok {
			resp.Results = append(resp.Results, records.Result{Message: fmt.Sprintf("Record %d not found", id)})
			continue
		}
		delete(m.Tables[table], id)
		resp.Results = append(resp.Results, records.Result{Success: true, Data: records.Record{records.IDField: id}})
	}
	return resp, nil
}

// insert must be called with mu held
func (m *MockRecordClient) insert(table string, rec records.Record) int64 {
	if m.Tables[table] == nil {
		m.Tables[table] = make(map[int64]records.Record)
	}
	stored := copyRecord(rec)
	id := rec.ID()
	if id <= 0 {
		m.nextID++
		id = m.nextID
	} else if id > m.nextID {
		m.nextID = id
	}
	stored[records.IDField] = id
	if !stored.Has("CreatedOn") {
		stored["CreatedOn"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	m.Tables[table][id] = stored
	return id
}

// sorted must be called with mu held
func (m *MockRecordClient) sorted(table string) []records.Record {
	rows := make([]records.Record, 0, len(m.Tables[table]))
	for _, rec := range m.Tables[table] {
		rows = append(rows, rec)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID() < rows[j].ID() })
	return rows
}

func matchesWhere(rec records.Record, where []records.Condition) bool {
	for _, c := range where {
		if c.Operator != records.OpEqualTo {
			continue
		}
		matched := false
		for _, v := range c.Values {
			if fmt.Sprint(rec[c.FieldName]) == fmt.Sprint(v) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func copyRecord(rec records.Record) records.Record {
	out := make(records.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// MockTableRepository is a mock implementation of TableRepository
type MockTableRepository struct {
	mu        sync.Mutex
	Names     map[string]bool
	ExistsErr error
}

// Verify interface compliance
var _ repository.TableRepository = (*MockTableRepository)(nil)

func NewMockTableRepository(names ...string) *MockTableRepository {
	m := &MockTableRepository{Names: make(map[string]bool)}
	for _, n := range names {
		m.Names[n] = true
	}
	return m
}

func (m *MockTableRepository) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.Names[name], nil
}

func (m *MockTableRepository) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Names))
	for n := range m.Names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
