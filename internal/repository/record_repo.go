package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/community-records-api/internal/database"
	"github.com/community-records-api/internal/records"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// recordRepo implements the record platform contract on PostgreSQL.
// Every platform table lives in the records table keyed by table_name.
type recordRepo struct {
	db     *database.DB
	tables TableRepository
	log    zerolog.Logger
}

// Ensure recordRepo implements records.Client
var _ records.Client = (*recordRepo)(nil)

// NewRecordRepo creates a PostgreSQL-backed record client
func NewRecordRepo(db *database.DB, tables TableRepository, log zerolog.Logger) records.Client {
	return &recordRepo{
		db:     db,
		tables: tables,
		log:    log.With().Str("component", "record-store").Logger(),
	}
}

// FetchRecords runs a filtered, ordered and paged select
func (r *recordRepo) FetchRecords(ctx context.Context, table string, params *records.Params) (*records.ListResponse, error) {
	if params == nil {
		params = &records.Params{}
	}
	if ok, err := r.tables.Exists(ctx, table); err != nil {
		return nil, err
	} else if !ok {
		return &records.ListResponse{Success: false, Message: unknownTable(table)}, nil
	}

	q := newQueryBuilder(table)
	where, err := q.where(params)
	if err != nil {
		return &records.ListResponse{Success: false, Message: err.Error()}, nil
	}
	query := `SELECT id, data, created_on, modified_on, COUNT(*) OVER() FROM records WHERE ` +
		where + ` ORDER BY ` + q.orderBy(params) + q.paging(params)

	rows, err := r.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer rows.Close()

	fields := params.FieldNames()
	data := make([]records.Record, 0)
	total := 0
	for rows.Next() {
		rec, err := scanRecord(rows, &total)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", table, err)
		}
		data = append(data, rec.Project(fields))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}

	return &records.ListResponse{Success: true, Data: data, Total: total}, nil
}

// GetRecordByID loads a single record. A missing record is a successful
// response without data.
func (r *recordRepo) GetRecordByID(ctx context.Context, table string, id int64, params *records.Params) (*records.RecordResponse, error) {
	if ok, err := r.tables.Exists(ctx, table); err != nil {
		return nil, err
	} else if !ok {
		return &records.RecordResponse{Success: false, Message: unknownTable(table)}, nil
	}

	query := `SELECT id, data, created_on, modified_on FROM records WHERE table_name = $1 AND id = $2`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, table, id), nil)
	if errors.Is(err, sql.ErrNoRows) {
		return &records.RecordResponse{Success: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", table, id, err)
	}

	var fields []string
	if params != nil {
		fields = params.FieldNames()
	}
	return &records.RecordResponse{Success: true, Data: rec.Project(fields)}, nil
}

// CreateRecord inserts every record of the batch. Each insert runs under its
// own savepoint so one failure does not abort its siblings.
func (r *recordRepo) CreateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	if params == nil {
		params = &records.Params{}
	}
	return r.batch(ctx, "create", table, len(params.Records), func(tx *sql.Tx, i int) records.Result {
		payload, err := json.Marshal(userFields(params.Records[i]))
		if err != nil {
			return failure(fmt.Sprintf("invalid record: %v", err))
		}
		row := tx.QueryRowContext(ctx,
			`INSERT INTO records (table_name, data) VALUES ($1, $2::jsonb)
			 RETURNING id, data, created_on, modified_on`,
			table, string(payload),
		)
		rec, err := scanRecord(row, nil)
		if err != nil {
			return failure(pqMessage(err))
		}
		return records.Result{Success: true, Data: rec}
	})
}

// UpdateRecord merges each record's fields into the stored document
func (r *recordRepo) UpdateRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	if params == nil {
		params = &records.Params{}
	}
	return r.batch(ctx, "update", table, len(params.Records), func(tx *sql.Tx, i int) records.Result {
		rec := params.Records[i]
		if !rec.Has(records.IDField) || rec.ID() <= 0 {
			return failure("Id is required")
		}
		payload, err := json.Marshal(userFields(rec))
		if err != nil {
			return failure(fmt.Sprintf("invalid record: %v", err))
		}
		row := tx.QueryRowContext(ctx,
			`UPDATE records SET data = data || $3::jsonb, modified_on = NOW()
			 WHERE table_name = $1 AND id = $2
			 RETURNING id, data, created_on, modified_on`,
			table, rec.ID(), string(payload),
		)
		updated, err := scanRecord(row, nil)
		if errors.Is(err, sql.ErrNoRows) {
			return failure(fmt.Sprintf("Record %d not found", rec.ID()))
		}
		if err != nil {
			return failure(pqMessage(err))
		}
		return records.Result{Success: true, Data: updated}
	})
}

// DeleteRecord removes each listed id
func (r *recordRepo) DeleteRecord(ctx context.Context, table string, params *records.Params) (*records.MutationResponse, error) {
	if params == nil {
		params = &records.Params{}
	}
	return r.batch(ctx, "delete", table, len(params.RecordIDs), func(tx *sql.Tx, i int) records.Result {
		id := params.RecordIDs[i]
		res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE table_name = $1 AND id = $2`, table, id)
		if err != nil {
			return failure(pqMessage(err))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return failure(fmt.Sprintf("Record %d not found", id))
		}
		return records.Result{Success: true, Data: records.Record{records.IDField: id}}
	})
}

// batch runs fn for each of n records inside one transaction
func (r *recordRepo) batch(ctx context.Context, op, table string, n int, fn func(tx *sql.Tx, i int) records.Result) (*records.MutationResponse, error) {
	if ok, err := r.tables.Exists(ctx, table); err != nil {
		return nil, err
	} else if !ok {
		return &records.MutationResponse{Success: false, Message: unknownTable(table)}, nil
	}
	if n == 0 {
		return &records.MutationResponse{Success: false, Message: "no records supplied"}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}
	defer tx.Rollback()

	results := make([]records.Result, 0, n)
	failed := 0
	for i := 0; i < n; i++ {
		if _, err := tx.ExecContext(ctx, "SAVEPOINT record_op"); err != nil {
			return nil, fmt.Errorf("%s %s: %w", op, table, err)
		}
		result := fn(tx, i)
		release := "RELEASE SAVEPOINT record_op"
		if !result.Success {
			release = "ROLLBACK TO SAVEPOINT record_op"
			failed++
		}
		if _, err := tx.ExecContext(ctx, release); err != nil {
			return nil, fmt.Errorf("%s %s: %w", op, table, err)
		}
		results = append(results, result)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, table, err)
	}

	if failed > 0 {
		r.log.Warn().
			Str("op", op).
			Str("table", table).
			Int("failed", failed).
			Int("total", n).
			Msg("Batch completed with failures")
	}

	return &records.MutationResponse{Success: true, Results: results}, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord reads id, data, created_on, modified_on and, when total is
// non-nil, a trailing window count
func scanRecord(row rowScanner, total *int) (records.Record, error) {
	var (
		id         int64
		raw        []byte
		createdOn  time.Time
		modifiedOn time.Time
	)
	dest := []any{&id, &raw, &createdOn, &modifiedOn}
	if total != nil {
		dest = append(dest, total)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	rec := records.Record{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", id, err)
		}
	}
	rec[records.IDField] = id
	rec[createdOnField] = createdOn.UTC().Format(time.RFC3339Nano)
	rec[modifiedOnField] = modifiedOn.UTC().Format(time.RFC3339Nano)
	return rec, nil
}

// userFields drops the system columns a caller cannot write
func userFields(rec records.Record) records.Record {
	out := make(records.Record, len(rec))
	for k, v := range rec {
		switch k {
		case records.IDField, createdOnField, modifiedOnField:
			continue
		}
		out[k] = v
	}
	return out
}

func failure(msg string) records.Result {
	return records.Result{Success: false, Message: msg}
}

func pqMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	return err.Error()
}

func unknownTable(table string) string {
	return fmt.Sprintf("table %s does not exist", table)
}
