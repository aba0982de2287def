package records

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// IDField is the platform-assigned identity column
const IDField = "Id"

// Record is a flat platform record keyed by platform field name
type Record map[string]any

// Int64 reads a numeric field. Lookup fields ({"Id": 3, "Name": "..."}) resolve to their Id.
// Missing or unparsable values read as 0.
func (r Record) Int64(field string) int64 {
	n, _ := toInt64(r[field])
	return n
}

// Int reads a numeric field as int
func (r Record) Int(field string) int {
	return int(r.Int64(field))
}

// Has reports whether the field is present and non-null
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// String reads a text field; lookup fields resolve to their Name
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if name, ok := v["Name"].(string); ok {
			return name
		}
		return ""
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		if n, ok := toInt64(v); ok {
			return strconv.FormatInt(n, 10)
		}
		return ""
	}
}

// Time reads a timestamp field, accepting RFC 3339 strings and time.Time
func (r Record) Time(field string) time.Time {
	switch v := r[field].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05", v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ID returns the record identity
func (r Record) ID() int64 {
	return r.Int64(IDField)
}

// Project returns a copy holding only the named fields plus Id.
// An empty field list returns a full copy.
func (r Record) Project(fields []string) Record {
	out := make(Record, len(fields)+1)
	if len(fields) == 0 {
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	if v, ok := r[IDField]; ok {
		out[IDField] = v
	}
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ParseID converts caller-supplied identifiers to the integer ids the platform expects
func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	case map[string]any:
		return toInt64(n[IDField])
	}
	return 0, false
}

// ListResponse is returned by FetchRecords
type ListResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    []Record `json:"data"`
	Total   int      `json:"total,omitempty"`
}

// RecordResponse is returned by GetRecordByID
type RecordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    Record `json:"data"`
}

// MutationResponse is returned by create, update and delete calls
type MutationResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Results []Result `json:"results,omitempty"`
}

// Result is the outcome for one record of a batch
type Result struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    Record       `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes a per-field rejection inside a result
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}
