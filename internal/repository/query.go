package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/community-records-api/internal/records"
	"github.com/lib/pq"
)

// System columns exposed under platform field names
const (
	createdOnField  = "CreatedOn"
	modifiedOnField = "ModifiedOn"
)

// queryBuilder accumulates positional arguments while rendering SQL fragments
type queryBuilder struct {
	args []any
}

func newQueryBuilder(table string) *queryBuilder {
	return &queryBuilder{args: []any{table}}
}

// arg appends a value and returns its placeholder
func (q *queryBuilder) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

// fieldExpr renders the text value of a platform field
func (q *queryBuilder) fieldExpr(field string) string {
	switch field {
	case records.IDField:
		return "id::text"
	case createdOnField:
		return "created_on::text"
	case modifiedOnField:
		return "modified_on::text"
	}
	return "(data ->> " + q.arg(field) + ")"
}

// condition renders a single predicate
func (q *queryBuilder) condition(field, operator string, values []any) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("condition on %s has no values", field)
	}

	switch operator {
	case records.OpEqualTo:
		if field == records.IDField {
			ids := make([]int64, 0, len(values))
			for _, v := range values {
				id, err := records.ParseID(fmt.Sprint(v))
				if err != nil {
					return "", fmt.Errorf("invalid id value %v", v)
				}
				ids = append(ids, id)
			}
			return "id = ANY(" + q.arg(pq.Array(ids)) + ")", nil
		}
		return q.fieldExpr(field) + " = ANY(" + q.arg(pq.Array(stringValues(values))) + ")", nil

	case records.OpContains:
		expr := q.fieldExpr(field)
		parts := make([]string, 0, len(values))
		for _, v := range values {
			parts = append(parts, "position(lower("+q.arg(fmt.Sprint(v))+") in lower(coalesce("+expr+", ''))) > 0")
		}
		return joinParts(parts, "OR"), nil
	}

	return "", fmt.Errorf("unsupported operator %q", operator)
}

// where renders the AND of table scope, top-level conditions and where groups
func (q *queryBuilder) where(params *records.Params) (string, error) {
	clauses := []string{"table_name = $1"}

	for _, c := range params.Where {
		clause, err := q.condition(c.FieldName, c.Operator, c.Values)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}

	for _, group := range params.WhereGroups {
		subs := make([]string, 0, len(group.SubGroups))
		for _, sub := range group.SubGroups {
			conds := make([]string, 0, len(sub.Conditions))
			for _, c := range sub.Conditions {
				clause, err := q.condition(c.FieldName, c.Operator, c.Values)
				if err != nil {
					return "", err
				}
				conds = append(conds, clause)
			}
			if len(conds) > 0 {
				subs = append(subs, joinParts(conds, logical(sub.Operator)))
			}
		}
		if len(subs) > 0 {
			clauses = append(clauses, joinParts(subs, logical(group.Operator)))
		}
	}

	return strings.Join(clauses, " AND "), nil
}

// orderBy renders the ORDER BY list; numeric JSON values sort numerically
func (q *queryBuilder) orderBy(params *records.Params) string {
	if len(params.OrderBy) == 0 {
		return "id ASC"
	}

	parts := make([]string, 0, len(params.OrderBy)+1)
	for _, o := range params.OrderBy {
		dir := "ASC"
		if strings.EqualFold(o.SortType, records.SortDesc) {
			dir = "DESC"
		}
		switch o.FieldName {
		case records.IDField:
			parts = append(parts, "id "+dir)
		case createdOnField:
			parts = append(parts, "created_on "+dir)
		case modifiedOnField:
			parts = append(parts, "modified_on "+dir)
		default:
			p := q.arg(o.FieldName)
			parts = append(parts,
				"CASE WHEN jsonb_typeof(data -> "+p+") = 'number' THEN (data ->> "+p+")::numeric END "+dir+" NULLS LAST",
				"(data ->> "+p+") "+dir+" NULLS LAST",
			)
		}
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

// paging renders LIMIT/OFFSET
func (q *queryBuilder) paging(params *records.Params) string {
	if params.PagingInfo == nil || params.PagingInfo.Limit <= 0 {
		return ""
	}
	offset := params.PagingInfo.Offset
	if offset < 0 {
		offset = 0
	}
	return " LIMIT " + q.arg(params.PagingInfo.Limit) + " OFFSET " + q.arg(offset)
}

func logical(op string) string {
	if strings.EqualFold(op, records.GroupOR) {
		return "OR"
	}
	return "AND"
}

func joinParts(parts []string, op string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " "+op+" ") + ")"
}

func stringValues(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}
