package records

// Operators understood by the record platform
const (
	OpEqualTo  = "EqualTo"
	OpContains = "Contains"

	GroupOR  = "OR"
	GroupAND = "AND"

	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Params describes a record platform request. Which members are read depends on
// the call: reads use Fields/Where/WhereGroups/OrderBy/PagingInfo, mutations use
// Records or RecordIDs.
type Params struct {
	Fields      []FieldSpec  `json:"fields,omitempty"`
	Where       []Condition  `json:"where,omitempty"`
	WhereGroups []WhereGroup `json:"whereGroups,omitempty"`
	OrderBy     []OrderBy    `json:"orderBy,omitempty"`
	PagingInfo  *PagingInfo  `json:"pagingInfo,omitempty"`
	Records     []Record     `json:"records,omitempty"`
	RecordIDs   []int64      `json:"RecordIds,omitempty"`
}

// FieldSpec names a column to project
type FieldSpec struct {
	Field FieldName `json:"field"`
}

// FieldName wraps a column name
type FieldName struct {
	Name string `json:"Name"`
}

// Condition is a top-level where predicate. All conditions are AND-ed.
type Condition struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

// WhereGroup combines sub groups with Operator (OR/AND)
type WhereGroup struct {
	Operator  string     `json:"operator"`
	SubGroups []SubGroup `json:"subGroups"`
}

// SubGroup combines its conditions with Operator; an empty operator means AND
type SubGroup struct {
	Conditions []GroupCondition `json:"conditions"`
	Operator   string           `json:"operator"`
}

// GroupCondition is a predicate inside a where group
type GroupCondition struct {
	FieldName string `json:"fieldName"`
	Operator  string `json:"operator"`
	Values    []any  `json:"values"`
}

// OrderBy sorts by a single field
type OrderBy struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

// PagingInfo limits a fetch
type PagingInfo struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Fields builds a projection list from column names
func Fields(names ...string) []FieldSpec {
	specs := make([]FieldSpec, len(names))
	for i, name := range names {
		specs[i] = FieldSpec{Field: FieldName{Name: name}}
	}
	return specs
}

// FieldNames returns the projected column names
func (p *Params) FieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		names = append(names, f.Field.Name)
	}
	return names
}

// ContainsAny builds an OR group with one Contains condition per field.
// subOperator is written on every sub group as-is.
func ContainsAny(term, subOperator string, fields ...string) WhereGroup {
	group := WhereGroup{Operator: GroupOR, SubGroups: make([]SubGroup, 0, len(fields))}
	for _, field := range fields {
		group.SubGroups = append(group.SubGroups, SubGroup{
			Conditions: []GroupCondition{{FieldName: field, Operator: OpContains, Values: []any{term}}},
			Operator:   subOperator,
		})
	}
	return group
}
