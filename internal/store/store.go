// internal/store/store.go
package store

// FilterOp names a supported predicate.
type FilterOp string

const (
	OpEq      FilterOp = "eq"
	OpNotNull FilterOp = "not_null"
	OpIsNull  FilterOp = "is_null"
	OpILike   FilterOp = "ilike"
)

// Filter is one predicate on a column.
type Filter struct {
	Column string
	Op     FilterOp
	Value  interface{}
}

// Eq matches rows where column equals value.
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// NotNull matches rows where column is not null.
func NotNull(column string) Filter {
	return Filter{Column: column, Op: OpNotNull}
}

// IsNull matches rows where column is null.
func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIsNull}
}

// ILike matches rows where column contains value case-insensitively.
func ILike(column string, value string) Filter {
	return Filter{Column: column, Op: OpILike, Value: "%" + value + "%"}
}

// Query describes a select: predicates plus optional ordering and limit.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Limit     int
}

// Row is one result record keyed by column name.
type Row map[string]interface{}
