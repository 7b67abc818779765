// internal/store/postgres.go
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rfp-matching/internal/common/database"
	"rfp-matching/internal/common/errors"
)

// PostgresStore implements TableStore over a PostgreSQL connection.
type PostgresStore struct {
	db *database.PostgresClient
}

// NewPostgresStore creates a TableStore backed by PostgreSQL.
func NewPostgresStore(db *database.PostgresClient) *PostgresStore {
	return &PostgresStore{db: db}
}

// Select fetches rows matching the query.
func (s *PostgresStore) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * FROM %s", table)

	where, args := buildWhere(q.Filters, 1)
	sb.WriteString(where)

	if q.OrderBy != "" {
		dir := "DESC"
		if q.Ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}

	rows, err := s.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, errors.NewTableQueryFailedError(table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewTableQueryFailedError(table, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.NewTableQueryFailedError(table, err)
		}

		row := Row{}
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewTableQueryFailedError(table, err)
	}
	return out, nil
}

// InsertBatch writes all rows in one multi-value INSERT. Rows must share
// the same column set.
func (s *PostgresStore) InsertBatch(ctx context.Context, table string, rows []Row) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	args := make([]interface{}, 0, len(rows)*len(columns))
	placeholder := 1
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, col := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", placeholder)
			placeholder++
			args = append(args, row[col])
		}
		sb.WriteString(")")
	}

	result, err := s.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, errors.NewTableQueryFailedError(table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return len(rows), nil
	}
	return int(affected), nil
}

// Update sets the given values on rows matching the filters.
func (s *PostgresStore) Update(ctx context.Context, table string, values Row, filters []Filter) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	columns := make([]string, 0, len(values))
	for col := range values {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET ", table)

	args := make([]interface{}, 0, len(columns)+len(filters))
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = $%d", col, i+1)
		args = append(args, values[col])
	}

	where, whereArgs := buildWhere(filters, len(columns)+1)
	sb.WriteString(where)
	args = append(args, whereArgs...)

	result, err := s.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, errors.NewTableQueryFailedError(table, err)
	}
	return result.RowsAffected()
}

// DeleteWhere removes rows matching the filters and returns the count.
// An empty filter list deletes every row in the table.
func (s *PostgresStore) DeleteWhere(ctx context.Context, table string, filters []Filter) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DELETE FROM %s", table)

	where, args := buildWhere(filters, 1)
	sb.WriteString(where)

	result, err := s.db.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, errors.NewTableQueryFailedError(table, err)
	}
	return result.RowsAffected()
}

// buildWhere renders filters as a WHERE clause with placeholders starting
// at the given index. ILike filters OR together; everything else ANDs.
func buildWhere(filters []Filter, firstPlaceholder int) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}

	var ands []string
	var ors []string
	var args []interface{}
	placeholder := firstPlaceholder

	for _, f := range filters {
		switch f.Op {
		case OpNotNull:
			ands = append(ands, fmt.Sprintf("%s IS NOT NULL", f.Column))
		case OpIsNull:
			ands = append(ands, fmt.Sprintf("%s IS NULL", f.Column))
		case OpILike:
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", f.Column, placeholder))
			placeholder++
			args = append(args, f.Value)
		default:
			ands = append(ands, fmt.Sprintf("%s = $%d", f.Column, placeholder))
			placeholder++
			args = append(args, f.Value)
		}
	}

	if len(ors) > 0 {
		ands = append(ands, "("+strings.Join(ors, " OR ")+")")
	}

	return " WHERE " + strings.Join(ands, " AND "), args
}
