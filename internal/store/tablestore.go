// internal/store/tablestore.go
package store

import "context"

// TableStore is the persistence surface the engine depends on. No
// transaction semantics are assumed beyond per-call atomicity.
type TableStore interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	InsertBatch(ctx context.Context, table string, rows []Row) (int, error)
	Update(ctx context.Context, table string, values Row, filters []Filter) (int64, error)
	DeleteWhere(ctx context.Context, table string, filters []Filter) (int64, error)
}
