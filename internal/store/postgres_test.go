// internal/store/postgres_test.go
package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-matching/internal/common/database"
	"rfp-matching/internal/common/errors"
)

// ==========================
// Test Helper Functions
// ==========================

func setupStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(&database.PostgresClient{DB: db}), mock
}

// ==========================
// Select Tests
// ==========================

func TestSelect_FiltersOrderAndLimit(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT \* FROM rfps WHERE embedding IS NOT NULL ORDER BY deadline ASC LIMIT 10`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow("rfp-1", "First").
			AddRow("rfp-2", "Second"))

	rows, err := s.Select(context.Background(), "rfps", Query{
		Filters:   []Filter{NotNull("embedding")},
		OrderBy:   "deadline",
		Ascending: true,
		Limit:     10,
	})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "rfp-1", rows[0]["id"])
	assert.Equal(t, "Second", rows[1]["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_EqFilterBindsValue(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT \* FROM companies WHERE id = \$1`).
		WithArgs("company-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("company-1"))

	rows, err := s.Select(context.Background(), "companies", Query{
		Filters: []Filter{Eq("id", "company-1")},
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_ILikeFiltersJoinWithOr(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT \* FROM rfps WHERE \(title ILIKE \$1 OR description ILIKE \$2\) LIMIT 5`).
		WithArgs("%cloud%", "%cloud%").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rfp-9"))

	rows, err := s.Select(context.Background(), "rfps", Query{
		Filters: []Filter{ILike("title", "cloud"), ILike("description", "cloud")},
		Limit:   5,
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_QueryFailureWrapped(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectQuery(`SELECT \* FROM rfps`).WillReturnError(fmt.Errorf("connection refused"))

	_, err := s.Select(context.Background(), "rfps", Query{})

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTableQueryFailed))
}

// ==========================
// InsertBatch Tests
// ==========================

func TestInsertBatch_MultiValueInsert(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectExec(`INSERT INTO match_snapshots \(rfp_id, score\) VALUES \(\$1, \$2\), \(\$3, \$4\)`).
		WithArgs("rfp-1", 80, "rfp-2", 60).
		WillReturnResult(sqlmock.NewResult(0, 2))

	inserted, err := s.InsertBatch(context.Background(), "match_snapshots", []Row{
		{"rfp_id": "rfp-1", "score": 80},
		{"rfp_id": "rfp-2", "score": 60},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertBatch_EmptyIsNoOp(t *testing.T) {
	s, _ := setupStore(t)

	inserted, err := s.InsertBatch(context.Background(), "match_snapshots", nil)

	require.NoError(t, err)
	assert.Zero(t, inserted)
}

// ==========================
// Update Tests
// ==========================

func TestUpdate_SetWithFilter(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectExec(`UPDATE rfps SET embedding = \$1 WHERE id = \$2`).
		WithArgs(`[0.1,0.2]`, "rfp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := s.Update(context.Background(), "rfps",
		Row{"embedding": `[0.1,0.2]`},
		[]Filter{Eq("id", "rfp-1")})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// DeleteWhere Tests
// ==========================

func TestDeleteWhere_WithFilter(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectExec(`DELETE FROM match_snapshots WHERE company_id = \$1`).
		WithArgs("company-1").
		WillReturnResult(sqlmock.NewResult(0, 42))

	count, err := s.DeleteWhere(context.Background(), "match_snapshots",
		[]Filter{Eq("company_id", "company-1")})

	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestDeleteWhere_NoFilterDeletesAll(t *testing.T) {
	s, mock := setupStore(t)

	mock.ExpectExec(`DELETE FROM match_snapshots`).
		WillReturnResult(sqlmock.NewResult(0, 100))

	count, err := s.DeleteWhere(context.Background(), "match_snapshots", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}
