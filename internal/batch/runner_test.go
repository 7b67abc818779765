// internal/batch/runner_test.go
package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/matching"
	"rfp-matching/internal/models"
	"rfp-matching/pkg/aliasdict"
)

// ==========================
// Test Helper Functions
// ==========================

var testToday = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// fakeSnapshotStore scripts the store surface and records writes.
type fakeSnapshotStore struct {
	companies    []*models.CompanyProfile
	rfps         []*models.RFPListing
	deleteErr    error
	deleted      int64
	deletedScope string
	chunks       [][]models.MatchSnapshot
	failChunks   map[int]bool
	insertCalls  int
	rfpLimit     int
}

func (f *fakeSnapshotStore) Companies(ctx context.Context, companyID string) ([]*models.CompanyProfile, error) {
	if companyID == "" {
		return f.companies, nil
	}
	for _, c := range f.companies {
		if c.ID == companyID {
			return []*models.CompanyProfile{c}, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshotStore) RFPsWithEmbeddings(ctx context.Context, limit int) ([]*models.RFPListing, error) {
	f.rfpLimit = limit
	if limit > 0 && limit < len(f.rfps) {
		return f.rfps[:limit], nil
	}
	return f.rfps, nil
}

func (f *fakeSnapshotStore) DeleteSnapshots(ctx context.Context, companyID string) (int64, error) {
	f.deletedScope = companyID
	return f.deleted, f.deleteErr
}

func (f *fakeSnapshotStore) InsertSnapshots(ctx context.Context, snapshots []models.MatchSnapshot) (int, error) {
	call := f.insertCalls
	f.insertCalls++
	if f.failChunks[call] {
		return 0, fmt.Errorf("chunk %d failed", call)
	}
	f.chunks = append(f.chunks, snapshots)
	return len(snapshots), nil
}

func testStrategy(t *testing.T) matching.Strategy {
	engine := matching.NewEngine(aliasdict.New(nil), logger.NewTestLogger(t))
	return matching.KeywordStrategy{Engine: engine}
}

func company(id string, skills ...string) *models.CompanyProfile {
	return &models.CompanyProfile{ID: id, Name: id, Skills: skills, Regions: []string{"13"}}
}

func rfpWithEmbedding(id, title string) *models.RFPListing {
	deadline := testToday.AddDate(0, 0, 10)
	return &models.RFPListing{
		ID:          id,
		Title:       title,
		Description: "description",
		Region:      "13",
		Deadline:    &deadline,
		Embedding:   []float64{0.1, 0.2},
	}
}

func newRunner(t *testing.T, store SnapshotStore, chunkSize int) *Runner {
	r := NewRunner(store, testStrategy(t), chunkSize, logger.NewTestLogger(t))
	r.now = func() time.Time { return testToday }
	return r
}

// ==========================
// Runner Tests
// ==========================

func TestRun_FullCrossProduct(t *testing.T) {
	store := &fakeSnapshotStore{
		companies: []*models.CompanyProfile{company("c1", "Python"), company("c2", "Go")},
		rfps:      []*models.RFPListing{rfpWithEmbedding("r1", "Python work"), rfpWithEmbedding("r2", "Go work")},
		deleted:   4,
	}
	runner := newRunner(t, store, 100)

	stats, err := runner.Run(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Companies)
	assert.Equal(t, 2, stats.RFPs)
	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 4, stats.Succeeded)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, 4, stats.Saved)
	assert.Equal(t, int64(4), stats.Deleted)

	require.Len(t, store.chunks, 1)
	assert.Len(t, store.chunks[0], 4)
}

func TestRun_ScopedToOneCompany(t *testing.T) {
	store := &fakeSnapshotStore{
		companies: []*models.CompanyProfile{company("c1", "Python"), company("c2", "Go")},
		rfps:      []*models.RFPListing{rfpWithEmbedding("r1", "Python work")},
	}
	runner := newRunner(t, store, 100)

	stats, err := runner.Run(context.Background(), "c2", 0)

	require.NoError(t, err)
	assert.Equal(t, "c2", store.deletedScope)
	assert.Equal(t, 1, stats.Companies)
	assert.Equal(t, 1, stats.Processed)
}

func TestRun_PerPairFailureDoesNotAbort(t *testing.T) {
	store := &fakeSnapshotStore{
		companies: []*models.CompanyProfile{
			company("c1", "Python"),
			{ID: "", Name: "invalid"}, // fails validation on every pair
		},
		rfps: []*models.RFPListing{rfpWithEmbedding("r1", "Python work"), rfpWithEmbedding("r2", "More work")},
	}
	runner := newRunner(t, store, 100)

	stats, err := runner.Run(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 2, stats.Saved)
}

func TestRun_ChunkingAndIndependentChunkFailure(t *testing.T) {
	var rfps []*models.RFPListing
	for i := 0; i < 5; i++ {
		rfps = append(rfps, rfpWithEmbedding(fmt.Sprintf("r%d", i), "Python work"))
	}
	store := &fakeSnapshotStore{
		companies:  []*models.CompanyProfile{company("c1", "Python")},
		rfps:       rfps,
		failChunks: map[int]bool{1: true}, // second chunk fails
	}
	runner := newRunner(t, store, 2)

	stats, err := runner.Run(context.Background(), "", 0)

	require.NoError(t, err)
	// 5 snapshots -> chunks of 2, 2, 1; the middle chunk fails.
	assert.Equal(t, 3, store.insertCalls)
	assert.Equal(t, 3, stats.Saved)
	assert.Equal(t, 2, stats.SaveFailed)
}

func TestRun_DeleteFailureAbortsRun(t *testing.T) {
	store := &fakeSnapshotStore{deleteErr: fmt.Errorf("db down")}
	runner := newRunner(t, store, 100)

	_, err := runner.Run(context.Background(), "", 0)

	assert.Error(t, err)
	assert.Zero(t, store.insertCalls)
}

func TestRun_RFPLimitPassedThrough(t *testing.T) {
	store := &fakeSnapshotStore{
		companies: []*models.CompanyProfile{company("c1", "Python")},
		rfps: []*models.RFPListing{
			rfpWithEmbedding("r1", "a"), rfpWithEmbedding("r2", "b"), rfpWithEmbedding("r3", "c"),
		},
	}
	runner := newRunner(t, store, 100)

	stats, err := runner.Run(context.Background(), "", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, store.rfpLimit)
	assert.Equal(t, 2, stats.RFPs)
}

func TestRun_EmptyScopeProducesNoWrites(t *testing.T) {
	store := &fakeSnapshotStore{}
	runner := newRunner(t, store, 100)

	stats, err := runner.Run(context.Background(), "", 0)

	require.NoError(t, err)
	assert.Zero(t, stats.Processed)
	assert.Zero(t, store.insertCalls)
}
