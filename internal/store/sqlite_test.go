package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// --- Businesses ---

func TestSQLite_Businesses_UpsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.UpsertBusinesses(ctx, []model.BusinessProfile{
		{ID: "b2", Name: "Beta", Interests: []string{"IoT", "AI/ML"}},
		{ID: "b1", Name: "Alpha", Company: "Alpha GmbH", Type: "startup", Interests: []string{"SaaS"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := st.ListBusinesses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "Alpha GmbH", got[0].Company)
	assert.Equal(t, "startup", got[0].Type)
	assert.Equal(t, []string{"SaaS"}, got[0].Interests)
	assert.Equal(t, []string{"IoT", "AI/ML"}, got[1].Interests)
	assert.Nil(t, got[0].ClusterAffiliations)
}

func TestSQLite_Businesses_UpsertReplaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.UpsertBusinesses(ctx, []model.BusinessProfile{{ID: "b1", Name: "Old", Interests: []string{"SaaS"}}})
	require.NoError(t, err)

	n, err := st.UpsertBusinesses(ctx, []model.BusinessProfile{
		{ID: "b1", Name: "Dup", Interests: []string{"x"}},
		{ID: "b1", Name: "New", Interests: []string{"Fintech"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := st.ListBusinesses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
	assert.Equal(t, []string{"Fintech"}, got[0].Interests)
}

func TestSQLite_Businesses_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	n, err := st.UpsertBusinesses(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := st.ListBusinesses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// --- Spaces ---

func TestSQLite_Spaces_UpsertAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.UpsertSpaces(ctx, []model.Space{
		{ID: "s1", Name: "Tech Hub", Capacity: 50, Location: "Schwabing, Munich", Amenities: []string{"High-speed internet"}},
		{ID: "s2", Name: "Studio", Capacity: 8, Location: "Giesing"},
	})
	require.NoError(t, err)

	got, err := st.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 50, got[0].Capacity)
	assert.Equal(t, []string{"High-speed internet"}, got[0].Amenities)
	assert.Equal(t, []string{}, got[1].Amenities)
	assert.Nil(t, got[0].ClusterData)
}

func TestSQLite_Spaces_RejectsZeroCapacity(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.UpsertSpaces(context.Background(), []model.Space{{ID: "s", Name: "Bad", Capacity: 0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: upsert spaces")
}

// --- Runs ---

func sampleRun() *model.Run {
	return &model.Run{
		TaxonomyVersion: "abc123",
		BusinessHash:    "bh",
		SpaceHash:       "sh",
		Businesses:      3,
		Spaces:          1,
		Recommendations: []model.SpaceRecommendation{{
			SpaceID:       "s1",
			SpaceName:     "Tech Hub",
			Compatibility: 0.85,
			RecommendedClusters: []model.RecommendedCluster{
				{ClusterID: "digital-transformation", ClusterName: "Digital Transformation", Score: 0.85, Businesses: 3},
			},
		}},
	}
}

func TestSQLite_Runs_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run := sampleRun()
	require.NoError(t, st.SaveRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "abc123", got.TaxonomyVersion)
	assert.Equal(t, 3, got.Businesses)
	assert.Equal(t, run.Recommendations, got.Recommendations)
	assert.WithinDuration(t, run.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_Runs_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_Runs_List(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		r := sampleRun()
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, st.SaveRun(ctx, r))
	}

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	recent, err := st.ListRuns(ctx, RunFilter{CreatedAfter: base.Add(30 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	page, err := st.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, all[1].ID, page[0].ID)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, configFor("sqlite", filepath.Join(t.TempDir(), "open.db")))
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, err = st.UpsertBusinesses(ctx, []model.BusinessProfile{{ID: "b", Name: "B"}})
	require.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configFor("mysql", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown driver "mysql"`)
}

func TestDedupe_LastWinsFirstPosition(t *testing.T) {
	got := dedupeBusinesses([]model.BusinessProfile{
		{ID: "a", Name: "A1"}, {ID: "b", Name: "B"}, {ID: "a", Name: "A2"},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "A2", got[0].Name)
	assert.Equal(t, "b", got[1].ID)

	spaces := dedupeSpaces([]model.Space{{ID: "s", Capacity: 1}, {ID: "s", Capacity: 2}})
	require.Len(t, spaces, 1)
	assert.Equal(t, 2, spaces[0].Capacity)
}
