package monitoring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "monitoring.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// seedStore writes two businesses, two spaces and one run created at runAt.
func seedStore(t *testing.T, st store.Store, taxonomy string, runAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := st.UpsertBusinesses(ctx, []model.BusinessProfile{
		{ID: "b1", Name: "Alpha", Interests: []string{"SaaS"}},
		{ID: "b2", Name: "Beta", Interests: []string{"Fintech"}},
	})
	require.NoError(t, err)
	_, err = st.UpsertSpaces(ctx, []model.Space{
		{ID: "s1", Name: "Hub", Capacity: 20},
		{ID: "s2", Name: "Annex", Capacity: 4},
	})
	require.NoError(t, err)

	require.NoError(t, st.SaveRun(ctx, &model.Run{
		TaxonomyVersion: taxonomy,
		BusinessHash:    "bh",
		SpaceHash:       "sh",
		Businesses:      2,
		Spaces:          2,
		CreatedAt:       runAt,
		Recommendations: []model.SpaceRecommendation{
			{SpaceID: "s1", Compatibility: 0.75, RecommendedClusters: []model.RecommendedCluster{
				{ClusterID: "digital-transformation", Score: 0.75, Businesses: 1},
			}},
			{SpaceID: "s2", Compatibility: 0},
		},
	}))
}
