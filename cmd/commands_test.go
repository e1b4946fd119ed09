package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

func TestAffiliationsCommand(t *testing.T) {
	f := setupCLI(t)

	rows := runJSON[[]affiliationRow](t, f.dataArgs("affiliations")...)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{taxonomy.DigitalTransformation}, rows[0].Affiliations)
	assert.Equal(t, []string{taxonomy.FinancialInnovation}, rows[1].Affiliations)
	assert.Equal(t, []string{
		taxonomy.DigitalTransformation, taxonomy.Industry4, taxonomy.SustainableTech, taxonomy.HealthWellbeing,
	}, rows[2].Affiliations)
	assert.Nil(t, rows[0].Scores)
}

func TestAffiliationsCommand_ThresholdAndScores(t *testing.T) {
	f := setupCLI(t)

	rows := runJSON[[]affiliationRow](t, f.dataArgs("affiliations", "--threshold", "0.9", "--scores")...)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{taxonomy.Industry4}, rows[2].Affiliations)
	assert.Len(t, rows[2].Scores, 5)
	assert.InDelta(t, 0.75, rows[2].Scores[taxonomy.SustainableTech], 1e-9)
}

func TestAffiliationsCommand_Table(t *testing.T) {
	f := setupCLI(t)

	out, err := runCLI(t, f.dataArgs("affiliations")...)
	require.NoError(t, err)
	assert.Contains(t, out, "CLUSTERS")
	assert.Contains(t, out, "Cloudwerk")
	assert.Contains(t, out, "Financial Innovation")
}

func TestCentralityCommand(t *testing.T) {
	f := setupCLI(t)

	ranked := runJSON[[]model.BusinessProfile](t, f.dataArgs("centrality")...)
	require.Len(t, ranked, 3)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Centrality(), ranked[i].Centrality())
	}

	top := runJSON[[]model.BusinessProfile](t, f.dataArgs("centrality", "--top", "1")...)
	require.Len(t, top, 1)
	assert.Equal(t, ranked[0].ID, top[0].ID)
}

func TestCompatCommand(t *testing.T) {
	f := setupCLI(t)

	got := runJSON[compatOutput](t, f.dataArgs("compat", "b1", "b3")...)
	assert.InDelta(t, 0.7, got.Compatibility.Score, 1e-9)
	assert.Equal(t, taxonomy.DigitalTransformation, got.Compatibility.PrimaryCluster)

	_, err := runCLI(t, f.dataArgs("compat", "b1", "b9")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `business "b9" not found`)
}

func TestSpacesCommand(t *testing.T) {
	f := setupCLI(t)

	recs := runJSON[[]model.SpaceRecommendation](t, f.dataArgs("spaces")...)
	require.Len(t, recs, 2)
	assert.Equal(t, "s1", recs[0].SpaceID)
	assert.InDelta(t, 0.91, recs[0].Compatibility, 1e-9)
	assert.Len(t, recs[0].RecommendedClusters, 3)

	filtered := runJSON[[]model.SpaceRecommendation](t, f.dataArgs("spaces", "--cluster", taxonomy.SustainableTech)...)
	assert.Empty(t, filtered)
}

func TestSpacesSaveAndRuns(t *testing.T) {
	f := setupCLI(t)

	_, err := runCLI(t, f.dataArgs("spaces", "--save")...)
	require.NoError(t, err)

	runs := runJSON[[]model.Run](t, "runs", "list")
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Businesses)
	assert.Equal(t, 2, runs[0].Spaces)
	assert.Equal(t, taxonomy.Default().Version(), runs[0].TaxonomyVersion)

	run := runJSON[model.Run](t, "runs", "show", runs[0].ID)
	require.Len(t, run.Recommendations, 2)
	assert.Equal(t, "s2", run.Recommendations[1].SpaceID)

	out, err := runCLI(t, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, truncateID(runs[0].ID))

	_, err = runCLI(t, "runs", "show", "missing")
	assert.Error(t, err)
}

func TestMatchCommand(t *testing.T) {
	f := setupCLI(t)

	one := runJSON[model.SpaceMatch](t, f.dataArgs("match", "b1", "s2")...)
	assert.Equal(t, "s2", one.Space.ID)
	assert.InDelta(t, 0.93, one.Compatibility.Score, 1e-9)

	all := runJSON[[]model.SpaceMatch](t, f.dataArgs("match", "b1")...)
	require.Len(t, all, 2)
	assert.Equal(t, "s1", all[0].Space.ID)
	assert.InDelta(t, 1.0, all[0].Compatibility.Score, 1e-9)

	_, err := runCLI(t, f.dataArgs("match", "b1", "s9")...)
	assert.Error(t, err)
}

func TestRecommendCommand(t *testing.T) {
	f := setupCLI(t)

	peers := runJSON[[]model.PeerMatch](t, f.dataArgs("recommend", "b1")...)
	require.Len(t, peers, 2)
	assert.Equal(t, "b3", peers[0].Business.ID)

	peers = runJSON[[]model.PeerMatch](t, f.dataArgs("recommend", "b1", "--limit", "1")...)
	assert.Len(t, peers, 1)
}

func TestAnalyticsCommand(t *testing.T) {
	f := setupCLI(t)

	a := runJSON[model.ClusterAnalytics](t, f.dataArgs("analytics", "--business", "b2")...)
	assert.Equal(t, 4, a.BusinessOpportunities)
	require.NotNil(t, a.UserClusterMatch)
	assert.Equal(t, taxonomy.FinancialInnovation, a.UserClusterMatch.ID)

	out, err := runCLI(t, f.dataArgs("analytics")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Business opportunities:")
	assert.NotContains(t, out, "Your cluster:")
}

func TestImportAndStoreSource(t *testing.T) {
	f := setupCLI(t)

	_, err := runCLI(t, f.dataArgs("import")...)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(f.dir, "cluster.db"))
	require.NoError(t, err)

	t.Setenv("CLUSTER_DATA_SOURCE", "store")
	rows := runJSON[[]affiliationRow](t, "affiliations")
	require.Len(t, rows, 3)
	assert.Equal(t, "b1", rows[0].ID)
	assert.Equal(t, []string{taxonomy.DigitalTransformation}, rows[0].Affiliations)
}

func TestTaxonomyCommand(t *testing.T) {
	f := setupCLI(t)

	clusters := runJSON[[]taxonomy.Cluster](t, "taxonomy")
	require.Len(t, clusters, 5)
	assert.Equal(t, taxonomy.DigitalTransformation, clusters[0].ID)

	out, err := runCLI(t, "taxonomy", "export")
	require.NoError(t, err)
	path := filepath.Join(f.dir, "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	loaded, err := taxonomy.Load(path)
	require.NoError(t, err)
	assert.Equal(t, taxonomy.Default().Version(), loaded.Version())

	custom := runJSON[[]taxonomy.Cluster](t, "taxonomy", "--taxonomy", path)
	assert.Len(t, custom, 5)
}
