package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
)

func spaceWith(recs ...model.RecommendedCluster) *model.Space {
	s := &model.Space{ID: "s", Name: "Space", Capacity: 10, ClusterData: &model.SpaceClusterData{RecommendedClusters: recs}}
	if len(recs) > 0 {
		s.ClusterData.Compatibility = recs[0].Score
	}
	return s
}

func rc(id string, score float64) model.RecommendedCluster {
	return model.RecommendedCluster{ClusterID: id, Score: score, Businesses: 1}
}

func TestBusinessSpaceCompatibility(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name     string
		business model.BusinessProfile
		space    *model.Space
		score    float64
		primary  string
		cname    string
	}{
		{"no cluster data", biz("b", dt), &model.Space{ID: "s", Name: "S", Capacity: 1}, 0.5, "", ""},
		{"empty recommendations", biz("b", dt), spaceWith(), 0.5, "", ""},
		{"direct match picks best", biz("b", dt, i4), spaceWith(rc(i4, 0.7), rc(dt, 0.65)), 0.9, i4, "Industry 4.0"},
		{"direct match capped", biz("b", dt), spaceWith(rc(dt, 0.9)), 1.0, dt, "Digital Transformation"},
		{"compatible discounted", biz("b", fin), spaceWith(rc(i4, 0.7), rc(dt, 0.65)), 0.52, dt, "Digital Transformation"},
		{"compatible either direction", biz("b", dt), spaceWith(rc(fin, 0.7)), 0.56, fin, "Financial Innovation"},
		{"no relation", biz("b", fin), spaceWith(rc(sus, 0.7)), 0.3, "", ""},
		{
			"derives missing affiliations",
			model.BusinessProfile{ID: "b", Name: "B", Interests: []string{"Fintech"}},
			spaceWith(rc(fin, 0.6)),
			0.8, fin, "Financial Innovation",
		},
		{
			"empty affiliations are respected",
			withInterests(biz("b"), "Fintech"),
			spaceWith(rc(fin, 0.6)),
			0.3, "", "",
		},
		{"unknown cluster name", biz("b", "makers"), spaceWith(rc("makers", 0.4)), 0.6, "makers", "Compatible Cluster"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.BusinessSpaceCompatibility(tt.business, tt.space)
			require.NoError(t, err)
			assert.InDelta(t, tt.score, got.Score, 1e-9)
			assert.Equal(t, tt.primary, got.PrimaryCluster)
			assert.Equal(t, tt.cname, got.ClusterName)
		})
	}
}

func TestBusinessSpaceCompatibility_KeepsSpaceClusterName(t *testing.T) {
	e := newTestEngine(t)
	s := spaceWith(model.RecommendedCluster{ClusterID: dt, ClusterName: "Digital Hub", Score: 0.5})
	got, err := e.BusinessSpaceCompatibility(biz("b", dt), s)
	require.NoError(t, err)
	assert.Equal(t, "Digital Hub", got.ClusterName)
}

func TestBusinessSpaceCompatibility_NilSpace(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.BusinessSpaceCompatibility(biz("b", dt), nil)
	assert.ErrorIs(t, err, ErrNilSpace)
}

func TestBusinessSpaceCompatibility_EndToEnd(t *testing.T) {
	e := newTestEngine(t)
	pop := members(10, fin)
	spaces := []model.Space{{ID: "s", Name: "S", Capacity: 50, Location: "Sendling"}}

	recs, err := e.OptimalSpaceClusters(pop, spaces)
	require.NoError(t, err)
	spaces = AttachClusterData(spaces, recs)

	got, err := e.BusinessSpaceCompatibility(biz("x", fin), &spaces[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.93, got.Score, 1e-9)
	assert.Equal(t, fin, got.PrimaryCluster)
}
