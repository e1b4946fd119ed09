package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

func TestScoreAffiliations_AIAndIoT(t *testing.T) {
	e := newTestEngine(t)
	p := model.BusinessProfile{ID: "b1", Name: "Sensorik", Interests: []string{"AI/ML", "IoT"}}

	scores := e.ScoreAffiliations(p)
	assert.Len(t, scores, 5)
	assert.InDelta(t, 1.0, scores[i4], 1e-9)
	assert.InDelta(t, 1.0, scores[dt], 1e-9)
	assert.InDelta(t, 1.0, scores[hw], 1e-9)
	assert.InDelta(t, 0.75, scores[sus], 1e-9)
	assert.Zero(t, scores[fin])

	assert.Equal(t, []string{dt, i4, sus, hw}, e.DefaultAffiliations(p))
}

func TestScoreAffiliations_FuzzyAndCaseInsensitive(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name     string
		interest string
		cluster  string
	}{
		{"lowercase", "iot", sus},
		{"interest contains category", "Industrial IoT", i4},
		{"category contains interest", "Chain", i4},
		{"padded", "  fintech ", fin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.BusinessProfile{Interests: []string{tt.interest}}
			assert.InDelta(t, 1.0, e.ScoreAffiliations(p)[tt.cluster], 1e-9)
		})
	}
}

func TestScoreAffiliations_EmptyAndBlank(t *testing.T) {
	e := newTestEngine(t)

	for _, interests := range [][]string{nil, {}, {"", "   "}} {
		p := model.BusinessProfile{Interests: interests}
		for id, s := range e.ScoreAffiliations(p) {
			assert.Zero(t, s, id)
		}
		aff := e.DefaultAffiliations(p)
		assert.NotNil(t, aff)
		assert.Empty(t, aff)
	}
}

func TestScoreAffiliations_InRange(t *testing.T) {
	e := newTestEngine(t)
	for _, p := range samplePopulation(40) {
		for id, s := range e.ScoreAffiliations(p) {
			assert.GreaterOrEqual(t, s, 0.0, id)
			assert.LessOrEqual(t, s, 1.0, id)
		}
	}
}

func TestAffiliations_MonotonicInThreshold(t *testing.T) {
	e := newTestEngine(t)
	for _, p := range samplePopulation(20) {
		prev := len(e.Affiliations(p, 0))
		assert.Equal(t, 5, prev)
		for _, th := range []float64{0.1, 0.25, 0.4, 0.5, 0.75, 0.9, 1.0} {
			n := len(e.Affiliations(p, th))
			assert.LessOrEqual(t, n, prev, "threshold %.2f", th)
			prev = n
		}
	}
}

func TestAffiliate_CopiesAndIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	stale := 0.9
	in := []model.BusinessProfile{
		{ID: "a", Name: "A", Interests: []string{"Fintech"}, ClusterAffiliations: []string{hw}, ClusterCentrality: &stale},
		{ID: "b", Name: "B", Interests: []string{"Knitting"}},
	}

	out := e.Affiliate(in)
	assert.Equal(t, []string{fin}, out[0].ClusterAffiliations)
	assert.Nil(t, out[0].ClusterCentrality)
	assert.NotNil(t, out[1].ClusterAffiliations)
	assert.Empty(t, out[1].ClusterAffiliations)

	// inputs untouched
	assert.Equal(t, []string{hw}, in[0].ClusterAffiliations)
	assert.NotNil(t, in[0].ClusterCentrality)

	assert.Equal(t, out, e.Affiliate(out))
}

func TestAffiliate_CustomTaxonomy(t *testing.T) {
	tax := taxonomy.MustNew([]taxonomy.Cluster{
		{ID: "food", Name: "Food", Categories: []string{"Bakery", "Coffee"}},
	})
	e, err := New(tax, DefaultEngineConfig())
	assert.NoError(t, err)

	out := e.Affiliate([]model.BusinessProfile{{ID: "x", Name: "X", Interests: []string{"coffee roasting"}}})
	assert.Equal(t, []string{"food"}, out[0].ClusterAffiliations)
}

// samplePopulation builds n deterministic profiles over the category
// vocabulary.
func samplePopulation(n int) []model.BusinessProfile {
	cats := taxonomy.BusinessCategories
	out := make([]model.BusinessProfile, n)
	for i := range out {
		k := i % 5
		interests := make([]string, 0, k)
		for j := 0; j < k; j++ {
			interests = append(interests, cats[(i*7+j*3)%len(cats)])
		}
		out[i] = model.BusinessProfile{
			ID:        "b" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Name:      "Business",
			Interests: interests,
		}
	}
	return out
}
