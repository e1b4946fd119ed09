package cluster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/model"
)

func TestComputeCentrality_Scenarios(t *testing.T) {
	e := newTestEngine(t)

	in := []model.BusinessProfile{
		withInterests(biz("a", dt), "SaaS", "IoT"),
		withInterests(biz("b", dt), "SaaS", "AI/ML"),
		biz("c", i4),
	}
	out := e.ComputeCentrality(in)
	require.Len(t, out, 3)

	assert.InDelta(t, 0.74, out[0].Centrality(), 1e-9)
	assert.InDelta(t, 0.74, out[1].Centrality(), 1e-9)
	assert.InDelta(t, 0.3, out[2].Centrality(), 1e-9)

	for _, b := range in {
		assert.Nil(t, b.ClusterCentrality)
	}
}

func TestComputeCentrality_MultiClusterBonus(t *testing.T) {
	e := newTestEngine(t)

	in := []model.BusinessProfile{
		withInterests(biz("a", dt, i4), "SaaS", "IoT", "AI/ML", "Logistics", "Manufacturing"),
		biz("b", dt),
		biz("c", i4),
	}
	out := e.ComputeCentrality(in)

	assert.InDelta(t, 0.9, out[0].Centrality(), 1e-9)
	assert.InDelta(t, 0.7, out[1].Centrality(), 1e-9)
	assert.InDelta(t, 0.7, out[2].Centrality(), 1e-9)
}

func TestComputeCentrality_Capped(t *testing.T) {
	e := newTestEngine(t)
	interests := make([]string, 20)
	for i := range interests {
		interests[i] = "SaaS"
	}
	in := []model.BusinessProfile{
		withInterests(biz("a", dt, i4, hw), interests...),
		biz("b", dt, i4, hw),
	}
	out := e.ComputeCentrality(in)
	assert.InDelta(t, 1.0, out[0].Centrality(), 1e-9)
}

func TestComputeCentrality_Isolated(t *testing.T) {
	e := newTestEngine(t)
	out := e.ComputeCentrality([]model.BusinessProfile{
		biz("a"),
		biz("b", fin),
		biz("c", sus),
	})
	for _, b := range out {
		require.NotNil(t, b.ClusterCentrality)
		assert.InDelta(t, 0.3, *b.ClusterCentrality, 1e-12)
	}
}

func TestComputeCentrality_Empty(t *testing.T) {
	e := newTestEngine(t)
	assert.Empty(t, e.ComputeCentrality(nil))
}

func TestComputeCentrality_DeterministicAcrossWorkers(t *testing.T) {
	pop := newTestEngine(t).Affiliate(samplePopulation(60))

	cfg := DefaultEngineConfig()
	cfg.Workers = 1
	serial := newTestEngineWith(t, cfg).ComputeCentrality(pop)

	cfg.Workers = 16
	parallel := newTestEngineWith(t, cfg).ComputeCentrality(pop)

	assert.Equal(t, serial, parallel)
	for _, b := range parallel {
		assert.GreaterOrEqual(t, b.Centrality(), 0.0)
		assert.LessOrEqual(t, b.Centrality(), 1.0)
	}

	// recomputing over the output gives the same values
	assert.Equal(t, parallel, newTestEngine(t).ComputeCentrality(parallel))
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveComputation(op string, _ time.Duration) {
	r.ops = append(r.ops, op)
}

func TestEngine_ReportsTimings(t *testing.T) {
	obs := &recordingObserver{}
	e, err := New(newTestEngine(t).Taxonomy(), DefaultEngineConfig(), WithObserver(obs))
	require.NoError(t, err)

	pop := e.Affiliate(samplePopulation(5))
	e.ComputeCentrality(pop)
	_, err = e.OptimalSpaceClusters(pop, []model.Space{{ID: "s", Name: "S", Capacity: 10}})
	require.NoError(t, err)

	assert.Equal(t, []string{"affiliate", "centrality", "optimize"}, obs.ops)
}
