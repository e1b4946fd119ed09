package cluster

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/config"
	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

const (
	dt  = taxonomy.DigitalTransformation
	fin = taxonomy.FinancialInnovation
	i4  = taxonomy.Industry4
	sus = taxonomy.SustainableTech
	hw  = taxonomy.HealthWellbeing
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngineWith(t, DefaultEngineConfig())
}

func newTestEngineWith(t *testing.T, cfg config.EngineConfig) *Engine {
	t.Helper()
	e, err := New(taxonomy.Default(), cfg)
	require.NoError(t, err)
	return e
}

// biz builds a profile with precomputed affiliations.
func biz(id string, clusters ...string) model.BusinessProfile {
	if clusters == nil {
		clusters = []string{}
	}
	return model.BusinessProfile{ID: id, Name: "Business " + id, ClusterAffiliations: clusters}
}

func withInterests(b model.BusinessProfile, interests ...string) model.BusinessProfile {
	b.Interests = interests
	return b
}
