package cluster

import (
	"math"
	"time"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

// ScoreAffiliations returns a 0-1 affinity for every cluster in the
// taxonomy. An interest counts toward a cluster when it fuzzily matches
// any of the cluster's categories: case-insensitive equality, or either
// string containing the other.
func (e *Engine) ScoreAffiliations(p model.BusinessProfile) map[string]float64 {
	scores := make(map[string]float64, e.tax.Len())
	interests := newFolder().all(p.Interests)

	e.tax.Each(func(i int, c *taxonomy.Cluster) {
		scores[c.ID] = e.affinity(interests, e.categories[i])
	})
	return scores
}

// affinity = min(1, matches / min(|categories|, |interests|) * boost).
// The min() denominator lets a business with few, all-matching interests
// still score high.
func (e *Engine) affinity(interests, categories []string) float64 {
	if len(interests) == 0 || len(categories) == 0 {
		return 0
	}

	matches := 0
	for _, in := range interests {
		for _, cat := range categories {
			if fuzzyMatch(in, cat) {
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0
	}

	denom := min(len(categories), len(interests))
	return math.Min(1, float64(matches)/float64(denom)*e.cfg.AffiliationBoost)
}

// Affiliations returns the ids of clusters scoring at or above threshold,
// in taxonomy order. The result is never nil.
func (e *Engine) Affiliations(p model.BusinessProfile, threshold float64) []string {
	scores := e.ScoreAffiliations(p)
	out := make([]string, 0, len(scores))
	e.tax.Each(func(_ int, c *taxonomy.Cluster) {
		if scores[c.ID] >= threshold {
			out = append(out, c.ID)
		}
	})
	return out
}

// DefaultAffiliations applies the configured threshold.
func (e *Engine) DefaultAffiliations(p model.BusinessProfile) []string {
	return e.Affiliations(p, e.cfg.AffiliationThreshold)
}

// Affiliate returns copies of businesses with ClusterAffiliations derived
// from their interests. Any affiliations already present are discarded.
func (e *Engine) Affiliate(businesses []model.BusinessProfile) []model.BusinessProfile {
	defer e.observe("affiliate", time.Now())

	out := model.CloneBusinesses(businesses)
	for i := range out {
		out[i].ClusterAffiliations = e.DefaultAffiliations(out[i])
		out[i].ClusterCentrality = nil
	}
	return out
}
