package cluster

import (
	"sort"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

// Recommendations returns the businesses most compatible with b, best
// first, excluding b itself (matched by ID). limit <= 0 uses the configured
// default, and a configured default of 0 means no limit. all must already
// carry ClusterAffiliations.
func (e *Engine) Recommendations(b model.BusinessProfile, all []model.BusinessProfile, limit int) []model.PeerMatch {
	if limit <= 0 {
		limit = e.cfg.RecommendationLimit
	}

	self := e.view(b)

	matches := make([]model.PeerMatch, 0, len(all))
	for _, other := range all {
		if other.ID == b.ID {
			continue
		}
		matches = append(matches, model.PeerMatch{
			Business: other.Clone(),
			Score:    e.pair(self, e.view(other)).Score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// CompatibleSpaces scores every space for b and keeps those above the
// configured minimum, best first, up to the configured limit. Spaces should
// carry ClusterData (see AttachClusterData).
func (e *Engine) CompatibleSpaces(b model.BusinessProfile, spaces []model.Space) ([]model.SpaceMatch, error) {
	matches := make([]model.SpaceMatch, 0, len(spaces))
	for i := range spaces {
		res, err := e.BusinessSpaceCompatibility(b, &spaces[i])
		if err != nil {
			return nil, err
		}
		if res.Score <= e.cfg.CompatibleSpaceMin {
			continue
		}
		matches = append(matches, model.SpaceMatch{Space: spaces[i].Clone(), Compatibility: res})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Compatibility.Score > matches[j].Compatibility.Score
	})
	if limit := e.cfg.CompatibleSpaceLimit; limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SpacesForCluster returns the spaces whose recommendations include clusterID.
func SpacesForCluster(clusterID string, spaces []model.Space) []model.Space {
	var out []model.Space
	for _, s := range spaces {
		if s.ClusterData.Recommends(clusterID) {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Overview is the taxonomy together with a fully derived business population.
type Overview struct {
	Clusters   []taxonomy.Cluster      `json:"clusters"`
	Businesses []model.BusinessProfile `json:"businesses"`
}

// Overview derives affiliations for businesses that lack them and computes
// centrality for the whole population.
func (e *Engine) Overview(businesses []model.BusinessProfile) Overview {
	enriched := model.CloneBusinesses(businesses)
	for i := range enriched {
		if enriched[i].ClusterAffiliations == nil {
			enriched[i].ClusterAffiliations = e.DefaultAffiliations(enriched[i])
		}
	}
	return Overview{
		Clusters:   e.tax.Clusters(),
		Businesses: e.ComputeCentrality(enriched),
	}
}
