package cluster

import (
	"math"

	"github.com/sells-group/cluster-cli/internal/model"
)

// BusinessSpaceCompatibility scores how well a business fits a space that
// has already been through OptimalSpaceClusters.
//
// A space without cluster data gets the neutral score. Otherwise a direct
// match on a recommended cluster is boosted above the space's own
// recommendation strength, a compatible-cluster match is discounted, and
// no relationship at all falls back to the baseline.
//
// If the business's affiliations have never been computed (nil), they are
// derived here from its interests.
func (e *Engine) BusinessSpaceCompatibility(b model.BusinessProfile, s *model.Space) (model.CompatibilityResult, error) {
	if s == nil {
		return model.CompatibilityResult{}, ErrNilSpace
	}
	if s.ClusterData == nil || len(s.ClusterData.RecommendedClusters) == 0 {
		return model.CompatibilityResult{Score: e.cfg.NeutralSpaceScore}, nil
	}

	clusters := b.ClusterAffiliations
	if clusters == nil {
		clusters = e.DefaultAffiliations(b)
	}
	member := make(map[string]bool, len(clusters))
	for _, id := range clusters {
		member[id] = true
	}

	recs := s.ClusterData.RecommendedClusters

	best := -1
	for i, rc := range recs {
		if member[rc.ClusterID] && (best < 0 || rc.Score > recs[best].Score) {
			best = i
		}
	}
	if best >= 0 {
		return model.CompatibilityResult{
			Score:          math.Min(1, recs[best].Score+e.cfg.DirectMatchBoost),
			PrimaryCluster: recs[best].ClusterID,
			ClusterName:    e.clusterName(recs[best]),
		}, nil
	}

	best = -1
	for i, rc := range recs {
		if best >= 0 && rc.Score <= recs[best].Score {
			continue
		}
		for _, id := range clusters {
			if e.tax.Compatible(id, rc.ClusterID) {
				best = i
				break
			}
		}
	}
	if best >= 0 {
		return model.CompatibilityResult{
			Score:          math.Min(1, recs[best].Score*e.cfg.CompatibleDiscount),
			PrimaryCluster: recs[best].ClusterID,
			ClusterName:    e.clusterName(recs[best]),
		}, nil
	}

	return model.CompatibilityResult{Score: e.cfg.NoRelationScore}, nil
}

func (e *Engine) clusterName(rc model.RecommendedCluster) string {
	if rc.ClusterName != "" {
		return rc.ClusterName
	}
	if name := e.tax.Name(rc.ClusterID); name != "" {
		return name
	}
	return "Compatible Cluster"
}
