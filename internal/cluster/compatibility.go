package cluster

import (
	"math"

	"github.com/sells-group/cluster-cli/internal/model"
)

// profileView is a business prepared for repeated pairwise scoring.
// Interests are compared verbatim here; only affiliation scoring folds case.
type profileView struct {
	clusters      []string
	clusterSet    map[string]struct{}
	interestSet   map[string]struct{}
	interestCount int
}

func (e *Engine) view(b model.BusinessProfile) profileView {
	v := profileView{
		clusterSet:    make(map[string]struct{}, len(b.ClusterAffiliations)),
		interestSet:   make(map[string]struct{}, len(b.Interests)),
		interestCount: len(b.Interests),
	}
	for _, id := range b.ClusterAffiliations {
		if _, dup := v.clusterSet[id]; dup {
			continue
		}
		v.clusterSet[id] = struct{}{}
		v.clusters = append(v.clusters, id)
	}
	for _, in := range b.Interests {
		v.interestSet[in] = struct{}{}
	}
	return v
}

func (v profileView) shares(o profileView) bool {
	for _, id := range v.clusters {
		if _, ok := o.clusterSet[id]; ok {
			return true
		}
	}
	return false
}

// Compatibility scores two businesses in [0,1]. Both profiles must already
// carry ClusterAffiliations; they are not derived here.
func (e *Engine) Compatibility(a, b model.BusinessProfile) float64 {
	return e.PairCompatibility(a, b).Score
}

// PairCompatibility scores two businesses and names the cluster that
// explains the score, if any. Tiers, first match wins:
//
//  1. shared clusters: base + (shared-1)*step, capped at 1
//  2. any compatible cluster pair: flat score, matches do not stack
//  3. shared interests: overlap ratio * factor, capped below tier 2
//  4. floor
func (e *Engine) PairCompatibility(a, b model.BusinessProfile) model.CompatibilityResult {
	return e.pair(e.view(a), e.view(b))
}

func (e *Engine) pair(a, b profileView) model.CompatibilityResult {
	shared := 0
	primary := ""
	for _, id := range a.clusters {
		if _, ok := b.clusterSet[id]; ok {
			shared++
			primary = e.earlier(primary, id)
		}
	}
	if shared > 0 {
		return model.CompatibilityResult{
			Score:          math.Min(1, e.cfg.SharedClusterBase+float64(shared-1)*e.cfg.SharedClusterStep),
			PrimaryCluster: primary,
			ClusterName:    e.tax.Name(primary),
		}
	}

	for _, ca := range a.clusters {
		for _, cb := range b.clusters {
			if e.tax.Compatible(ca, cb) {
				primary = e.earlier(primary, e.earlier(ca, cb))
			}
		}
	}
	if primary != "" {
		return model.CompatibilityResult{
			Score:          e.cfg.CompatibleClusterScore,
			PrimaryCluster: primary,
			ClusterName:    e.tax.Name(primary),
		}
	}

	common := 0
	for k := range a.interestSet {
		if _, ok := b.interestSet[k]; ok {
			common++
		}
	}
	total := max(a.interestCount, b.interestCount)
	if total > 0 && common > 0 {
		return model.CompatibilityResult{
			Score: math.Min(e.cfg.InterestOverlapCap, float64(common)/float64(total)*e.cfg.InterestOverlapFactor),
		}
	}

	return model.CompatibilityResult{Score: e.cfg.FloorScore}
}

// earlier returns whichever cluster id comes first in taxonomy order.
// Unknown ids sort last; "" loses to anything.
func (e *Engine) earlier(cur, id string) string {
	if cur == "" {
		return id
	}
	ci, ii := e.tax.Index(cur), e.tax.Index(id)
	switch {
	case ii < 0:
		return cur
	case ci < 0 || ii < ci:
		return id
	default:
		return cur
	}
}
