package cluster

import (
	"math"
	"sort"

	"github.com/sells-group/cluster-cli/internal/model"
)

// Analyze summarizes optimizer output: how many spaces recommend each
// cluster and with what average score, the best-scoring clusters, the
// user's best-matching cluster (when user is non-nil and affiliated), and
// an opportunity index floor(Σ count × avg).
func (e *Engine) Analyze(recs []model.SpaceRecommendation, user *model.BusinessProfile) model.ClusterAnalytics {
	var order []string
	stats := make(map[string]*model.ClusterStat)

	for _, r := range recs {
		for _, rc := range r.RecommendedClusters {
			st, ok := stats[rc.ClusterID]
			if !ok {
				st = &model.ClusterStat{ID: rc.ClusterID, Name: rc.ClusterName}
				if st.Name == "" {
					st.Name = e.tax.Name(rc.ClusterID)
				}
				if st.Name == "" {
					st.Name = "Unknown Cluster"
				}
				stats[rc.ClusterID] = st
				order = append(order, rc.ClusterID)
			}
			st.Count++
			st.TotalScore += rc.Score
		}
	}

	all := make([]model.ClusterStat, 0, len(order))
	opportunities := 0.0
	for _, id := range order {
		st := stats[id]
		st.AvgScore = st.TotalScore / float64(st.Count)
		opportunities += float64(st.Count) * st.AvgScore
		all = append(all, *st)
	}

	out := model.ClusterAnalytics{
		ClusterCounts:         append([]model.ClusterStat(nil), all...),
		BusinessOpportunities: int(math.Floor(opportunities)),
	}
	sort.SliceStable(out.ClusterCounts, func(i, j int) bool {
		return out.ClusterCounts[i].Count > out.ClusterCounts[j].Count
	})

	byAvg := append([]model.ClusterStat(nil), all...)
	sort.SliceStable(byAvg, func(i, j int) bool {
		return byAvg[i].AvgScore > byAvg[j].AvgScore
	})
	out.TopClusters = byAvg
	if limit := e.cfg.TopClusterLimit; limit > 0 && len(byAvg) > limit {
		out.TopClusters = byAvg[:limit]
	}

	if user != nil {
		for _, st := range byAvg {
			if user.InCluster(st.ID) {
				m := st
				out.UserClusterMatch = &m
				break
			}
		}
	}
	return out
}
