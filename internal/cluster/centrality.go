package cluster

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cluster-cli/internal/model"
)

// pairKey is an unordered index pair; compatibility is symmetric so (i,j)
// and (j,i) share one entry.
type pairKey struct{ lo, hi int }

func newPairKey(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{lo: i, hi: j}
}

// pairMemo caches pair scores for the lifetime of one ComputeCentrality call.
type pairMemo struct {
	mu     sync.RWMutex
	scores map[pairKey]float64
}

func (m *pairMemo) get(k pairKey, compute func() float64) float64 {
	m.mu.RLock()
	v, ok := m.scores[k]
	m.mu.RUnlock()
	if ok {
		return v
	}

	v = compute()
	m.mu.Lock()
	m.scores[k] = v
	m.mu.Unlock()
	return v
}

// ComputeCentrality returns copies of businesses with ClusterCentrality set.
// A business's peers are the others sharing at least one cluster with it.
// Without peers it gets the isolated floor; otherwise its mean
// compatibility with peers plus small bonuses for interest breadth and
// multi-cluster membership, capped at 1.
//
// The work is O(n²) in the population; rows are scored in parallel and
// each unordered pair is computed once.
func (e *Engine) ComputeCentrality(businesses []model.BusinessProfile) []model.BusinessProfile {
	defer e.observe("centrality", time.Now())

	out := model.CloneBusinesses(businesses)
	n := len(out)
	if n == 0 {
		return out
	}

	views := make([]profileView, n)
	for i := range out {
		views[i] = e.view(out[i])
	}

	memo := &pairMemo{scores: make(map[pairKey]float64)}
	results := make([]float64, n)

	var g errgroup.Group
	g.SetLimit(max(e.cfg.Workers, 1))
	for i := range out {
		g.Go(func() error {
			results[i] = e.centralityOf(i, out[i], views, memo)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	for i := range out {
		v := results[i]
		out[i].ClusterCentrality = &v
	}

	zap.L().Debug("cluster: centrality computed",
		zap.Int("businesses", n),
		zap.Int("pairs", len(memo.scores)),
	)
	return out
}

func (e *Engine) centralityOf(i int, b model.BusinessProfile, views []profileView, memo *pairMemo) float64 {
	total := 0.0
	peers := 0
	for j := range views {
		if j == i || !views[i].shares(views[j]) {
			continue
		}
		total += memo.get(newPairKey(i, j), func() float64 {
			return e.pair(views[i], views[j]).Score
		})
		peers++
	}

	if peers == 0 {
		return e.cfg.IsolatedCentrality
	}

	avg := total / float64(peers)
	interestBonus := math.Min(e.cfg.InterestBonusCap,
		float64(len(b.Interests))/float64(e.cfg.InterestBonusSaturation)*e.cfg.InterestBonusCap)
	clusterBonus := math.Min(e.cfg.ClusterBonusCap,
		float64(len(views[i].clusters)-1)*e.cfg.ClusterBonusStep)

	return clamp01(avg + interestBonus + clusterBonus)
}
