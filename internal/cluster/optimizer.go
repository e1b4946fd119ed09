package cluster

import (
	"math"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/taxonomy"
)

// OptimalSpaceClusters ranks, for every space, the clusters it is best
// suited to host. Each (space, cluster) pair is a weighted sum of size,
// location, and amenity fit. Clusters with no members are skipped and only
// the top MaxRecommendedClusters are kept. The result is sorted by
// descending Compatibility; ties keep input order.
//
// businesses must already carry ClusterAffiliations.
func (e *Engine) OptimalSpaceClusters(businesses []model.BusinessProfile, spaces []model.Space) ([]model.SpaceRecommendation, error) {
	defer e.observe("optimize", time.Now())

	for i := range spaces {
		if err := model.Validate(spaces[i]); err != nil {
			return nil, eris.Wrapf(ErrInvalidSpace, "space %d (%q): %s", i, spaces[i].ID, err)
		}
	}

	members := e.memberCounts(businesses)
	f := newFolder()

	recs := make([]model.SpaceRecommendation, 0, len(spaces))
	for _, s := range spaces {
		recs = append(recs, e.recommendFor(s, members, f))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Compatibility > recs[j].Compatibility
	})

	zap.L().Debug("cluster: space recommendations computed",
		zap.Int("spaces", len(spaces)),
		zap.Int("businesses", len(businesses)),
	)
	return recs, nil
}

// memberCounts partitions businesses by affiliation, indexed like the taxonomy.
func (e *Engine) memberCounts(businesses []model.BusinessProfile) []int {
	counts := make([]int, e.tax.Len())
	for _, b := range businesses {
		seen := make(map[int]bool, len(b.ClusterAffiliations))
		for _, id := range b.ClusterAffiliations {
			if i := e.tax.Index(id); i >= 0 && !seen[i] {
				seen[i] = true
				counts[i]++
			}
		}
	}
	return counts
}

func (e *Engine) recommendFor(s model.Space, members []int, f *folder) model.SpaceRecommendation {
	location := f.fold(s.Location)
	amenities := f.all(s.Amenities)

	scored := make([]model.RecommendedCluster, 0, len(members))
	e.tax.Each(func(i int, c *taxonomy.Cluster) {
		if members[i] == 0 {
			return
		}
		total := e.cfg.SizeWeight*e.sizeScore(s.Capacity, members[i]) +
			e.cfg.LocationWeight*e.locationScore(location) +
			e.cfg.AmenitiesWeight*e.amenityScore(i, amenities)
		scored = append(scored, model.RecommendedCluster{
			ClusterID:   c.ID,
			ClusterName: c.Name,
			Score:       total,
			Businesses:  members[i],
		})
	})

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > e.cfg.MaxRecommendedClusters {
		scored = scored[:e.cfg.MaxRecommendedClusters]
	}

	rec := model.SpaceRecommendation{
		SpaceID:             s.ID,
		SpaceName:           s.Name,
		RecommendedClusters: scored,
	}
	if len(scored) > 0 {
		rec.Compatibility = scored[0].Score
	}
	return rec
}

// sizeScore rewards spaces whose capacity comfortably exceeds the share of
// the cluster expected to be on site.
func (e *Engine) sizeScore(capacity, members int) float64 {
	expected := math.Max(float64(members)*e.cfg.SizeOccupancy, 1)
	return math.Min(1, float64(capacity)/expected*e.cfg.SizeFactor)
}

// locationScore is a flat stand-in for geo proximity: hub districts score
// higher than anywhere else.
func (e *Engine) locationScore(foldedLocation string) float64 {
	if containsAny(foldedLocation, e.hubs) {
		return e.cfg.HubLocationScore
	}
	return e.cfg.DefaultLocationScore
}

func (e *Engine) amenityScore(cluster int, foldedAmenities []string) float64 {
	keywords := e.amenities[cluster]
	for _, a := range foldedAmenities {
		if containsAny(a, keywords) {
			return e.cfg.AmenityMatchScore
		}
	}
	return e.cfg.AmenityBaseScore
}

// AttachClusterData returns copies of spaces with ClusterData set from the
// matching recommendation. Spaces without one keep a nil ClusterData.
func AttachClusterData(spaces []model.Space, recs []model.SpaceRecommendation) []model.Space {
	byID := make(map[string]model.SpaceRecommendation, len(recs))
	for _, r := range recs {
		byID[r.SpaceID] = r
	}

	out := make([]model.Space, len(spaces))
	for i, s := range spaces {
		out[i] = s.Clone()
		if r, ok := byID[s.ID]; ok {
			out[i].ClusterData = r.ClusterData()
		} else {
			out[i].ClusterData = nil
		}
	}
	return out
}
