package model

// Space is a shared workspace that can host businesses.
type Space struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	Name      string   `json:"name" yaml:"name" validate:"required"`
	Capacity  int      `json:"capacity" yaml:"capacity" validate:"gt=0"`
	Location  string   `json:"location" yaml:"location"`
	Amenities []string `json:"amenities" yaml:"amenities"`

	// ClusterData is attached from the optimizer output; nil until then.
	ClusterData *SpaceClusterData `json:"cluster_data,omitempty" yaml:"-"`
}

// SpaceClusterData is the optimizer's verdict for one space.
// RecommendedClusters is sorted by descending score and Compatibility is
// the top score, or 0 when the list is empty.
type SpaceClusterData struct {
	RecommendedClusters []RecommendedCluster `json:"recommended_clusters"`
	Compatibility       float64              `json:"compatibility"`
}

// RecommendedCluster scores how well a cluster fits a space.
type RecommendedCluster struct {
	ClusterID   string  `json:"cluster_id"`
	ClusterName string  `json:"cluster_name"`
	Score       float64 `json:"score"`
	Businesses  int     `json:"businesses"`
}

// SpaceRecommendation is one row of optimizer output.
type SpaceRecommendation struct {
	SpaceID             string               `json:"space_id"`
	SpaceName           string               `json:"space_name"`
	RecommendedClusters []RecommendedCluster `json:"recommended_clusters"`
	Compatibility       float64              `json:"compatibility"`
}

// ClusterData converts the recommendation into the attachment carried on a Space.
func (r SpaceRecommendation) ClusterData() *SpaceClusterData {
	return &SpaceClusterData{
		RecommendedClusters: append([]RecommendedCluster(nil), r.RecommendedClusters...),
		Compatibility:       r.Compatibility,
	}
}

// Recommends reports whether clusterID is among the recommended clusters.
func (d *SpaceClusterData) Recommends(clusterID string) bool {
	if d == nil {
		return false
	}
	for _, rc := range d.RecommendedClusters {
		if rc.ClusterID == clusterID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the space.
func (s Space) Clone() Space {
	out := s
	out.Amenities = cloneStrings(s.Amenities)
	if s.ClusterData != nil {
		out.ClusterData = &SpaceClusterData{
			RecommendedClusters: append([]RecommendedCluster(nil), s.ClusterData.RecommendedClusters...),
			Compatibility:       s.ClusterData.Compatibility,
		}
	}
	return out
}
