package model

// CompatibilityResult is the shared output of pairwise and business-space
// scoring. PrimaryCluster and ClusterName are empty when no cluster
// relationship explains the score.
type CompatibilityResult struct {
	Score          float64 `json:"score"`
	PrimaryCluster string  `json:"primary_cluster,omitempty"`
	ClusterName    string  `json:"cluster_name,omitempty"`
}

// HasCluster reports whether a cluster relationship was found.
func (r CompatibilityResult) HasCluster() bool { return r.PrimaryCluster != "" }

// PeerMatch is a recommended partner business.
type PeerMatch struct {
	Business BusinessProfile `json:"business"`
	Score    float64         `json:"score"`
}

// SpaceMatch is a space scored against one business.
type SpaceMatch struct {
	Space         Space               `json:"space"`
	Compatibility CompatibilityResult `json:"compatibility"`
}

// ClusterStat aggregates how often a cluster is recommended across spaces.
type ClusterStat struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalScore float64 `json:"total_score"`
	AvgScore   float64 `json:"avg_score"`
}

// ClusterAnalytics summarizes optimizer output across all spaces.
type ClusterAnalytics struct {
	ClusterCounts         []ClusterStat `json:"cluster_counts"`
	TopClusters           []ClusterStat `json:"top_clusters"`
	UserClusterMatch      *ClusterStat  `json:"user_cluster_match,omitempty"`
	BusinessOpportunities int           `json:"business_opportunities"`
}
