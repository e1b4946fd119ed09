// Package model holds the records the clustering engine reads and produces.
package model

// BusinessProfile is a business and its declared interest tags.
// ClusterAffiliations and ClusterCentrality are derived by the engine and
// are never treated as input.
type BusinessProfile struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	Name      string   `json:"name" yaml:"name" validate:"required"`
	Company   string   `json:"company,omitempty" yaml:"company"`
	Type      string   `json:"type,omitempty" yaml:"type"`
	Interests []string `json:"interests" yaml:"interests" validate:"dive,required"`

	ClusterAffiliations []string `json:"cluster_affiliations,omitempty" yaml:"cluster_affiliations,omitempty"`
	ClusterCentrality   *float64 `json:"cluster_centrality,omitempty" yaml:"cluster_centrality,omitempty"`
}

// Clone returns a deep copy so derived fields can be set without aliasing
// the caller's slices.
func (b BusinessProfile) Clone() BusinessProfile {
	out := b
	out.Interests = cloneStrings(b.Interests)
	out.ClusterAffiliations = cloneStrings(b.ClusterAffiliations)
	if b.ClusterCentrality != nil {
		v := *b.ClusterCentrality
		out.ClusterCentrality = &v
	}
	return out
}

// Centrality returns the computed centrality, or 0 when not yet computed.
func (b BusinessProfile) Centrality() float64 {
	if b.ClusterCentrality == nil {
		return 0
	}
	return *b.ClusterCentrality
}

// InCluster reports whether the business is affiliated with clusterID.
func (b BusinessProfile) InCluster(clusterID string) bool {
	for _, id := range b.ClusterAffiliations {
		if id == clusterID {
			return true
		}
	}
	return false
}

// CloneBusinesses deep-copies a slice of profiles.
func CloneBusinesses(in []BusinessProfile) []BusinessProfile {
	if in == nil {
		return nil
	}
	out := make([]BusinessProfile, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
