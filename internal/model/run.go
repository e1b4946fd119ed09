package model

import "time"

// Run records one optimizer pass so it can be inspected later. The hashes
// identify the exact reference data the pass saw.
type Run struct {
	ID              string                `json:"id"`
	TaxonomyVersion string                `json:"taxonomy_version"`
	BusinessHash    string                `json:"business_hash"`
	SpaceHash       string                `json:"space_hash"`
	Businesses      int                   `json:"businesses"`
	Spaces          int                   `json:"spaces"`
	Recommendations []SpaceRecommendation `json:"recommendations"`
	CreatedAt       time.Time             `json:"created_at"`
}
