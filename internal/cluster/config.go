// Package cluster implements the business clustering and compatibility engine:
// cluster affiliation, pairwise compatibility, centrality, space-cluster
// optimization, and business-space resolution.
package cluster

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/config"
)

// DefaultEngineConfig returns a config.EngineConfig with the tuned defaults.
// Optimizer weights sum to 1.
func DefaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		AffiliationThreshold: 0.4,
		AffiliationBoost:     1.5,

		SharedClusterBase:      0.7,
		SharedClusterStep:      0.15,
		CompatibleClusterScore: 0.6,
		InterestOverlapFactor:  0.8,
		InterestOverlapCap:     0.5,
		FloorScore:             0.1,

		IsolatedCentrality:      0.3,
		InterestBonusCap:        0.2,
		InterestBonusSaturation: 10,
		ClusterBonusStep:        0.1,
		ClusterBonusCap:         0.2,
		Workers:                 4,

		// Weights (sum = 1).
		SizeWeight:      0.4,
		LocationWeight:  0.3,
		AmenitiesWeight: 0.3,

		SizeOccupancy:          0.7,
		SizeFactor:             0.5,
		HubDistricts:           []string{"Schwabing"},
		HubLocationScore:       0.8,
		DefaultLocationScore:   0.6,
		AmenityBaseScore:       0.5,
		AmenityMatchScore:      0.9,
		MaxRecommendedClusters: 3,

		NeutralSpaceScore:  0.5,
		DirectMatchBoost:   0.2,
		CompatibleDiscount: 0.8,
		NoRelationScore:    0.3,

		RecommendationLimit:  5,
		CompatibleSpaceMin:   0.5,
		CompatibleSpaceLimit: 6,
		TopClusterLimit:      3,
	}
}

// WeightSum returns the sum of the optimizer component weights.
func WeightSum(c config.EngineConfig) float64 {
	return c.SizeWeight + c.LocationWeight + c.AmenitiesWeight
}

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	// Scores and factors that must stay inside [0,1].
	unit := map[string]float64{
		"affiliation_threshold":    c.AffiliationThreshold,
		"shared_cluster_base":      c.SharedClusterBase,
		"shared_cluster_step":      c.SharedClusterStep,
		"compatible_cluster_score": c.CompatibleClusterScore,
		"interest_overlap_cap":     c.InterestOverlapCap,
		"floor_score":              c.FloorScore,
		"isolated_centrality":      c.IsolatedCentrality,
		"interest_bonus_cap":       c.InterestBonusCap,
		"cluster_bonus_step":       c.ClusterBonusStep,
		"cluster_bonus_cap":        c.ClusterBonusCap,
		"size_weight":              c.SizeWeight,
		"location_weight":          c.LocationWeight,
		"amenities_weight":         c.AmenitiesWeight,
		"hub_location_score":       c.HubLocationScore,
		"default_location_score":   c.DefaultLocationScore,
		"amenity_base_score":       c.AmenityBaseScore,
		"amenity_match_score":      c.AmenityMatchScore,
		"neutral_space_score":      c.NeutralSpaceScore,
		"direct_match_boost":       c.DirectMatchBoost,
		"compatible_discount":      c.CompatibleDiscount,
		"no_relation_score":        c.NoRelationScore,
		"compatible_space_min":     c.CompatibleSpaceMin,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0 and 1", name))
		}
	}

	if c.AffiliationBoost <= 0 {
		errs = append(errs, "affiliation_boost must be > 0")
	}
	if c.InterestOverlapFactor < 0 {
		errs = append(errs, "interest_overlap_factor must be >= 0")
	}
	if c.SizeOccupancy <= 0 {
		errs = append(errs, "size_occupancy must be > 0")
	}
	if c.SizeFactor < 0 {
		errs = append(errs, "size_factor must be >= 0")
	}

	// Weights should be close to 1 (allow tolerance for floating-point).
	if sum := WeightSum(c); math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("optimizer weights should sum to 1, got %.3f", sum))
	}

	if c.InterestBonusSaturation <= 0 {
		errs = append(errs, "interest_bonus_saturation must be > 0")
	}
	if c.Workers < 0 {
		errs = append(errs, "workers must be >= 0")
	}
	if c.MaxRecommendedClusters <= 0 {
		errs = append(errs, "max_recommended_clusters must be > 0")
	}
	if c.RecommendationLimit < 0 || c.CompatibleSpaceLimit < 0 || c.TopClusterLimit < 0 {
		errs = append(errs, "listing limits must be >= 0")
	}

	if len(errs) > 0 {
		// Map iteration order is random; keep the message stable.
		sort.Strings(errs)
		return eris.Errorf("cluster: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
