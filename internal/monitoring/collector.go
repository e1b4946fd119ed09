// Package monitoring exposes Prometheus metrics and runs periodic health
// checks over the reference data and recorded optimizer runs.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cluster-cli/internal/model"
	"github.com/sells-group/cluster-cli/internal/store"
)

// MetricsSnapshot holds a point-in-time view of system health.
type MetricsSnapshot struct {
	// Reference data.
	Businesses int `json:"businesses"`
	Spaces     int `json:"spaces"`

	// Runs within the lookback window.
	RunsTotal int `json:"runs_total"`

	// Latest recorded run, if any.
	LatestRunID      string    `json:"latest_run_id,omitempty"`
	LatestRunAt      time.Time `json:"latest_run_at,omitempty"`
	LatestTaxonomy   string    `json:"latest_taxonomy,omitempty"`
	AvgCompatibility float64   `json:"avg_compatibility"`
	UnmatchedSpaces  int       `json:"unmatched_spaces"`

	// Taxonomy the engine currently runs with.
	CurrentTaxonomy string `json:"current_taxonomy"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers health metrics from the store.
type Collector struct {
	store           store.Store
	taxonomyVersion string
}

// NewCollector creates a new metrics collector. taxonomyVersion is the
// version of the taxonomy the running engine uses.
func NewCollector(st store.Store, taxonomyVersion string) *Collector {
	return &Collector{store: st, taxonomyVersion: taxonomyVersion}
}

// Collect gathers a snapshot of system metrics over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := time.Now().UTC()
	snap := &MetricsSnapshot{
		CurrentTaxonomy: c.taxonomyVersion,
		LookbackHours:   lookbackHours,
		CollectedAt:     now,
	}

	businesses, err := c.store.ListBusinesses(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list businesses")
	}
	spaces, err := c.store.ListSpaces(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list spaces")
	}
	snap.Businesses = len(businesses)
	snap.Spaces = len(spaces)

	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour)
	runs, err := c.store.ListRuns(ctx, store.RunFilter{
		CreatedAfter: cutoff,
		Limit:        10000,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}
	snap.RunsTotal = len(runs)

	// Latest run regardless of the window, so staleness is visible.
	latest, err := c.store.ListRuns(ctx, store.RunFilter{Limit: 1})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: latest run")
	}
	if len(latest) > 0 {
		summarizeRun(snap, latest[0])
	}

	return snap, nil
}

func summarizeRun(snap *MetricsSnapshot, r model.Run) {
	snap.LatestRunID = r.ID
	snap.LatestRunAt = r.CreatedAt
	snap.LatestTaxonomy = r.TaxonomyVersion

	total := 0.0
	for _, rec := range r.Recommendations {
		total += rec.Compatibility
		if len(rec.RecommendedClusters) == 0 {
			snap.UnmatchedSpaces++
		}
	}
	if len(r.Recommendations) > 0 {
		snap.AvgCompatibility = total / float64(len(r.Recommendations))
	}
}
