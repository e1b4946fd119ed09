package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/config"
)

// AlertType identifies the kind of alert.
type AlertType string

const (
	AlertEmptyReferenceData AlertType = "empty_reference_data"
	AlertStaleRuns          AlertType = "stale_runs"
	AlertTaxonomyDrift      AlertType = "taxonomy_drift"
	AlertLowCompatibility   AlertType = "low_compatibility"
	AlertUnmatchedSpaces    AlertType = "unmatched_spaces"
)

// Alert represents a single alert to be sent.
type Alert struct {
	Type      AlertType      `json:"type"`
	Severity  string         `json:"severity"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Alerter evaluates a MetricsSnapshot against configured thresholds
// and sends alerts via webhook when thresholds are breached.
type Alerter struct {
	cfg    config.MonitoringConfig
	client *http.Client
}

// NewAlerter creates a new Alerter with the given monitoring config.
func NewAlerter(cfg config.MonitoringConfig) *Alerter {
	return &Alerter{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate checks the snapshot against thresholds and returns any alerts.
func (a *Alerter) Evaluate(snap *MetricsSnapshot) []Alert {
	var alerts []Alert
	now := time.Now().UTC()

	if snap.Businesses == 0 || snap.Spaces == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertEmptyReferenceData,
			Severity: "high",
			Message: fmt.Sprintf("Reference data incomplete: %d businesses, %d spaces",
				snap.Businesses, snap.Spaces),
			Details: map[string]any{
				"businesses": snap.Businesses,
				"spaces":     snap.Spaces,
			},
			Timestamp: now,
		})
		// Nothing else is meaningful without data.
		return alerts
	}

	if snap.RunsTotal == 0 {
		alerts = append(alerts, Alert{
			Type:     AlertStaleRuns,
			Severity: "medium",
			Message:  fmt.Sprintf("No optimizer runs recorded in last %dh", snap.LookbackHours),
			Details: map[string]any{
				"latest_run_id": snap.LatestRunID,
				"latest_run_at": snap.LatestRunAt,
			},
			Timestamp: now,
		})
	}

	if snap.LatestTaxonomy != "" && snap.LatestTaxonomy != snap.CurrentTaxonomy {
		alerts = append(alerts, Alert{
			Type:     AlertTaxonomyDrift,
			Severity: "medium",
			Message: fmt.Sprintf("Latest run %s used taxonomy %s, engine runs %s",
				snap.LatestRunID, snap.LatestTaxonomy, snap.CurrentTaxonomy),
			Details: map[string]any{
				"run_taxonomy":     snap.LatestTaxonomy,
				"current_taxonomy": snap.CurrentTaxonomy,
			},
			Timestamp: now,
		})
	}

	if snap.LatestRunID != "" && a.cfg.MinAvgCompatibility > 0 && snap.AvgCompatibility < a.cfg.MinAvgCompatibility {
		alerts = append(alerts, Alert{
			Type:     AlertLowCompatibility,
			Severity: "low",
			Message: fmt.Sprintf("Average space compatibility %.2f below threshold %.2f",
				snap.AvgCompatibility, a.cfg.MinAvgCompatibility),
			Details: map[string]any{
				"avg_compatibility": snap.AvgCompatibility,
				"threshold":         a.cfg.MinAvgCompatibility,
			},
			Timestamp: now,
		})
	}

	if snap.UnmatchedSpaces > 0 {
		alerts = append(alerts, Alert{
			Type:     AlertUnmatchedSpaces,
			Severity: "low",
			Message:  fmt.Sprintf("%d space(s) received no cluster recommendation", snap.UnmatchedSpaces),
			Details: map[string]any{
				"unmatched": snap.UnmatchedSpaces,
				"run_id":    snap.LatestRunID,
			},
			Timestamp: now,
		})
	}

	return alerts
}

// SendAlerts delivers alerts to the configured webhook URL.
// Returns the number of alerts successfully sent.
func (a *Alerter) SendAlerts(ctx context.Context, alerts []Alert) int {
	if a.cfg.WebhookURL == "" || len(alerts) == 0 {
		return 0
	}

	sent := 0
	for _, alert := range alerts {
		if err := a.sendWebhook(ctx, alert); err != nil {
			zap.L().Error("monitoring: failed to send alert",
				zap.String("type", string(alert.Type)),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("monitoring: alert sent",
			zap.String("type", string(alert.Type)),
			zap.String("severity", alert.Severity),
		)
		sent++
	}
	return sent
}

func (a *Alerter) sendWebhook(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return eris.Wrap(err, "monitoring: marshal alert")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "monitoring: create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "monitoring: webhook request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		return eris.Errorf("monitoring: webhook returned status %d", resp.StatusCode)
	}
	return nil
}
