package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cluster-cli/internal/config"
)

func healthySnapshot() *MetricsSnapshot {
	return &MetricsSnapshot{
		Businesses:       10,
		Spaces:           3,
		RunsTotal:        2,
		LatestRunID:      "run-1",
		LatestTaxonomy:   "v1",
		CurrentTaxonomy:  "v1",
		AvgCompatibility: 0.7,
		LookbackHours:    24,
	}
}

func alertTypes(alerts []Alert) []AlertType {
	out := make([]AlertType, len(alerts))
	for i, a := range alerts {
		out[i] = a.Type
	}
	return out
}

func TestAlerter_Evaluate_NoAlerts(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{MinAvgCompatibility: 0.5})
	assert.Empty(t, a.Evaluate(healthySnapshot()))
}

func TestAlerter_Evaluate_EmptyReferenceData(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := healthySnapshot()
	snap.Spaces = 0
	snap.LatestTaxonomy = "old"

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertEmptyReferenceData, alerts[0].Type)
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Contains(t, alerts[0].Message, "10 businesses, 0 spaces")
}

func TestAlerter_Evaluate_StaleRuns(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := healthySnapshot()
	snap.RunsTotal = 0

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertStaleRuns, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "last 24h")
}

func TestAlerter_Evaluate_TaxonomyDrift(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := healthySnapshot()
	snap.LatestTaxonomy = "v0"

	alerts := a.Evaluate(snap)
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertTaxonomyDrift, alerts[0].Type)
	assert.Equal(t, "v0", alerts[0].Details["run_taxonomy"])
}

func TestAlerter_Evaluate_LowCompatibilityAndUnmatched(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{MinAvgCompatibility: 0.8})

	snap := healthySnapshot()
	snap.UnmatchedSpaces = 2

	alerts := a.Evaluate(snap)
	assert.Equal(t, []AlertType{AlertLowCompatibility, AlertUnmatchedSpaces}, alertTypes(alerts))
	assert.Contains(t, alerts[0].Message, "0.70 below threshold 0.80")
	assert.Contains(t, alerts[1].Message, "2 space(s)")
}

func TestAlerter_Evaluate_LowCompatibilityDisabled(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})

	snap := healthySnapshot()
	snap.AvgCompatibility = 0.01
	assert.Empty(t, a.Evaluate(snap))
}

func TestAlerter_SendAlerts_Webhook(t *testing.T) {
	var received atomic.Int32
	var lastAlert Alert

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastAlert))
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	snap := healthySnapshot()
	snap.RunsTotal = 0

	sent := a.SendAlerts(context.Background(), a.Evaluate(snap))
	assert.Equal(t, 1, sent)
	assert.Equal(t, int32(1), received.Load())
	assert.Equal(t, AlertStaleRuns, lastAlert.Type)
}

func TestAlerter_SendAlerts_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAlerter(config.MonitoringConfig{WebhookURL: srv.URL})
	sent := a.SendAlerts(context.Background(), []Alert{{Type: AlertStaleRuns}})
	assert.Equal(t, 0, sent)
}

func TestAlerter_SendAlerts_NoWebhook(t *testing.T) {
	a := NewAlerter(config.MonitoringConfig{})
	assert.Equal(t, 0, a.SendAlerts(context.Background(), []Alert{{Type: AlertStaleRuns}}))
}
