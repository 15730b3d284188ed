package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberguard/cyberguard/internal/eventlog"
)

// sample returns the value of a metric family sample matching label=value.
func sample(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" {
				return m.GetGauge().GetValue() + m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetGauge().GetValue() + m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{%s=%q} not found", name, label, value)
	return 0
}

func TestObserveSummary(t *testing.T) {
	s := eventlog.NewSummary()
	s.BySeverity[eventlog.SeverityCritical] = 2
	s.BySeverity[eventlog.SeverityLow] = 1
	s.ByStatus[eventlog.StatusBlocked] = 3
	s.Total = 3

	ObserveSummary(s)

	assert.Equal(t, 2.0, sample(t, "cyberguard_events", "severity", "critical"))
	assert.Equal(t, 0.0, sample(t, "cyberguard_events", "severity", "high"))
	assert.Equal(t, 3.0, sample(t, "cyberguard_events_by_status", "status", "blocked"))
	assert.Equal(t, 3.0, sample(t, "cyberguard_events_total", "", ""))
}

func TestObserveQueryAndAlert(t *testing.T) {
	ObserveQuery(time.Now(), nil)
	ObserveQuery(time.Now(), errors.New("boom"))
	assert.GreaterOrEqual(t, sample(t, "cyberguard_queries_total", "result", "ok"), 1.0)
	assert.GreaterOrEqual(t, sample(t, "cyberguard_queries_total", "result", "error"), 1.0)

	ObserveAlert("critical_active", true)
	assert.Equal(t, 1.0, sample(t, "cyberguard_alerts_triggered", "rule", "critical_active"))
	ObserveAlert("critical_active", false)
	assert.Equal(t, 0.0, sample(t, "cyberguard_alerts_triggered", "rule", "critical_active"))
}
