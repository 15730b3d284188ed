package api

import (
	"context"
	"time"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/metrics"
)

// collectStats refreshes the aggregate gauges and alert states periodically.
// collectStats 定期刷新汇总指标和告警状态。
func (s *Server) collectStats(ctx context.Context, interval time.Duration) {
	if !s.metrics.Enabled {
		return
	}
	s.observe()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.observe()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) observe() {
	records := s.store.Snapshot()
	metrics.ObserveSummary(eventlog.Aggregate(records))
	for _, a := range s.rules.Evaluate(records) {
		metrics.ObserveAlert(a.RuleID, a.Triggered)
	}
}
