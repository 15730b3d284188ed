package rules

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
)

var errEmpty = errors.New("empty expression")

// Rule is a compiled alert rule.
type Rule struct {
	ID        string
	Severity  eventlog.Severity
	Threshold int
	Predicate *Predicate
}

// Alert is the outcome of evaluating one rule against a snapshot.
type Alert struct {
	RuleID     string            `json:"rule_id"`
	Severity   eventlog.Severity `json:"severity,omitempty"`
	Expression string            `json:"expression"`
	Count      int               `json:"count"`
	Threshold  int               `json:"threshold"`
	Triggered  bool              `json:"triggered"`
}

// Engine manages compiled alert rules.
// Engine 管理已编译的告警规则。
type Engine struct {
	rules atomic.Pointer[[]Rule]
}

// NewEngine creates an Engine with no rules.
func NewEngine() *Engine {
	e := &Engine{}
	e.rules.Store(&[]Rule{})
	return e
}

// UpdateRules compiles configs and swaps them in. On error the current rules are kept.
func (e *Engine) UpdateRules(configs []config.RuleConfig) error {
	compiled := make([]Rule, 0, len(configs))
	seen := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		if cfg.ID == "" {
			return fmt.Errorf("rule with expression %q has no id", cfg.Expression)
		}
		if seen[cfg.ID] {
			return fmt.Errorf("duplicate rule id '%s'", cfg.ID)
		}
		seen[cfg.ID] = true

		p, err := Compile(cfg.Expression)
		if err != nil {
			return fmt.Errorf("failed to compile rule '%s': %w", cfg.ID, err)
		}

		var sev eventlog.Severity
		if cfg.Severity != "" {
			if sev, err = eventlog.ParseSeverity(cfg.Severity); err != nil {
				return fmt.Errorf("rule '%s': %w", cfg.ID, err)
			}
		}

		threshold := cfg.Threshold
		if threshold <= 0 {
			threshold = 1
		}
		compiled = append(compiled, Rule{ID: cfg.ID, Severity: sev, Threshold: threshold, Predicate: p})
	}
	e.rules.Store(&compiled)
	return nil
}

// Rules returns the current rule set.
func (e *Engine) Rules() []Rule {
	return *e.rules.Load()
}

// Evaluate counts matches for every rule, in configuration order.
func (e *Engine) Evaluate(records []eventlog.LogRecord) []Alert {
	rules := e.Rules()
	out := make([]Alert, 0, len(rules))
	for _, r := range rules {
		n := r.Predicate.Count(records)
		out = append(out, Alert{
			RuleID:     r.ID,
			Severity:   r.Severity,
			Expression: r.Predicate.Source,
			Count:      n,
			Threshold:  r.Threshold,
			Triggered:  n >= r.Threshold,
		})
	}
	return out
}
