package eventlog

import (
	"strings"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Any matches every severity or status in a FilterCriteria.
const Any = "any"

// FilterCriteria selects records for a single query.
// The zero value matches everything.
type FilterCriteria struct {
	SearchText string   `json:"search,omitempty"`
	Severity   Severity `json:"severity,omitempty"` // "" or Any matches all
	Status     Status   `json:"status,omitempty"`   // "" or Any matches all
}

func isAny(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", Any, "all":
		return true
	}
	return false
}

// ParseSeverityFilter accepts "", "any", "all" or a severity name.
func ParseSeverityFilter(v string) (Severity, error) {
	if isAny(v) {
		return Any, nil
	}
	return ParseSeverity(v)
}

// ParseStatusFilter accepts "", "any", "all" or a status name.
func ParseStatusFilter(v string) (Status, error) {
	if isAny(v) {
		return Any, nil
	}
	return ParseStatus(v)
}

// Validate rejects filter values outside the enumerations.
func (c FilterCriteria) Validate() error {
	if !isAny(string(c.Severity)) && !c.Severity.Valid() {
		return cgerrors.NewFilterValueError("severity", string(c.Severity))
	}
	if !isAny(string(c.Status)) && !c.Status.Valid() {
		return cgerrors.NewFilterValueError("status", string(c.Status))
	}
	return nil
}

type matcher struct {
	needle   string
	severity Severity
	status   Status
}

func (c FilterCriteria) matcher() matcher {
	m := matcher{needle: strings.ToLower(c.SearchText)}
	if !isAny(string(c.Severity)) {
		m.severity = c.Severity
	}
	if !isAny(string(c.Status)) {
		m.status = c.Status
	}
	return m
}

func (m matcher) match(r *LogRecord) bool {
	if m.severity != "" && r.Severity != m.severity {
		return false
	}
	if m.status != "" && r.Status != m.status {
		return false
	}
	if m.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Event), m.needle) ||
		strings.Contains(strings.ToLower(r.Source), m.needle) ||
		strings.Contains(strings.ToLower(r.Details), m.needle)
}

// Filter returns the records matching criteria in their original order.
func Filter(records []LogRecord, criteria FilterCriteria) ([]LogRecord, error) {
	return filterWhere(records, criteria, nil)
}

func filterWhere(records []LogRecord, criteria FilterCriteria, where func(LogRecord) bool) ([]LogRecord, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}
	m := criteria.matcher()
	out := make([]LogRecord, 0, len(records))
	for i := range records {
		if !m.match(&records[i]) {
			continue
		}
		if where != nil && !where(records[i]) {
			continue
		}
		out = append(out, records[i])
	}
	return out, nil
}
