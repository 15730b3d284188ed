// Package eventlog filters, sorts and aggregates snapshots of security event records.
package eventlog

import (
	"strings"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Severity is the ordinal risk classification of an event.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank orders severities: low=1 ... critical=4. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Valid reports whether s is one of the closed set of severities.
func (s Severity) Valid() bool { return s.Rank() > 0 }

// Status is the disposition of an event.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusAllowed Status = "allowed"
)

// Statuses lists every status.
var Statuses = []Status{StatusActive, StatusBlocked, StatusAllowed}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusAllowed:
		return true
	}
	return false
}

// LogRecord is one immutable security-event log entry.
type LogRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Event     string    `json:"event" yaml:"event"`
	Severity  Severity  `json:"severity" yaml:"severity"`
	Source    string    `json:"source" yaml:"source"`
	Details   string    `json:"details" yaml:"details"`
	Status    Status    `json:"status" yaml:"status"`
}

// Validate checks the record invariants: a non-empty id, a set timestamp and
// enumeration values drawn from the closed sets.
func (r LogRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return cgerrors.NewRecordError(r.ID, "empty id")
	}
	if r.Timestamp.IsZero() {
		return cgerrors.NewRecordError(r.ID, "missing timestamp")
	}
	if !r.Severity.Valid() {
		return cgerrors.NewRecordError(r.ID, "unknown severity "+string(r.Severity))
	}
	if !r.Status.Valid() {
		return cgerrors.NewRecordError(r.ID, "unknown status "+string(r.Status))
	}
	return nil
}

// ParseSeverity parses an exact severity value (case-insensitive).
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", cgerrors.NewFilterValueError("severity", v)
	}
	return s, nil
}

// ParseStatus parses an exact status value (case-insensitive).
func ParseStatus(v string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", cgerrors.NewFilterValueError("status", v)
	}
	return s, nil
}
