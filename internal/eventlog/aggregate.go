package eventlog

// Summary holds severity and status counts over a record set.
type Summary struct {
	BySeverity map[Severity]int `json:"by_severity"`
	ByStatus   map[Status]int   `json:"by_status"`
	Total      int              `json:"total"`
}

// NewSummary returns a summary with every enumeration value set to zero.
func NewSummary() Summary {
	s := Summary{
		BySeverity: make(map[Severity]int, len(Severities)),
		ByStatus:   make(map[Status]int, len(Statuses)),
	}
	for _, sev := range Severities {
		s.BySeverity[sev] = 0
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}
	return s
}

// Aggregate counts records by severity and status.
func Aggregate(records []LogRecord) Summary {
	s := NewSummary()
	for i := range records {
		s.BySeverity[records[i].Severity]++
		s.ByStatus[records[i].Status]++
		s.Total++
	}
	return s
}
