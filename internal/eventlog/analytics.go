package eventlog

import (
	"sort"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// TrendBucket counts events per severity within [Start, Start+interval).
type TrendBucket struct {
	Start      time.Time        `json:"start"`
	BySeverity map[Severity]int `json:"by_severity"`
	Total      int              `json:"total"`
}

// SourceCount is the number of events reported by one source.
type SourceCount struct {
	Source string `json:"source"`
	Events int    `json:"events"`
}

// Trend buckets records by timestamp truncated to interval.
func Trend(records []LogRecord, interval time.Duration) ([]TrendBucket, error) {
	if interval <= 0 {
		return nil, cgerrors.ErrInvalidInterval
	}

	buckets := make(map[int64]*TrendBucket)
	for i := range records {
		start := records[i].Timestamp.UTC().Truncate(interval)
		key := start.UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &TrendBucket{Start: start, BySeverity: make(map[Severity]int, len(Severities))}
			for _, sev := range Severities {
				b.BySeverity[sev] = 0
			}
			buckets[key] = b
		}
		b.BySeverity[records[i].Severity]++
		b.Total++
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]TrendBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out, nil
}

// TopSources ranks sources by event count, busiest first. n <= 0 returns all.
func TopSources(records []LogRecord, n int) []SourceCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].Source]++
	}

	out := make([]SourceCount, 0, len(counts))
	for src, c := range counts {
		out = append(out, SourceCount{Source: src, Events: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Events != out[j].Events {
			return out[i].Events > out[j].Events
		}
		return out[i].Source < out[j].Source
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
