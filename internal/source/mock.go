package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/cyberguard/cyberguard/internal/eventlog"
)

var mockEvents = []string{
	"Camera access request",
	"Microphone permission denied",
	"Clipboard read attempt",
	"Geolocation tracking detected",
	"Cross-origin data access",
	"Local storage modification",
	"Cookie manipulation detected",
	"WebRTC connection established",
	"File download initiated",
	"Screen sharing request",
}

var mockSources = []string{"extension-123", "webapp-456", "api-789", "mobile-app"}

const mockWindow = 7 * 24 * time.Hour

// MockSource generates demo records spread over the last seven days.
// The same Seed and Now always produce the same records.
type MockSource struct {
	Count int
	Seed  int64            // 0 means time-based
	Now   func() time.Time // defaults to time.Now
}

func (m *MockSource) Name() string { return "mock" }

// Load generates Count records with ids log-1..log-N.
func (m *MockSource) Load(ctx context.Context) ([]eventlog.LogRecord, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	seed := m.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	ref := now().UTC()

	out := make([]eventlog.LogRecord, 0, m.Count)
	for i := 0; i < m.Count; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out = append(out, eventlog.LogRecord{
			ID:        fmt.Sprintf("log-%d", i+1),
			Timestamp: ref.Add(-time.Duration(rng.Int63n(int64(mockWindow)))).Truncate(time.Millisecond),
			Event:     mockEvents[rng.Intn(len(mockEvents))],
			Severity:  eventlog.Severities[rng.Intn(len(eventlog.Severities))],
			Source:    mockSources[rng.Intn(len(mockSources))],
			Details:   fmt.Sprintf("Detailed information about security event %d", i+1),
			Status:    eventlog.Statuses[rng.Intn(len(eventlog.Statuses))],
		})
	}
	return out, nil
}
