package eventlog

import (
	"testing"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrend(t *testing.T) {
	records := []LogRecord{
		rec("a", 30*time.Minute, SeverityCritical, StatusBlocked),
		rec("b", 5*time.Hour, SeverityLow, StatusAllowed),
		rec("c", 10*time.Minute, SeverityLow, StatusActive),
		rec("d", 4*time.Hour+59*time.Minute, SeverityHigh, StatusActive),
	}

	buckets, err := Trend(records, 4*time.Hour)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// base is 12:00 UTC, so the buckets start at 12:00 and 16:00.
	assert.Equal(t, base, buckets[0].Start)
	assert.Equal(t, 2, buckets[0].Total)
	assert.Equal(t, 1, buckets[0].BySeverity[SeverityCritical])
	assert.Equal(t, 1, buckets[0].BySeverity[SeverityLow])
	assert.Equal(t, 0, buckets[0].BySeverity[SeverityMedium])

	assert.Equal(t, base.Add(4*time.Hour), buckets[1].Start)
	assert.Equal(t, 2, buckets[1].Total)
}

func TestTrend_Errors(t *testing.T) {
	_, err := Trend(nil, 0)
	assert.ErrorIs(t, err, cgerrors.ErrInvalidInterval)

	buckets, err := Trend(nil, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, buckets)
}

func TestTopSources(t *testing.T) {
	mk := func(id, src string) LogRecord {
		r := rec(id, 0, SeverityLow, StatusActive)
		r.Source = src
		return r
	}
	records := []LogRecord{
		mk("1", "api-789"), mk("2", "webapp-456"), mk("3", "api-789"),
		mk("4", "mobile-app"), mk("5", "extension-123"), mk("6", "webapp-456"),
	}

	top := TopSources(records, 3)
	assert.Equal(t, []SourceCount{
		{Source: "api-789", Events: 2},
		{Source: "webapp-456", Events: 2},
		{Source: "extension-123", Events: 1},
	}, top)

	assert.Len(t, TopSources(records, 0), 4)
	assert.Empty(t, TopSources(nil, 5))
}
