package eventlog

import (
	"math"
	"strings"
	"testing"
	"time"

	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matchFunc func(LogRecord) bool

func (f matchFunc) Match(r LogRecord) bool { return f(r) }

func TestRun_Pipeline(t *testing.T) {
	records := []LogRecord{
		rec("a", 3*time.Minute, SeverityCritical, StatusBlocked),
		rec("b", 1*time.Minute, SeverityLow, StatusAllowed),
		rec("c", 2*time.Minute, SeverityCritical, StatusActive),
		rec("d", 4*time.Minute, SeverityHigh, StatusBlocked),
	}

	res, err := Run(records, Query{
		Criteria: FilterCriteria{Severity: SeverityCritical},
		Sort:     SortSpec{Field: FieldTimestamp, Direction: Ascending},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a"}, ids(res.Records))
	assert.Equal(t, 2, res.Matched)
	assert.Equal(t, 2, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.ByStatus[StatusBlocked])
	assert.Equal(t, 4, res.Overall.Total)
	assert.Equal(t, 1, res.Overall.BySeverity[SeverityHigh])
}

func TestRun_DefaultSortAndPaging(t *testing.T) {
	records := randomRecords(25, 9)

	res, err := Run(records, Query{Offset: 5, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Records, 10)
	assert.Equal(t, 25, res.Matched)
	assert.Equal(t, 25, res.Summary.Total)

	full, err := Sort(records, DefaultSort)
	require.NoError(t, err)
	assert.Equal(t, ids(full[5:15]), ids(res.Records))

	res, err = Run(records, Query{Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 25, res.Matched)

	// A huge limit must not overflow offset+limit
	res, err = Run(records, Query{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Equal(t, ids(full[1:]), ids(res.Records))
}

func TestRun_Where(t *testing.T) {
	records := randomRecords(40, 2)
	where := matchFunc(func(r LogRecord) bool { return strings.HasPrefix(r.Source, "api") })

	res, err := Run(records, Query{Where: where})
	require.NoError(t, err)
	for _, r := range res.Records {
		assert.Equal(t, "api-789", r.Source)
	}
	assert.Equal(t, res.Matched, res.Summary.Total)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(nil, Query{Sort: SortSpec{Field: "nonexistent", Direction: Ascending}})
	assert.ErrorIs(t, err, cgerrors.ErrInvalidSortField)

	_, err = Run(nil, Query{Criteria: FilterCriteria{Severity: "severe"}})
	assert.ErrorIs(t, err, cgerrors.ErrInvalidFilterValue)
}
