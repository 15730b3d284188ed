package fmtutil

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestFormatCount tests thousand separators
// TestFormatCount 测试千位分隔符
func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCount(tt.input))
	}
}

func TestShareAndPercent(t *testing.T) {
	assert.Equal(t, "66.67%", Share(2, 3))
	assert.Equal(t, "0.00%", Share(5, 0))
	assert.Equal(t, "100.00%", Share(4, 4))
	assert.Equal(t, "0.00%", FormatPercent(math.NaN()))
	assert.Equal(t, "0.00%", FormatPercent(math.Inf(1)))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{0 * time.Second, "0s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour, "1h"},
		{26*time.Hour + 5*time.Minute, "1d 2h 5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.input))
	}
}
