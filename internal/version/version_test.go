package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion tests that version has a default
// TestVersion 测试版本有默认值
func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
}
