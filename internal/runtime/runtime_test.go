package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConfigPath tests that the CLI override can be set and restored
// TestConfigPath 测试 CLI 覆盖路径可被设置和恢复
func TestConfigPath(t *testing.T) {
	original := ConfigPath
	t.Cleanup(func() { ConfigPath = original })

	ConfigPath = "/tmp/cyberguard.yaml"
	assert.Equal(t, "/tmp/cyberguard.yaml", ConfigPath)
}
