package config

import (
	"sync"

	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

// ConfigManager handles all configuration-related operations in a centralized manner
// ConfigManager 以集中方式处理所有配置相关操作
type ConfigManager struct {
	configPath string
	mutex      sync.RWMutex
	config     *GlobalConfig
}

// NewConfigManager creates a new configuration manager instance
// NewConfigManager 创建新的配置管理器实例
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{configPath: configPath}
}

// LoadConfig loads the configuration from the manager's path
// LoadConfig 从指定路径加载配置
func (cm *ConfigManager) LoadConfig() error {
	cfg, err := LoadGlobalConfig(cm.configPath)
	if err != nil {
		return err
	}

	cm.mutex.Lock()
	cm.config = cfg
	cm.mutex.Unlock()
	return nil
}

// SaveConfig saves the current configuration
// SaveConfig 保存当前配置
func (cm *ConfigManager) SaveConfig() error {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	if cm.config == nil {
		return nil
	}
	return SaveGlobalConfig(cm.configPath, cm.config)
}

// GetConfig returns a copy of the current configuration
// GetConfig 返回当前配置的副本
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	if cm.config == nil {
		return nil
	}
	cfgCopy := *cm.config
	cfgCopy.Rules = append([]RuleConfig(nil), cm.config.Rules...)
	return &cfgCopy
}

// UpdateConfig validates and replaces the current configuration
// UpdateConfig 验证并替换当前配置
func (cm *ConfigManager) UpdateConfig(newConfig *GlobalConfig) error {
	if err := newConfig.Validate(); err != nil {
		return err
	}
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.config = newConfig
	return nil
}

// GetLoggingConfig returns the logging configuration
// GetLoggingConfig 返回日志配置
func (cm *ConfigManager) GetLoggingConfig() *logger.LoggingConfig {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	if cm.config == nil {
		return nil
	}
	c := cm.config.Logging
	return &c
}

// GetWebConfig returns the web configuration
// GetWebConfig 返回Web配置
func (cm *ConfigManager) GetWebConfig() *WebConfig {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	if cm.config == nil {
		return nil
	}
	c := cm.config.Web
	return &c
}

// GetRules returns a copy of the alert rules
func (cm *ConfigManager) GetRules() []RuleConfig {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	if cm.config == nil {
		return nil
	}
	return append([]RuleConfig(nil), cm.config.Rules...)
}

// GetConfigPath returns the file this manager reads and writes
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}
