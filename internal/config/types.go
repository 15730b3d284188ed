package config

import (
	"github.com/cyberguard/cyberguard/internal/utils/logger"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// GlobalConfig is the root of the configuration file.
// GlobalConfig 是配置文件的根结构。
type GlobalConfig struct {
	Logging     logger.LoggingConfig `yaml:"logging"`
	Web         WebConfig            `yaml:"web"`
	Metrics     MetricsConfig        `yaml:"metrics"`
	Source      SourceConfig         `yaml:"source"`
	Tail        TailConfig           `yaml:"tail"`
	Rules       []RuleConfig         `yaml:"rules"`
	Preferences PreferencesConfig    `yaml:"preferences"`
}

// WebConfig configures the HTTP API.
// WebConfig 配置 HTTP API。
type WebConfig struct {
	Listen    string  `yaml:"listen"`
	Port      int     `yaml:"port"`
	Token     string  `yaml:"token"`      // empty disables auth
	RateLimit float64 `yaml:"rate_limit"` // requests per second per client, 0 disables
	Burst     int     `yaml:"burst"`
	MaxLimit  int     `yaml:"max_limit"` // upper bound for ?limit=
}

// MetricsConfig configures Prometheus exposition on the API mux.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SourceConfig selects where the initial record set comes from.
// SourceConfig 选择初始记录集的来源。
type SourceConfig struct {
	Type  string `yaml:"type"`  // mock or file
	Path  string `yaml:"path"`  // JSON / JSON lines, optionally .zst
	Count int    `yaml:"count"` // mock: number of records
	Seed  int64  `yaml:"seed"`  // mock: 0 means time-based
}

// TailConfig follows a JSON lines file and appends new records.
type TailConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Path           string `yaml:"path"`
	Position       string `yaml:"position"` // start, end, offset
	CheckpointFile string `yaml:"checkpoint_file"`
}

// RuleConfig defines an alert rule evaluated over the record snapshot.
// RuleConfig 定义在记录快照上求值的告警规则。
type RuleConfig struct {
	ID         string `yaml:"id" json:"id"`
	Expression string `yaml:"expression" json:"expression"`
	Severity   string `yaml:"severity,omitempty" json:"severity,omitempty"`
	Threshold  int    `yaml:"threshold,omitempty" json:"threshold,omitempty"`
}

// PreferencesConfig locates the preference store file.
type PreferencesConfig struct {
	Path string `yaml:"path"`
}

// DefaultConfig returns the built-in defaults.
// DefaultConfig 返回内置默认值。
func DefaultConfig() *GlobalConfig {
	return &GlobalConfig{
		Logging: logger.LoggingConfig{
			Enabled:    false,
			Level:      "info",
			Format:     "console",
			Path:       "/var/log/cyberguard/cyberguard.log",
			MaxSize:    10, // 10MB
			MaxBackups: 3,
			MaxAge:     30, // 30 days
			Compress:   true,
		},
		Web: WebConfig{
			Listen:   "127.0.0.1",
			Port:     11911,
			Burst:    20,
			MaxLimit: 1000,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Source: SourceConfig{
			Type:  SourceMock,
			Count: 50,
		},
		Tail: TailConfig{
			Position:       TailEnd,
			CheckpointFile: DefaultCheckpointPath,
		},
		Preferences: PreferencesConfig{
			Path: DefaultPreferencesPath,
		},
	}
}

// Validate checks the configuration for errors.
// Validate 检查配置是否存在错误。
func (c *GlobalConfig) Validate() error {
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return cgerrors.NewConfigError("web.port", c.Web.Port)
	}
	if c.Web.RateLimit < 0 {
		return cgerrors.NewConfigError("web.rate_limit", c.Web.RateLimit)
	}
	if c.Web.MaxLimit < 0 {
		return cgerrors.NewConfigError("web.max_limit", c.Web.MaxLimit)
	}

	switch c.Source.Type {
	case SourceMock:
		if c.Source.Count < 0 {
			return cgerrors.NewConfigError("source.count", c.Source.Count)
		}
	case SourceFile:
		if c.Source.Path == "" {
			return cgerrors.NewConfigError("source.path", "")
		}
	default:
		return cgerrors.NewConfigError("source.type", c.Source.Type)
	}

	if c.Tail.Enabled {
		if c.Tail.Path == "" {
			return cgerrors.NewConfigError("tail.path", "")
		}
		switch c.Tail.Position {
		case "", TailStart, TailEnd, TailOffset:
		default:
			return cgerrors.NewConfigError("tail.position", c.Tail.Position)
		}
	}

	for i, r := range c.Rules {
		if r.ID == "" || r.Expression == "" {
			return cgerrors.NewConfigError("rules", i)
		}
		if r.Threshold < 0 {
			return cgerrors.NewConfigError("rules."+r.ID+".threshold", r.Threshold)
		}
	}
	return nil
}
