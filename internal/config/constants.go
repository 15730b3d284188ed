package config

const (
	// DefaultConfigPath is the standard location for the cyberguard configuration file.
	// DefaultConfigPath 是 cyberguard 配置文件的标准位置。
	DefaultConfigPath = "/etc/cyberguard/config.yaml"

	// DefaultPreferencesPath stores consent toggles and theme.
	// DefaultPreferencesPath 保存同意开关和主题。
	DefaultPreferencesPath = "/var/lib/cyberguard/preferences.yaml"

	// DefaultCheckpointPath stores tail offsets for the "offset" start position.
	DefaultCheckpointPath = "/var/lib/cyberguard/tail_offsets.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CYBERGUARD_"

	SourceMock = "mock"
	SourceFile = "file"

	TailStart  = "start"
	TailEnd    = "end"
	TailOffset = "offset"
)
