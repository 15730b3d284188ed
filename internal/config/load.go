package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cyberguard/cyberguard/internal/runtime"
	"github.com/cyberguard/cyberguard/internal/utils/fileutil"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// DefaultConfigTemplate is written by `cyberguard init` and documents every key.
const DefaultConfigTemplate = `# CyberGuard Configuration File / CyberGuard 配置文件

# Logging / 日志
logging:
  enabled: false
  # debug, info, warn, error
  level: "info"
  # console or json
  format: "console"
  path: "/var/log/cyberguard/cyberguard.log"
  max_size: 10
  max_backups: 3
  max_age: 30
  compress: true

# HTTP API / HTTP 接口
web:
  listen: "127.0.0.1"
  port: 11911
  # Bearer token; empty disables authentication.
  # Bearer 令牌；为空则禁用认证。
  token: ""
  # Requests per second per client (0 disables rate limiting).
  # 每个客户端每秒请求数（0 表示不限速）。
  rate_limit: 0
  burst: 20
  # Upper bound for the ?limit= query parameter.
  max_limit: 1000

# Prometheus metrics, served on the API listener / Prometheus 指标
metrics:
  enabled: true
  path: "/metrics"

# Record source / 记录来源
# type: mock (generated demo data) or file (JSON array or JSON lines, .zst allowed)
source:
  type: "mock"
  path: ""
  count: 50
  seed: 0

# Follow a JSON lines file and append new records / 追踪 JSON lines 文件并追加新记录
tail:
  enabled: false
  path: ""
  # start, end or offset (resume from checkpoint)
  position: "end"
  checkpoint_file: "/var/lib/cyberguard/tail_offsets.json"

# Alert rules / 告警规则
# expression uses fields ID, Event, Severity, Status, Source, Details, Timestamp, Rank
# and helpers log("x"), match("re"), like("glob*"), since("24h").
rules:
  - id: "critical_active"
    expression: 'Severity == "critical" && Status == "active"'
    severity: "critical"
    threshold: 1

# Preference store / 偏好存储
preferences:
  path: "/var/lib/cyberguard/preferences.yaml"
`

// GetConfigPath resolves the configuration file path.
// It prioritizes the CLI flag (runtime.ConfigPath) over the default.
// GetConfigPath 解析配置文件路径，优先使用 CLI 标志。
func GetConfigPath() string {
	if runtime.ConfigPath != "" {
		return runtime.ConfigPath
	}
	return DefaultConfigPath
}

// LoadGlobalConfig loads the configuration from a YAML file on top of the
// defaults, then applies environment overrides. A missing file yields the
// defaults.
// LoadGlobalConfig 在默认值之上从 YAML 文件加载配置，然后应用环境变量覆盖。
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", cgerrors.ErrConfigInvalid, path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return nil, err
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are ignored; existing variables win.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if !fileutil.Exists(p) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides selected keys from CYBERGUARD_* variables.
func ApplyEnv(cfg *GlobalConfig) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cgerrors.NewConfigError(EnvPrefix+key, v)
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_PATH", &cfg.Logging.Path)
	str("WEB_LISTEN", &cfg.Web.Listen)
	str("WEB_TOKEN", &cfg.Web.Token)
	str("SOURCE_TYPE", &cfg.Source.Type)
	str("SOURCE_PATH", &cfg.Source.Path)
	str("PREFERENCES_PATH", &cfg.Preferences.Path)
	if err := num("WEB_PORT", &cfg.Web.Port); err != nil {
		return err
	}
	if err := num("SOURCE_COUNT", &cfg.Source.Count); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cgerrors.NewConfigError(EnvPrefix+"LOG_ENABLED", v)
		}
		cfg.Logging.Enabled = b
	}
	return nil
}

// SaveGlobalConfig writes cfg to path. When the file exists its comments and
// key order are preserved.
// SaveGlobalConfig 将配置写入文件，尽量保留已有注释和键顺序。
func SaveGlobalConfig(path string, cfg *GlobalConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var newNode yaml.Node
	if err := yaml.Unmarshal(data, &newNode); err != nil {
		return err
	}

	fileData, readErr := os.ReadFile(filepath.Clean(path))
	if readErr == nil {
		var fileNode yaml.Node
		if err := yaml.Unmarshal(fileData, &fileNode); err == nil && fileNode.Kind == yaml.DocumentNode {
			MergeYamlNodes(&fileNode, &newNode)

			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(&fileNode); err != nil {
				return err
			}
			return fileutil.AtomicWriteFile(path, buf.Bytes(), 0600)
		}
	}

	// Fallback if file doesn't exist or is malformed: just write the new config
	return fileutil.AtomicWriteFile(path, data, 0600)
}

// WriteDefault writes DefaultConfigTemplate unless the file exists and force is false.
func WriteDefault(path string, force bool) error {
	if fileutil.Exists(path) && !force {
		return fmt.Errorf("config file %s already exists", path)
	}
	return fileutil.AtomicWriteFile(path, []byte(DefaultConfigTemplate), 0600)
}

// MergeYamlNodes updates target (existing file) with source (new config).
// Comments and key order from target are kept; keys only in source are appended.
func MergeYamlNodes(target, source *yaml.Node) {
	if target.Kind == yaml.DocumentNode {
		if source.Kind == yaml.DocumentNode && len(target.Content) > 0 && len(source.Content) > 0 {
			MergeYamlNodes(target.Content[0], source.Content[0])
		}
		return
	}

	if target.Kind != yaml.MappingNode || source.Kind != yaml.MappingNode {
		if source.HeadComment == "" {
			source.HeadComment = target.HeadComment
		}
		if source.LineComment == "" {
			source.LineComment = target.LineComment
		}
		if source.FootComment == "" {
			source.FootComment = target.FootComment
		}
		*target = *source
		return
	}

	sourceMap := make(map[string]int)
	for i := 0; i < len(source.Content); i += 2 {
		sourceMap[source.Content[i].Value] = i
	}

	var newContent []*yaml.Node
	processed := make(map[string]bool)
	for i := 0; i < len(target.Content); i += 2 {
		tKey, tVal := target.Content[i], target.Content[i+1]
		if sIdx, ok := sourceMap[tKey.Value]; ok {
			MergeYamlNodes(tVal, source.Content[sIdx+1])
			processed[tKey.Value] = true
		}
		newContent = append(newContent, tKey, tVal)
	}
	for i := 0; i < len(source.Content); i += 2 {
		if !processed[source.Content[i].Value] {
			newContent = append(newContent, source.Content[i], source.Content[i+1])
		}
	}
	target.Content = newContent
}
