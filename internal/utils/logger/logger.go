package logger

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const LoggerKey = contextKey("logger")

var (
	// consoleOutput receives logs when no file is configured.
	consoleOutput io.Writer = os.Stderr

	mu           sync.RWMutex
	globalLogger *zap.SugaredLogger
)

// Init initializes the global logger based on configuration.
// Init 根据配置初始化全局日志记录器。
func Init(cfg LoggingConfig) {
	writeSyncer := zapcore.AddSync(consoleOutput)

	var dirErr error
	if cfg.Enabled && cfg.Path != "" {
		if dirErr = os.MkdirAll(filepath.Dir(cfg.Path), 0755); dirErr != nil {
			// Fall back to the console and warn once the logger exists.
			// 回退到控制台，并在 logger 创建后发出警告。
			cfg.Path = ""
		} else {
			writeSyncer = zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.Path,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	l := zap.New(core, zap.AddCaller()).Sugar()

	mu.Lock()
	globalLogger = l
	mu.Unlock()

	if dirErr != nil {
		l.Warnf("[WARN]  Cannot create log directory, logging to console: %v", dirErr)
	}
	l.Debugf("[LOG] Logging initialized (level: %s, path: %q)", level, cfg.Path)
}

// Sync flushes any buffered log entries.
// Sync 刷新所有缓存的日志条目。
func Sync() error {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l.Sync()
	}
	return nil
}

// Get returns the logger from context or the global logger.
// Get 从 Context 或全局日志记录器返回 Logger。
func Get(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok {
			return l
		}
	}

	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	dev, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewExample().Sugar()
	}
	return dev.Sugar()
}

// WithContext adds logger to context.
// WithContext 将 Logger 添加到 Context。
func WithContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}
