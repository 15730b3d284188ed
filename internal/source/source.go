// Package source supplies the initial record set for a session.
package source

import (
	"context"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Source yields a sequence of validated records. The engine never needs to
// know whether they were generated, read from disk or streamed.
// Source 生成一组已验证的记录。
type Source interface {
	Name() string
	Load(ctx context.Context) ([]eventlog.LogRecord, error)
}

// New selects a Source from configuration.
// New 根据配置选择记录来源。
func New(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case config.SourceMock, "":
		return &MockSource{Count: cfg.Count, Seed: cfg.Seed}, nil
	case config.SourceFile:
		if cfg.Path == "" {
			return nil, cgerrors.NewConfigError("source.path", "")
		}
		return &FileSource{Path: cfg.Path}, nil
	}
	return nil, cgerrors.NewConfigError("source.type", cfg.Type)
}

// LoadStore loads src into a new Store.
func LoadStore(ctx context.Context, src Source) (*eventlog.Store, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return eventlog.NewStore(records...)
}
