package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/api"
	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/metrics"
	"github.com/cyberguard/cyberguard/internal/rules"
	"github.com/cyberguard/cyberguard/internal/source"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
	"github.com/cyberguard/cyberguard/pkg/storage"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		// Short: 启动 HTTP API
		Long: `Load records from the configured source, optionally follow a JSON lines
file, and serve the query API until interrupted.
加载记录，可选追踪 JSON lines 文件，并提供查询 API 直到中断。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Web.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override web.port")
	return cmd
}

// serve wires the store, rules, tailer and API together.
// serve 组装 Store、规则、追踪器和 API。
func serve(ctx context.Context, cfg *config.GlobalConfig) error {
	log := logger.Get(ctx)

	store, err := loadStore(ctx, cfg)
	if err != nil {
		return err
	}
	log.Infof("[LOG] Loaded %d records", store.Len())

	engine := rules.NewEngine()
	if err := engine.UpdateRules(cfg.Rules); err != nil {
		return err
	}

	if cfg.Tail.Enabled {
		startTail(ctx, cfg.Tail, store)
	}
	go reloadOnHUP(ctx, engine)

	srv := api.NewServer(store, engine, storage.NewYAMLStore(cfg.Preferences.Path), cfg)
	return srv.Start(ctx)
}

func startTail(ctx context.Context, tc config.TailConfig, store *eventlog.Store) {
	cp := source.NewCheckpointManager(tc.CheckpointFile)
	if err := cp.Load(); err != nil {
		logger.Get(ctx).Warnf("[WARN]  Failed to load tail checkpoints: %v", err)
	}
	go cp.Run(ctx, 10*time.Second)

	t := &source.Tailer{
		Path:       tc.Path,
		Position:   tc.Position,
		Store:      store,
		Checkpoint: cp,
		OnAppend:   func(eventlog.LogRecord) { metrics.IngestedTotal.Inc() },
	}
	go func() {
		if err := t.Run(ctx); err != nil {
			logger.Get(ctx).Errorf("❌ Tailer stopped: %v", err)
		}
	}()
}

// reloadOnHUP re-reads the configuration on SIGHUP and swaps in the new rules.
// reloadOnHUP 收到 SIGHUP 时重新加载配置并替换规则。
func reloadOnHUP(ctx context.Context, engine *rules.Engine) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := reloadRules(ctx, engine); err != nil {
				logger.Get(ctx).Errorf("❌ Rule reload failed, keeping current rules: %v", err)
			}
		}
	}
}

func reloadRules(ctx context.Context, engine *rules.Engine) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := engine.UpdateRules(cfg.Rules); err != nil {
		return err
	}
	logger.Get(ctx).Infof("🔄 Reloaded %d rule(s) from %s", len(cfg.Rules), config.GetConfigPath())
	return nil
}
