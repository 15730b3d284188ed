// Package commands implements the cyberguard CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/runtime"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

// NewRootCmd builds the full command tree.
// NewRootCmd 构建完整的命令树。
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cyberguard",
		Short: "Security event log filtering, sorting and aggregation",
		// Short: 安全事件日志的过滤、排序与汇总
		Long: `cyberguard loads security event records, lets you filter, sort and
summarise them, evaluates alert rules and serves everything over HTTP.
cyberguard 加载安全事件记录，支持过滤、排序、汇总、告警规则，并通过 HTTP 提供服务。`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env values feed the CYBERGUARD_* overrides
			// .env 中的值用于 CYBERGUARD_* 覆盖
			if err := config.LoadEnvFiles(".env"); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  %v\n", err)
			}

			globalCfg, err := config.LoadGlobalConfig(config.GetConfigPath())
			if err != nil {
				// If config fails to load, use default logging config (console only)
				// 如果加载配置失败，使用默认日志配置（仅控制台）
				logger.Init(logger.LoggingConfig{Level: "info"})
			} else {
				logger.Init(globalCfg.Logging)
			}

			// Inject logger into context
			// 将 Logger 注入 Context
			cmd.SetContext(logger.WithContext(cmd.Context(), logger.Get(nil)))
		},
	}

	// Config file path
	// 配置文件路径
	root.PersistentFlags().StringVarP(&runtime.ConfigPath, "config", "c", "", fmt.Sprintf("Path to configuration file (default: %s)", config.DefaultConfigPath))

	root.AddCommand(
		newServeCmd(),
		newQueryCmd(),
		newSummaryCmd(),
		newAlertsCmd(),
		newExportCmd(),
		newPrefsCmd(),
		newInitCmd(),
		newVersionCmd(),
		newCompletionCmd(root),
	)
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

// newCompletionCmd creates a completion command without powershell.
// newCompletionCmd 创建不含 powershell 的补全命令。
func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell autocompletion script",
		Long: `Generate shell autocompletion script for cyberguard.
生成 cyberguard 的 shell 自动补全脚本。

Examples:
  cyberguard completion bash > /etc/bash_completion.d/cyberguard
  cyberguard completion zsh  > "${fpath[1]}/_cyberguard"
  cyberguard completion fish > ~/.config/fish/completions/cyberguard.fish`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			}
			return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", args[0])
		},
	}
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
