package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/rules"
)

func newAlertsCmd() *cobra.Command {
	var failOnAlert bool
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate configured alert rules",
		// Short: 评估配置的告警规则
		Long: `Evaluate every rule under "rules:" in the configuration against the
loaded records and report match counts.
评估配置中的所有告警规则并报告匹配数量。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine := rules.NewEngine()
			if err := engine.UpdateRules(cfg.Rules); err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			alerts := engine.Evaluate(store.Snapshot())
			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, "No rules configured.")
				return nil
			}

			triggered := 0
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RULE\tSEVERITY\tCOUNT\tTHRESHOLD\tSTATE")
			for _, a := range alerts {
				state := "ok"
				if a.Triggered {
					state = "TRIGGERED"
					triggered++
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", a.RuleID, a.Severity, a.Count, a.Threshold, state)
			}
			_ = tw.Flush()

			if failOnAlert && triggered > 0 {
				return fmt.Errorf("%d rule(s) triggered", triggered)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnAlert, "fail", false, "Exit non-zero when any rule triggers")
	return cmd
}
