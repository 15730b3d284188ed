package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/utils/fmtutil"
)

func newQueryCmd() *cobra.Command {
	var (
		qf     queryFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and print records",
		// Short: 过滤、排序并打印记录
		Long: `Filter, sort and print records from the configured source, followed by
the severity summary of the filtered set.
过滤、排序并打印记录，随后输出过滤结果的严重级别汇总。

Examples:
  cyberguard query --severity critical --sort timestamp --dir asc
  cyberguard query -s camera --status blocked -n 20
  cyberguard query -w 'since("24h") && Rank >= 3' -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := qf.build()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			res, err := eventlog.Run(store.Snapshot(), q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "text", "":
				printRecords(out, res.Records)
				fmt.Fprintf(out, "\nShowing %d of %d matched (%d total)\n", len(res.Records), res.Matched, res.Overall.Total)
				printSummary(out, res.Summary)
				return nil
			}
			return fmt.Errorf("unsupported output: %s (supported: text, json)", output)
		},
	}
	qf.bind(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json")
	return cmd
}

func printRecords(out io.Writer, records []eventlog.LogRecord) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIMESTAMP\tSEVERITY\tSTATUS\tSOURCE\tEVENT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Severity, r.Status, r.Source, r.Event)
	}
	_ = tw.Flush()
}

func printSummary(out io.Writer, s eventlog.Summary) {
	parts := make([]string, 0, len(eventlog.Severities))
	for _, sev := range eventlog.Severities {
		n := s.BySeverity[sev]
		parts = append(parts, fmt.Sprintf("%s=%d (%s)", sev, n, fmtutil.Share(n, s.Total)))
	}
	fmt.Fprintf(out, "Severity: %s\n", strings.Join(parts, " "))

	parts = parts[:0]
	for _, st := range eventlog.Statuses {
		n := s.ByStatus[st]
		parts = append(parts, fmt.Sprintf("%s=%d (%s)", st, n, fmtutil.Share(n, s.Total)))
	}
	fmt.Fprintf(out, "Status:   %s\n", strings.Join(parts, " "))
	fmt.Fprintf(out, "Total:    %s\n", fmtutil.FormatCount(s.Total))
}
