package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/utils/fmtutil"
)

func newSummaryCmd() *cobra.Command {
	var (
		trend time.Duration
		top   int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show overall counts, trend and top sources",
		// Short: 显示整体统计、趋势和主要来源
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			records := store.Snapshot()
			out := cmd.OutOrStdout()

			printSummary(out, eventlog.Aggregate(records))
			if first, last, ok := span(records); ok {
				fmt.Fprintf(out, "Span:     %s .. %s (%s)\n",
					first.Format(time.RFC3339), last.Format(time.RFC3339), fmtutil.FormatDuration(last.Sub(first)))
			}

			if cmd.Flags().Changed("trend") {
				buckets, err := eventlog.Trend(records, trend)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nTrend (%s):\n", trend)
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "START\tCRITICAL\tHIGH\tMEDIUM\tLOW\tTOTAL")
				for _, b := range buckets {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", b.Start.Format(time.RFC3339),
						b.BySeverity[eventlog.SeverityCritical], b.BySeverity[eventlog.SeverityHigh],
						b.BySeverity[eventlog.SeverityMedium], b.BySeverity[eventlog.SeverityLow], b.Total)
				}
				_ = tw.Flush()
			}

			fmt.Fprintln(out, "\nTop sources:")
			for _, sc := range eventlog.TopSources(records, top) {
				fmt.Fprintf(out, "  %-20s %d\n", sc.Source, sc.Events)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&trend, "trend", time.Hour, "Bucket width for the trend table (printed only when set)")
	cmd.Flags().IntVar(&top, "top", 5, "Number of sources to list (0 = all)")
	return cmd
}

// span returns the earliest and latest timestamps.
func span(records []eventlog.LogRecord) (first, last time.Time, ok bool) {
	for i, r := range records {
		if i == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if i == 0 || r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last, len(records) > 0
}
