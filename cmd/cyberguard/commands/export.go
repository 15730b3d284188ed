package commands

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/export"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
)

func newExportCmd() *cobra.Command {
	var (
		qf       queryFlags
		format   string
		compress string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write filtered records as json, jsonl or csv",
		// Short: 以 json、jsonl 或 csv 导出过滤后的记录
		Long: `Write the filtered, sorted records to a file or stdout.
将过滤排序后的记录写入文件或标准输出。

Examples:
  cyberguard export --format csv --severity high --out high.csv
  cyberguard export --format jsonl --compress zstd --out events.jsonl.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			c, err := export.ParseCompression(compress)
			if err != nil {
				return err
			}
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

			if outPath == "" || outPath == "-" {
				return writeExport(nopCloser{cmd.OutOrStdout()}, res.Records, f, c)
			}
			fh, err := os.Create(filepath.Clean(outPath))
			if err != nil {
				return err
			}
			if err := writeExport(fh, res.Records, f, c); err != nil {
				return err
			}
			logger.Get(cmd.Context()).Infof("✅ Exported %d records to %s", len(res.Records), outPath)
			return nil
		},
	}
	qf.bind(cmd, false)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, jsonl or csv")
	cmd.Flags().StringVar(&compress, "compress", "none", "Compression: none, gzip or zstd")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default stdout)")
	return cmd
}

// writeExport encodes records into out and closes it.
// The close error is returned when nothing failed earlier.
// writeExport 编码记录并关闭 out；若此前无错误则返回关闭错误。
func writeExport(out io.WriteCloser, records []eventlog.LogRecord, f export.Format, c export.Compression) (err error) {
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w, err := export.NewWriter(out, c)
	if err != nil {
		return err
	}
	if err := export.Write(w, records, f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
