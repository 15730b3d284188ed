// Package export writes record sets as JSON, JSON lines or CSV, optionally
// compressed.
// Package export 将记录导出为 JSON、JSON lines 或 CSV，可选压缩。
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// Compression wraps the encoded stream.
type Compression string

const (
	CompressNone Compression = "none"
	CompressGzip Compression = "gzip"
	CompressZstd Compression = "zstd"
)

// Header is the CSV column order.
var Header = []string{"id", "timestamp", "event", "severity", "source", "details", "status"}

// ParseFormat accepts json, jsonl (or ndjson) and csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", cgerrors.ErrInvalidFormat, s)
}

// ParseCompression accepts none, gzip and zstd.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressNone, nil
	case "gzip", "gz":
		return CompressGzip, nil
	case "zstd", "zst":
		return CompressZstd, nil
	}
	return "", fmt.Errorf("%w: compression %q", cgerrors.ErrInvalidFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSONL:
		return "application/x-ndjson"
	}
	return "application/json"
}

// Ext returns the file extension for f including compression.
func Ext(f Format, c Compression) string {
	ext := "." + string(f)
	switch c {
	case CompressGzip:
		ext += ".gz"
	case CompressZstd:
		ext += ".zst"
	}
	return ext
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter wraps w with the requested compression. Close flushes the
// compressor but never closes w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressNone, "":
		return nopCloser{w}, nil
	case CompressGzip:
		return gzip.NewWriter(w), nil
	case CompressZstd:
		return zstd.NewWriter(w)
	}
	return nil, fmt.Errorf("%w: compression %q", cgerrors.ErrInvalidFormat, c)
}

// Write encodes records to w in the given format. An empty set is written as
// "[]" for json, nothing for jsonl and a bare header for csv.
func Write(w io.Writer, records []eventlog.LogRecord, f Format) error {
	switch f {
	case FormatJSON:
		if records == nil {
			records = []eventlog.LogRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatJSONL:
		enc := json.NewEncoder(w)
		for i := range records {
			if err := enc.Encode(&records[i]); err != nil {
				return err
			}
		}
		return nil
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(Header); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(row(r)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("%w: %q", cgerrors.ErrInvalidFormat, f)
}

func row(r eventlog.LogRecord) []string {
	return []string{
		r.ID,
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Event,
		string(r.Severity),
		r.Source,
		r.Details,
		string(r.Status),
	}
}
