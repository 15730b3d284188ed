package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/export"
	"github.com/cyberguard/cyberguard/internal/metrics"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
	"github.com/cyberguard/cyberguard/pkg/storage"
)

// handleLogs queries (GET) or ingests (POST) records.
// handleLogs 查询 (GET) 或写入 (POST) 日志记录。
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.queryLogs(w, r)
	case http.MethodPost:
		s.ingestLogs(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) queryLogs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parseQuery(r.URL.Query(), s.web.MaxLimit)
	if err != nil {
		metrics.ObserveQuery(start, err)
		writeError(w, r, err)
		return
	}

	res, err := eventlog.Run(s.store.Snapshot(), q)
	metrics.ObserveQuery(start, err)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ingestLogs accepts a single JSON record or an array. The batch is
// all-or-nothing.
func (s *Server) ingestLogs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Request Too Large", http.StatusRequestEntityTooLarge)
		return
	}
	records, err := s.decoder.Decode(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Append(records...); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.IngestedTotal.Add(float64(len(records)))
	logger.Get(r.Context()).Debugf("[LOG] Ingested %d record(s) from %s", len(records), clientIP(r))
	writeJSON(w, r, http.StatusCreated, map[string]int{
		"ingested": len(records),
		"total":    s.store.Len(),
	})
}

type summaryResponse struct {
	Summary    eventlog.Summary       `json:"summary"`
	Trend      []eventlog.TrendBucket `json:"trend,omitempty"`
	TopSources []eventlog.SourceCount `json:"top_sources"`
}

// handleSummary returns the overall aggregate, an optional trend and the
// busiest sources. ?interval= is a Go duration such as 1h; ?top= defaults to 5.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	v := r.URL.Query()
	top, err := parsePositive(v, "top", 5)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records := s.store.Snapshot()
	resp := summaryResponse{
		Summary:    eventlog.Aggregate(records),
		TopSources: eventlog.TopSources(records, top),
	}
	if iv := v.Get("interval"); iv != "" {
		d, err := time.ParseDuration(iv)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %q", cgerrors.ErrInvalidInterval, iv))
			return
		}
		if resp.Trend, err = eventlog.Trend(records, d); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleAlerts evaluates the configured rules against the current records.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	alerts := s.rules.Evaluate(s.store.Snapshot())
	for _, a := range alerts {
		metrics.ObserveAlert(a.RuleID, a.Triggered)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"alerts": alerts})
}

// handleExport streams the filtered, sorted records as a download. Paging
// parameters are ignored.
// handleExport 以下载形式导出过滤排序后的记录。
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	v := r.URL.Query()
	format, err := export.ParseFormat(v.Get("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	compression, err := export.ParseCompression(v.Get("compress"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := parseQuery(v, s.web.MaxLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q.Offset, q.Limit = 0, 0

	res, err := eventlog.Run(s.store.Snapshot(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch compression {
	case export.CompressGzip:
		w.Header().Set("Content-Type", "application/gzip")
	case export.CompressZstd:
		w.Header().Set("Content-Type", "application/zstd")
	default:
		w.Header().Set("Content-Type", format.ContentType())
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="cyberguard-logs%s"`, export.Ext(format, compression)))

	cw, err := export.NewWriter(w, compression)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := export.Write(cw, res.Records, format); err != nil {
		logger.Get(r.Context()).Warnf("[WARN]  Export interrupted: %v", err)
		return
	}
	if err := cw.Close(); err != nil {
		logger.Get(r.Context()).Warnf("[WARN]  Export flush failed: %v", err)
	}
}

// handlePreferences reads (GET) or partially updates (PUT) UI preferences.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		http.Error(w, "Preferences disabled", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.prefs.Load()
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, p)
	case http.MethodPut:
		var patch storage.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", cgerrors.ErrInvalidPreference, err))
			return
		}
		p, err := s.prefs.Apply(patch)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, p)
	default:
		methodNotAllowed(w)
	}
}
