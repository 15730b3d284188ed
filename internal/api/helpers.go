package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/rules"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
	cgerrors "github.com/cyberguard/cyberguard/pkg/errors"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get(r.Context()).Warnf("[WARN]  Failed to encode response: %v", err)
	}
}

// writeError maps err to a status code and writes {"error": ...}.
// writeError 将错误映射为状态码并写入响应。
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Get(r.Context()).Errorf("❌ %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cgerrors.ErrInvalidSortField),
		errors.Is(err, cgerrors.ErrInvalidSortDirection),
		errors.Is(err, cgerrors.ErrInvalidFilterValue),
		errors.Is(err, cgerrors.ErrInvalidRecord),
		errors.Is(err, cgerrors.ErrInvalidInterval),
		errors.Is(err, cgerrors.ErrInvalidFormat),
		errors.Is(err, cgerrors.ErrInvalidExpression),
		errors.Is(err, cgerrors.ErrInvalidPreference):
		return http.StatusBadRequest
	case errors.Is(err, cgerrors.ErrDuplicateRecord):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
}

// clientIP returns the remote host without port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseQuery builds a Query from URL parameters:
// search, severity, status, sort, dir, where, limit, offset.
// parseQuery 从 URL 参数构建查询。
func parseQuery(v url.Values, maxLimit int) (eventlog.Query, error) {
	var q eventlog.Query

	sev, err := eventlog.ParseSeverityFilter(v.Get("severity"))
	if err != nil {
		return q, err
	}
	st, err := eventlog.ParseStatusFilter(v.Get("status"))
	if err != nil {
		return q, err
	}
	q.Criteria = eventlog.FilterCriteria{SearchText: v.Get("search"), Severity: sev, Status: st}

	if q.Sort, err = eventlog.ParseSortSpec(v.Get("sort"), v.Get("dir")); err != nil {
		return q, err
	}

	if expr := v.Get("where"); expr != "" {
		p, err := rules.Compile(expr)
		if err != nil {
			return q, err
		}
		q.Where = p
	}

	q.Limit = defaultLimit
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, cgerrors.NewFilterValueError("limit", s)
		}
		q.Limit = min(n, maxLimit)
		if n == 0 {
			q.Limit = maxLimit
		}
	}
	if s := v.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, cgerrors.NewFilterValueError("offset", s)
		}
		q.Offset = n
	}
	return q, nil
}

func parsePositive(v url.Values, key string, def int) (int, error) {
	s := v.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q", cgerrors.ErrInvalidFilterValue, key, s)
	}
	return n, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
