package api

import (
	"net/http"

	"github.com/cyberguard/cyberguard/internal/version"
)

// handleHealth reports liveness and the number of stored records.
// handleHealth 返回服务健康状态。
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": s.store.Len(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"version": version.Version})
}
