package api

import (
	"net/http"
	"strconv"

	"github.com/openclaw/qrgen/store"
)

const (
	defaultExportsLimit = 50
	maxExportsLimit     = 500
)

type exportsResponse struct {
	Exports []store.Export `json:"exports"`
	Total   int            `json:"total"`
}

// handleExports lists the calling session's downloads.
func (s *Server) handleExports(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotFound, "export history is disabled")
		return
	}

	limit := defaultExportsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxExportsLimit {
		limit = maxExportsLimit
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	sid := sessionFrom(r)
	var (
		exports []store.Export
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		exports, err = s.History.Search(sid, q, limit)
	} else {
		exports, err = s.History.Recent(sid, limit, offset)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	total, err := s.History.Count(sid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if exports == nil {
		exports = []store.Export{}
	}
	writeJSON(w, http.StatusOK, exportsResponse{Exports: exports, Total: total})
}
