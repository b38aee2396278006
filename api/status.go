package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	History  bool   `json:"history"`
	Uptime   string `json:"uptime"`
	Version  string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.Sessions.Len(),
		History:  s.History != nil,
		Uptime:   s.Now().Sub(s.started).Truncate(time.Second).String(),
		Version:  s.Version,
	})
}
