package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openclaw/qrgen/controller"
	"github.com/openclaw/qrgen/i18n"
)

type stateResponse struct {
	controller.Snapshot
	Strings  map[string]string   `json:"strings"`
	Examples []i18n.NamedExample `json:"examples"`
}

func (s *Server) state(ctrl *controller.Controller) stateResponse {
	snap := ctrl.Snapshot()
	return stateResponse{
		Snapshot: snap,
		Strings:  s.Catalog.Strings(snap.Language),
		Examples: s.Catalog.Examples(snap.Language),
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state(controllerFrom(r)))
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSetContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctrl := controllerFrom(r)
	ctrl.SetContent(req.Content)
	writeJSON(w, http.StatusOK, s.state(ctrl))
}

// paramRequest accepts the value as a JSON string, number or boolean so the
// page can post input values as they are.
type paramRequest struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func (p paramRequest) value() string {
	var str string
	if err := json.Unmarshal(p.Value, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(p.Value))
}

func (s *Server) handleSetStyle(w http.ResponseWriter, r *http.Request) {
	s.setParam(w, r, (*controller.Controller).SetStyleParam)
}

func (s *Server) handleSetLogoParam(w http.ResponseWriter, r *http.Request) {
	s.setParam(w, r, (*controller.Controller).SetLogoParam)
}

func (s *Server) setParam(w http.ResponseWriter, r *http.Request, set func(*controller.Controller, string, string) error) {
	var req paramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	ctrl := controllerFrom(r)
	if err := set(ctrl, req.Name, req.value()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(ctrl))
}

func (s *Server) handleSelectExample(w http.ResponseWriter, r *http.Request) {
	ctrl := controllerFrom(r)
	if err := ctrl.SelectExample(chi.URLParam(r, "key")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(ctrl))
}

type languageRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctrl := controllerFrom(r)
	if err := ctrl.SetLanguage(req.Language); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(ctrl))
}

type tabRequest struct {
	Tab string `json:"tab"`
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req tabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctrl := controllerFrom(r)
	if err := ctrl.SetTab(req.Tab); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.state(ctrl))
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.Languages())
}
