package api

import (
	"bytes"
	"net/http"

	"github.com/openclaw/qrgen/i18n"
)

type pageData struct {
	Lang      string
	T         map[string]string
	Languages []i18n.Summary
	Examples  []i18n.NamedExample
	State     stateResponse
	Version   string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.Templates == nil {
		writeError(w, http.StatusNotFound, "page not available")
		return
	}

	st := s.state(controllerFrom(r))
	data := pageData{
		Lang:      st.Language,
		T:         st.Strings,
		Languages: s.Catalog.Languages(),
		Examples:  st.Examples,
		State:     st,
		Version:   s.Version,
	}

	var buf bytes.Buffer
	if err := s.Templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.Log.Error("render page", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
