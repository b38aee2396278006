package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openclaw/qrgen/controller"
	"github.com/openclaw/qrgen/i18n"
	"github.com/openclaw/qrgen/render"
	"github.com/openclaw/qrgen/session"
	"github.com/openclaw/qrgen/store"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Sessions *session.Manager
	Catalog  *i18n.Catalog
	// DefaultLanguage applies to new sessions without Accept-Language.
	DefaultLanguage string
	// History is nil when the export log is disabled.
	History      *store.ExportStore
	HistoryLimit int
	Templates    *template.Template
	Static       fs.FS
	Log          *slog.Logger
	Version      string
	Now          func() time.Time

	started time.Time
}

// NewRouter returns a fully configured chi router with the page, the static
// assets and all API routes.
func NewRouter(s *Server) http.Handler {
	if s.Log == nil {
		s.Log = slog.Default()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	s.started = s.Now()

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))

	// Page & assets
	r.With(s.withSession).Get("/", s.handlePage)
	if s.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.Static))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", s.handleHealth)
		r.Get("/languages", s.handleLanguages)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/state", s.handleState)

			// Form
			r.Put("/content", s.handleSetContent)
			r.Put("/style", s.handleSetStyle)
			r.Put("/logo/params", s.handleSetLogoParam)
			r.Post("/examples/{key}", s.handleSelectExample)
			r.Put("/language", s.handleSetLanguage)
			r.Put("/tab", s.handleSetTab)

			// Logo
			r.Post("/logo", s.handleUploadLogo)
			r.Delete("/logo", s.handleRemoveLogo)

			// Output
			r.Get("/preview.png", s.handlePreview)
			r.Get("/download", s.handleDownload)
			r.Get("/exports", s.handleExports)
		})
	})

	return r
}

// --- helpers ----------------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeCodedError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeDomainError maps controller and render errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *controller.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		switch verr.Code {
		case controller.CodeTooLarge:
			status = http.StatusRequestEntityTooLarge
		case controller.CodeNotAnImage:
			status = http.StatusUnsupportedMediaType
		}
		writeCodedError(w, status, string(verr.Code), verr.Error())
	case errors.Is(err, render.ErrEmptyCanvas):
		writeCodedError(w, http.StatusConflict, string(render.CodeEmptyCanvas), "nothing to export")
	case render.GetCode(err) != "":
		writeCodedError(w, http.StatusUnprocessableEntity, string(render.GetCode(err)), err.Error())
	case errors.Is(err, session.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- middleware --------------------------------------------------------------

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}
