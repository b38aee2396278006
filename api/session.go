package api

import (
	"context"
	"net/http"

	"github.com/openclaw/qrgen/controller"
)

// SessionCookie carries the session id.
const SessionCookie = "qrgen_session"

type ctxKey int

const (
	ctrlKey ctxKey = iota
	sessionKey
)

// withSession resolves the session cookie to a controller, creating a new
// session (and setting the cookie) when needed. New sessions start in the
// language negotiated from Accept-Language, or DefaultLanguage when the
// header is absent.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		lang := s.DefaultLanguage
		if al := r.Header.Get("Accept-Language"); al != "" {
			lang = s.Catalog.Match(al)
		}
		ctrl, sid, created, err := s.Sessions.Get(id, lang)
		if err != nil {
			s.Log.Error("session lookup failed", "error", err)
			writeDomainError(w, err)
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}

		ctx := context.WithValue(r.Context(), ctrlKey, ctrl)
		ctx = context.WithValue(ctx, sessionKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func controllerFrom(r *http.Request) *controller.Controller {
	ctrl, _ := r.Context().Value(ctrlKey).(*controller.Controller)
	return ctrl
}

func sessionFrom(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey).(string)
	return sid
}
