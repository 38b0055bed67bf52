package console

import (
	"net/http"
	"net/url"

	"github.com/follysitou/sygpress-console/internal/apierr"
	"github.com/follysitou/sygpress-console/internal/guard"
)

// fail handles a backend error uniformly: a dead session goes back to login
// with the current page as returnUrl, a role rejection goes to the
// unauthorized page, and everything else becomes an error toast on the
// fallback page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	s.log.WithContext(r.Context()).WithError(err).Error("backend call failed")

	if kind, ok := apierr.KindOf(err); ok {
		switch kind {
		case apierr.KindUnauthorized:
			// The client's auth-failure hook has already dropped the session.
			target := guard.LoginPath + "?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
			return
		case apierr.KindForbidden:
			http.Redirect(w, r, guard.UnauthorizedPath, http.StatusFound)
			return
		}
	}

	s.toasts.Error(apierr.UserMessage(err))
	http.Redirect(w, r, fallback, http.StatusFound)
}

// safeReturnURL accepts only local absolute paths; anything else falls back
// to the dashboard.
func safeReturnURL(raw string) string {
	if raw == "" || raw[0] != '/' || (len(raw) > 1 && raw[1] == '/') {
		return "/app/dashboard"
	}
	return raw
}
