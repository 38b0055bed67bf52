// Package guard decides, per navigation attempt, whether the request may
// proceed or must be redirected. Decisions are pure functions of the current
// session and the target route; no I/O happens here.
package guard

import (
	"net/http"
	"net/url"

	"github.com/follysitou/sygpress-console/internal/session"
)

// Well-known console paths the guard redirects to.
const (
	LoginPath          = "/login"
	ChangePasswordPath = "/change-password"
	UnauthorizedPath   = "/unauthorized"
)

// Decision is the outcome of an access check.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectChangePassword
	RedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectChangePassword:
		return "redirect_change_password"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Route describes the protection level of a console route.
type Route struct {
	Path      string
	Protected bool
	// RequiredRole, when set, is the minimum role for the route.
	RequiredRole *session.Role
}

// AdminOnly builds a protected route requiring the admin role.
func AdminOnly(path string) Route {
	admin := session.RoleAdmin
	return Route{Path: path, Protected: true, RequiredRole: &admin}
}

// Authenticated builds a protected route with no role requirement.
func Authenticated(path string) Route {
	return Route{Path: path, Protected: true}
}

// Public builds an unprotected route.
func Public(path string) Route {
	return Route{Path: path}
}

// Evaluate applies the access rules in order:
// anonymous on a protected route is sent to login; a session that must
// change its password is pinned to the change-password route; a missing
// role leads to the unauthorized page; anything else is allowed.
func Evaluate(sess *session.Session, route Route) Decision {
	if sess == nil {
		if route.Protected {
			return RedirectLogin
		}
		return Allow
	}

	if sess.MustChangePassword && route.Protected && route.Path != ChangePasswordPath {
		return RedirectChangePassword
	}

	if route.RequiredRole != nil {
		switch *route.RequiredRole {
		case session.RoleAdmin:
			if !sess.Role.Satisfies(session.RoleAdmin) {
				return RedirectUnauthorized
			}
		case session.RoleUser:
			if !sess.Role.Satisfies(session.RoleUser) {
				return RedirectUnauthorized
			}
		default:
			return RedirectUnauthorized
		}
	}

	return Allow
}

// SessionReader is the slice of the session store the guard needs.
type SessionReader interface {
	Current() (session.Session, bool)
}

// Middleware adapts Evaluate to the console's HTTP surface, issuing 302
// redirects for denials. The requested path travels along as returnUrl so a
// successful login can come back to it.
func Middleware(store SessionReader, route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session
			if current, ok := store.Current(); ok {
				sess = &current
			}

			switch Evaluate(sess, Route{Path: r.URL.Path, Protected: route.Protected, RequiredRole: route.RequiredRole}) {
			case Allow:
				next.ServeHTTP(w, r)
			case RedirectLogin:
				target := LoginPath + "?returnUrl=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
			case RedirectChangePassword:
				http.Redirect(w, r, ChangePasswordPath, http.StatusFound)
			case RedirectUnauthorized:
				http.Redirect(w, r, UnauthorizedPath, http.StatusFound)
			}
		})
	}
}
