package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/leoprim/ebutikpartner-sub001/internal/authstate"
)

// Route destinations shared by the gatekeeper, the guards and the handlers.
const (
	AuthPath           = "/auth"
	CallbackPath       = "/auth/callback"
	DefaultLandingPath = "/dashboard"
	RootPath           = "/"
)

// staticExtensions lists file extensions exempt from session checks
// regardless of path.
var staticExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".ico":  true,
	".webp": true,
}

// Gatekeeper runs on every inbound request. Static assets pass through
// untouched. For everything else it resolves the session bound to the
// request's cookies: no session on a protected path redirects to the auth
// route carrying the original path as redirectedFrom; a live session on the
// auth route (the OAuth callback excepted) redirects to the landing page. A
// pass-through still flushes any
// cookies the resolution refreshed. A failed lookup is treated the same as
// no session; there is no error channel at this layer.
func Gatekeeper(resolver *authstate.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsStaticAsset(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			store, _, err := resolver.Session(r)
			onAuthPath := isAuthPath(r.URL.Path)

			if err != nil {
				if onAuthPath {
					next.ServeHTTP(w, r)
					return
				}
				to := AuthPath + "?redirectedFrom=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, to, http.StatusFound)
				return
			}

			if store.Mutated() {
				store.WriteTo(w)
			}

			// The callback is exempt from the signed-in bounce: it carries a
			// one-time authorization code that would be dropped by a redirect,
			// and a signed-in user may legitimately complete a new exchange.
			if onAuthPath && r.URL.Path != CallbackPath {
				http.Redirect(w, r, DefaultLandingPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsStaticAsset reports whether the path is on the static allowlist. Such
// paths never trigger a session lookup.
func IsStaticAsset(p string) bool {
	if strings.HasPrefix(p, "/static/") || p == "/favicon.ico" {
		return true
	}
	return staticExtensions[strings.ToLower(path.Ext(p))]
}

func isAuthPath(p string) bool {
	return p == AuthPath || strings.HasPrefix(p, AuthPath+"/")
}
