package middleware

import (
	"context"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/response"
	"github.com/leoprim/ebutikpartner-sub001/internal/authstate"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/role"
	"github.com/leoprim/ebutikpartner-sub001/internal/session"
)

const userKey contextKey = "user"

// evictDeadSession expires the session cookies on the response when the
// request carried any. Without this, a jar holding tokens the provider
// rejects would bounce the browser between the gatekeeper (which sees
// cookies) and the guards (which cannot resolve a user from them) forever.
func evictDeadSession(w http.ResponseWriter, resolver *authstate.Resolver, store *session.Store) {
	_, hasAccess := store.Get(identity.AccessTokenCookie)
	_, hasRefresh := store.Get(identity.RefreshTokenCookie)
	if !hasAccess && !hasRefresh {
		return
	}
	resolver.ClearSession(store)
	store.WriteTo(w)
}

// RequireUser guards the authenticated page subtree. It fetches the current
// user; absence or any fetch error redirects to the auth route. On success
// the user is injected into the request context for descendants.
func RequireUser(resolver *authstate.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, user, err := resolver.User(r)
			if err != nil {
				evictDeadSession(w, resolver, store)
				http.Redirect(w, r, AuthPath, http.StatusFound)
				return
			}
			if store.Mutated() {
				store.WriteTo(w)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin guards the admin page subtree. It re-verifies the session
// rather than trusting RequireUser upstream. A missing session redirects to
// the auth route. A role lookup that errors or returns false redirects to
// the application root, since an authenticated but unauthorized user should
// not land back on the sign-in page. An error never grants access.
func RequireAdmin(resolver *authstate.Resolver, roles role.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, user, err := resolver.User(r)
			if err != nil {
				evictDeadSession(w, resolver, store)
				http.Redirect(w, r, AuthPath, http.StatusFound)
				return
			}

			isAdmin, err := roles.IsAdmin(r.Context(), user.ID)
			if err != nil || !isAdmin {
				http.Redirect(w, r, RootPath, http.StatusFound)
				return
			}

			if store.Mutated() {
				store.WriteTo(w)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// APIRequireUser is the JSON flavor of RequireUser for API routes: a missing
// or unresolvable session returns 401 instead of redirecting.
func APIRequireUser(resolver *authstate.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, user, err := resolver.User(r)
			if err != nil {
				evictDeadSession(w, resolver, store)
				response.Err(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if store.Mutated() {
				store.WriteTo(w)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// APIRequireAdmin is the JSON flavor of RequireAdmin: 401 without a session,
// 403 when the fail-closed role lookup denies.
func APIRequireAdmin(resolver *authstate.Resolver, roles role.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, user, err := resolver.User(r)
			if err != nil {
				evictDeadSession(w, resolver, store)
				response.Err(w, http.StatusUnauthorized, "authentication required")
				return
			}

			isAdmin, err := roles.IsAdmin(r.Context(), user.ID)
			if err != nil || !isAdmin {
				response.Err(w, http.StatusForbidden, "admin access required")
				return
			}

			if store.Mutated() {
				store.WriteTo(w)
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *identity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(ctx context.Context) *identity.User {
	if u, ok := ctx.Value(userKey).(*identity.User); ok {
		return u
	}
	return nil
}
