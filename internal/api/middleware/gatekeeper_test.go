package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/authstate"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
)

// fakeProvider is a stand-in identity provider. It counts hits so tests can
// assert that certain paths never trigger a session lookup.
type fakeProvider struct {
	srv          *httptest.Server
	hits         atomic.Int64
	refreshFails bool
	userFails    bool
	userID       uuid.UUID
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{userID: uuid.New()}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.hits.Add(1)
		switch r.URL.Path {
		case "/auth/v1/token":
			if p.refreshFails {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error_description":"refresh token revoked"}`)
				return
			}
			fmt.Fprint(w, `{"access_token":"refreshed-access","refresh_token":"refreshed-refresh","expires_in":3600}`)
		case "/auth/v1/user":
			if p.userFails {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"msg":"provider unavailable"}`)
				return
			}
			fmt.Fprintf(w, `{"id":%q,"email":"alice@example.com","user_metadata":{"display_name":"Alice"}}`, p.userID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *fakeProvider) resolver() *authstate.Resolver {
	client := identity.NewClient(p.srv.URL, "anon", "service")
	return authstate.NewResolver(client, false)
}

func addSessionCookies(req *http.Request, expiresAt time.Time) {
	req.AddCookie(&http.Cookie{Name: identity.AccessTokenCookie, Value: "live-access"})
	req.AddCookie(&http.Cookie{Name: identity.RefreshTokenCookie, Value: "live-refresh"})
	req.AddCookie(&http.Cookie{Name: identity.TokenExpiryCookie, Value: strconv.FormatInt(expiresAt.Unix(), 10)})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found", name)
	return nil
}

// --- Static allowlist ---

func TestGatekeeper_StaticAssetNeverLooksUpSession(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	paths := []string{"/static/app.css", "/favicon.ico", "/images/logo.png", "/banner.svg", "/photo.JPEG"}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		// Expired session cookies would force a network refresh if the
		// path were not exempt.
		addSessionCookies(req, time.Now().Add(-time.Minute))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "path %s must pass through", path)
	}

	assert.Zero(t, provider.hits.Load(), "static paths must not contact the identity provider")
}

// --- No session ---

func TestGatekeeper_NoSessionRedirectsWithOriginalPath(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?redirectedFrom=%2Fdashboard", w.Header().Get("Location"))
}

func TestGatekeeper_NoSessionOnAuthPathPassesThrough(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	for _, path := range []string{"/auth", "/auth/callback"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "path %s must pass through", path)
	}
}

func TestGatekeeper_FailedLookupTreatedAsNoSession(t *testing.T) {
	provider := newFakeProvider(t)
	provider.refreshFails = true
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addSessionCookies(req, time.Now().Add(-time.Minute))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth?redirectedFrom=%2Fdashboard", w.Header().Get("Location"))
}

// --- Session present ---

func TestGatekeeper_SessionOnAuthPathRedirectsToLanding(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	addSessionCookies(req, time.Now().Add(time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestGatekeeper_SessionOnCallbackPassesThrough(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	// A signed-in browser completing a fresh code exchange must reach the
	// callback handler; bouncing to the landing page would drop the code.
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=one-time", nil)
	addSessionCookies(req, time.Now().Add(time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGatekeeper_SessionPassesThrough(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addSessionCookies(req, time.Now().Add(time.Hour))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, provider.hits.Load(), "a live token needs no provider round trip")
}

func TestGatekeeper_RefreshedCookiesPropagateOnPassThrough(t *testing.T) {
	provider := newFakeProvider(t)
	handler := middleware.Gatekeeper(provider.resolver())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	addSessionCookies(req, time.Now().Add(-time.Minute))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, provider.hits.Load())

	c := cookieByName(t, w.Result().Cookies(), identity.AccessTokenCookie)
	assert.Equal(t, "refreshed-access", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

// --- IsStaticAsset ---

func TestIsStaticAsset(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/static/app.css", true},
		{"/favicon.ico", true},
		{"/logo.webp", true},
		{"/nested/dir/image.gif", true},
		{"/dashboard", false},
		{"/auth", false},
		{"/api/admin/users", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, middleware.IsStaticAsset(tc.path), "path %s", tc.path)
	}
}
