package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/session"
)

// CallbackHandler is the terminal endpoint of the OAuth flow: it receives an
// authorization code, exchanges it for a session, persists the resulting
// cookies and redirects. It always answers with a redirect, never a body.
type CallbackHandler struct {
	client *identity.Client
	secure bool
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(client *identity.Client, secureCookies bool) *CallbackHandler {
	return &CallbackHandler{client: client, secure: secureCookies}
}

// ServeHTTP handles GET /auth/callback?code=...&redirect_to=...
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Whatever goes wrong mid-exchange, the caller sees the failure
	// redirect, never a half-written response.
	defer func() {
		if err := recover(); err != nil {
			slog.Error("panic during code exchange", "error", err, "requestId", middleware.GetRequestID(r.Context()))
			redirectWithError(w, r, "authentication failed")
		}
	}()

	code := r.URL.Query().Get("code")
	if code == "" {
		redirectWithError(w, r, "missing authorization code")
		return
	}

	redirectTo := sanitizeRedirect(r.URL.Query().Get("redirect_to"))

	sess, err := h.client.ExchangeCode(r.Context(), code)
	if err != nil {
		slog.Warn("code exchange failed", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		redirectWithError(w, r, exchangeErrorMessage(err))
		return
	}

	store := session.New(r, h.secure)
	h.client.WriteSession(store, sess)

	// The exchange mutated the cookie jar as a side effect; the browser only
	// observes the new session if the whole resolved jar lands on the
	// response.
	store.FlushAll(w)

	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// redirectWithError sends the browser back to the auth page with the failure
// message carried as a url-encoded query parameter.
func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, middleware.AuthPath+"?error="+url.QueryEscape(message), http.StatusFound)
}

// sanitizeRedirect keeps post-login destinations on this site. Anything that
// is not a relative path falls back to the landing page.
func sanitizeRedirect(to string) string {
	if to == "" || !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") {
		return middleware.DefaultLandingPath
	}
	return to
}

func exchangeErrorMessage(err error) string {
	var apiErr *identity.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "authentication failed"
}
