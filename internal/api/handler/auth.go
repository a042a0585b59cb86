package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/middleware"
	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/session"
	"github.com/leoprim/ebutikpartner-sub001/internal/web"
)

// AuthHandler serves the sign-in page and the password sign-in and sign-out
// endpoints.
type AuthHandler struct {
	client   *identity.Client
	renderer *web.Renderer
	secure   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *identity.Client, renderer *web.Renderer, secureCookies bool) *AuthHandler {
	return &AuthHandler{client: client, renderer: renderer, secure: secureCookies}
}

type authPageData struct {
	Error          string
	RedirectedFrom string
}

// ShowSignIn handles GET /auth. Error messages arrive as a query parameter
// from failed sign-ins and failed code exchanges.
func (h *AuthHandler) ShowSignIn(w http.ResponseWriter, r *http.Request) {
	data := authPageData{
		Error:          r.URL.Query().Get("error"),
		RedirectedFrom: sanitizeRedirect(r.URL.Query().Get("redirectedFrom")),
	}
	if err := h.renderer.Render(w, "auth.html", data); err != nil {
		slog.Error("failed to render sign-in page", "error", err)
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}

// SignIn handles POST /auth/sign-in (email/password form).
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "invalid form submission")
		return
	}

	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")
	redirectTo := sanitizeRedirect(r.PostForm.Get("redirectedFrom"))

	if email == "" || password == "" {
		redirectWithError(w, r, "email and password are required")
		return
	}

	sess, err := h.client.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		slog.Warn("sign-in failed", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		http.Redirect(w, r,
			middleware.AuthPath+"?error="+url.QueryEscape("invalid email or password")+
				"&redirectedFrom="+url.QueryEscape(redirectTo),
			http.StatusFound)
		return
	}

	store := session.New(r, h.secure)
	h.client.WriteSession(store, sess)
	store.WriteTo(w)

	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// SignOut handles POST /signout. The session cookies are cleared even when
// revocation at the provider fails.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	store := session.New(r, h.secure)
	if err := h.client.SignOut(r.Context(), store); err != nil {
		slog.Warn("sign-out revocation failed", "error", err, "requestId", middleware.GetRequestID(r.Context()))
	}
	store.WriteTo(w)

	http.Redirect(w, r, middleware.AuthPath, http.StatusFound)
}

// Landing handles GET /. The gatekeeper already bounced unauthenticated
// visitors to the auth page; anyone left goes to the dashboard.
func (h *AuthHandler) Landing(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, middleware.DefaultLandingPath, http.StatusFound)
}
