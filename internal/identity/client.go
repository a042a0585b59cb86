// Package identity is the HTTP client for the hosted identity provider. It
// owns session cookie encoding, the code-exchange and password grants,
// transparent token refresh, and the admin user-management surface.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/leoprim/ebutikpartner-sub001/internal/session"
)

// ErrNoSession is returned when the request's cookie jar holds no usable
// session and none could be recovered via refresh.
var ErrNoSession = errors.New("no session")

// APIError is a non-2xx response from the identity provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider returned %d: %s", e.Status, e.Message)
}

// Client issues requests to the identity provider.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpc      *http.Client
}

// NewClient creates a provider client. anonKey authenticates ordinary calls;
// serviceKey authenticates the admin surface.
func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpc:      &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         *User  `json:"user"`
}

func (t *tokenResponse) session(now time.Time) *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(t.ExpiresIn) * time.Second),
	}
}

// ExchangeCode converts a one-time authorization code into a Session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=authorization_code", "",
		map[string]string{"auth_code": code}, &tok)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok.session(time.Now()), nil
}

// SignInWithPassword performs the password grant.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &tok)
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	return tok.session(time.Now()), nil
}

// Refresh trades a refresh token for a new Session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var tok tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": refreshToken}, &tok)
	if err != nil {
		return nil, fmt.Errorf("refreshing session: %w", err)
	}
	return tok.session(time.Now()), nil
}

// WriteSession caches a session in the store's cookie jar.
func (c *Client) WriteSession(store *session.Store, sess *Session) {
	store.Set(AccessTokenCookie, sess.AccessToken)
	store.Set(RefreshTokenCookie, sess.RefreshToken)
	store.Set(TokenExpiryCookie, strconv.FormatInt(sess.ExpiresAt.Unix(), 10))
}

// ClearSession removes the session cookies from the store's jar.
func (c *Client) ClearSession(store *session.Store) {
	store.Delete(AccessTokenCookie)
	store.Delete(RefreshTokenCookie)
	store.Delete(TokenExpiryCookie)
}

// CurrentSession reads the session cached in the store. An expired access
// token is refreshed transparently and the refreshed tokens are written back
// into the store, so callers that pass the response through must flush the
// store's mutations. Returns ErrNoSession when no session can be resolved.
func (c *Client) CurrentSession(ctx context.Context, store *session.Store) (*Session, error) {
	access, hasAccess := store.Get(AccessTokenCookie)
	refresh, hasRefresh := store.Get(RefreshTokenCookie)

	var expiresAt time.Time
	if raw, ok := store.Get(TokenExpiryCookie); ok {
		if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
			expiresAt = time.Unix(secs, 0)
		}
	}

	sess := &Session{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}

	if hasAccess && !sess.Expired(time.Now()) {
		return sess, nil
	}

	if !hasRefresh {
		return nil, ErrNoSession
	}

	refreshed, err := c.Refresh(ctx, refresh)
	if err != nil {
		return nil, ErrNoSession
	}
	c.WriteSession(store, refreshed)
	return refreshed, nil
}

// CurrentUser resolves the session from the store and fetches the user it
// belongs to. A stale access token is refreshed once and the fetch retried.
func (c *Client) CurrentUser(ctx context.Context, store *session.Store) (*User, error) {
	sess, err := c.CurrentSession(ctx, store)
	if err != nil {
		return nil, err
	}

	user, err := c.fetchUser(ctx, sess.AccessToken)
	if err == nil {
		return user, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && sess.RefreshToken != "" {
		refreshed, rerr := c.Refresh(ctx, sess.RefreshToken)
		if rerr != nil {
			return nil, ErrNoSession
		}
		c.WriteSession(store, refreshed)
		return c.fetchUser(ctx, refreshed.AccessToken)
	}

	return nil, err
}

// SignOut revokes the session at the provider and clears the cached cookies.
// The cookies are cleared even when revocation fails.
func (c *Client) SignOut(ctx context.Context, store *session.Store) error {
	sess, err := c.CurrentSession(ctx, store)
	if err != nil {
		c.ClearSession(store)
		return nil
	}

	err = c.do(ctx, http.MethodPost, "/auth/v1/logout", sess.AccessToken, nil, nil)
	c.ClearSession(store)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// Health reports whether the provider is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/v1/health", "", nil, nil)
}

func (c *Client) fetchUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do issues one JSON request. bearer defaults to the anon key; the anon key
// is always sent as the apikey header.
func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: decodeErrorMessage(resp)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func decodeErrorMessage(resp *http.Response) string {
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return http.StatusText(resp.StatusCode)
	}
	for _, m := range []string{payload.ErrorDescription, payload.Error, payload.Msg, payload.Message} {
		if m != "" {
			return m
		}
	}
	return http.StatusText(resp.StatusCode)
}
