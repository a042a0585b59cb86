// Package authstate is the single place that answers "what is the current
// auth state of this request". The gatekeeper middleware and the route
// guards all consult a Resolver and layer only policy (redirect target, role
// requirement) on top of it.
package authstate

import (
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/identity"
	"github.com/leoprim/ebutikpartner-sub001/internal/session"
)

// Resolver derives the auth state of a request from its cookie jar. The
// result is recomputed per request and never cached beyond it.
type Resolver struct {
	client *identity.Client
	secure bool
}

// NewResolver creates a Resolver. secureCookies controls the Secure
// attribute on any cookies written during resolution.
func NewResolver(client *identity.Client, secureCookies bool) *Resolver {
	return &Resolver{client: client, secure: secureCookies}
}

// Store binds a session store to the request's cookie jar.
func (r *Resolver) Store(req *http.Request) *session.Store {
	return session.New(req, r.secure)
}

// Session resolves the request's session. A session nearing the end of its
// life may be refreshed as a side effect; the returned store then carries
// cookie mutations the caller must flush onto the response. Absence and
// lookup failure both surface as identity.ErrNoSession.
func (r *Resolver) Session(req *http.Request) (*session.Store, *identity.Session, error) {
	store := r.Store(req)
	sess, err := r.client.CurrentSession(req.Context(), store)
	if err != nil {
		return store, nil, err
	}
	return store, sess, nil
}

// User resolves the request's session and fetches the user it belongs to.
func (r *Resolver) User(req *http.Request) (*session.Store, *identity.User, error) {
	store := r.Store(req)
	user, err := r.client.CurrentUser(req.Context(), store)
	if err != nil {
		return store, nil, err
	}
	return store, user, nil
}

// ClearSession buffers removal of the session cookies in the store's jar.
// Guards call it when the jar holds tokens the provider no longer accepts, so
// the dead cookies cannot keep round-tripping between redirect layers.
func (r *Resolver) ClearSession(store *session.Store) {
	r.client.ClearSession(store)
}
