// Package session adapts a single request's cookie jar into a named token
// store. A Store buffers writes and deletes so that a handler can flush the
// resolved jar onto the outgoing response in one place.
package session

import (
	"net/http"
	"sort"
)

// Store binds to one inbound request's cookies. It is never shared across
// requests.
type Store struct {
	req     *http.Request
	secure  bool
	values  map[string]string
	deleted map[string]bool
}

// New creates a Store over the given request's cookie jar. When secure is
// true, every cookie written carries the Secure attribute.
func New(r *http.Request, secure bool) *Store {
	return &Store{
		req:     r,
		secure:  secure,
		values:  make(map[string]string),
		deleted: make(map[string]bool),
	}
}

// Get returns the named token, preferring a buffered write over the value
// carried by the request.
func (s *Store) Get(name string) (string, bool) {
	if s.deleted[name] {
		return "", false
	}
	if v, ok := s.values[name]; ok {
		return v, true
	}
	c, err := s.req.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Set buffers a token write. Nothing reaches the response until WriteTo or
// FlushAll is called.
func (s *Store) Set(name, value string) {
	delete(s.deleted, name)
	s.values[name] = value
}

// Delete buffers a token removal.
func (s *Store) Delete(name string) {
	delete(s.values, name)
	s.deleted[name] = true
}

// Mutated reports whether any write or delete has been buffered.
func (s *Store) Mutated() bool {
	return len(s.values) > 0 || len(s.deleted) > 0
}

// WriteTo flushes buffered mutations onto the response. Writes become
// cookies with Path=/ and SameSite=Lax; deletes become expirations.
func (s *Store) WriteTo(w http.ResponseWriter) {
	for _, name := range sortedKeys(s.values) {
		http.SetCookie(w, s.cookie(name, s.values[name], 0))
	}
	for _, name := range sortedKeys(s.deleted) {
		http.SetCookie(w, s.cookie(name, "", -1))
	}
}

// FlushAll copies every cookie in the resolved jar (request cookies overlaid
// with buffered mutations) onto the response, forcing Path=/ and SameSite=Lax
// on each. The code-exchange flow mutates the jar as a side effect, and the
// browser only observes the new session if the whole jar is written back.
func (s *Store) FlushAll(w http.ResponseWriter) {
	resolved := make(map[string]string)
	for _, c := range s.req.Cookies() {
		resolved[c.Name] = c.Value
	}
	for name, v := range s.values {
		resolved[name] = v
	}
	for name := range s.deleted {
		delete(resolved, name)
	}
	for _, name := range sortedKeys(resolved) {
		http.SetCookie(w, s.cookie(name, resolved[name], 0))
	}
	for _, name := range sortedKeys(s.deleted) {
		http.SetCookie(w, s.cookie(name, "", -1))
	}
}

func (s *Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
