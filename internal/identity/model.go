package identity

import (
	"time"

	"github.com/google/uuid"
)

// Cookie names under which the client persists a session. The encoding is
// owned by this package; nothing else writes these cookies.
const (
	AccessTokenCookie  = "ep_access_token"
	RefreshTokenCookie = "ep_refresh_token"
	TokenExpiryCookie  = "ep_token_expiry"
)

// Session is the opaque token pair issued by the identity provider, plus its
// expiry. It is created on a successful code exchange or password sign-in and
// cached in the request's cookie jar.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token's lifetime has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// UserMetadata carries the mutable display fields of a user record.
type UserMetadata struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// User is an identity-provider-issued record. Read-only from this system's
// perspective except through the admin surface.
type User struct {
	ID       uuid.UUID    `json:"id"`
	Email    string       `json:"email"`
	Metadata UserMetadata `json:"user_metadata"`
}
