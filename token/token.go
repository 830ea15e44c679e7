package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

var ErrEmpty = errors.New("empty token")

// Claims is the payload of the tokens the auth service issues.
type Claims struct {
	jwt.StandardClaims
	User        *User `json:"user,omitempty"`
	SessionOnly bool  `json:"sess_only,omitempty"`
}

// Info is what a client can learn from a token it cannot verify.
type Info struct {
	User      User
	ExpiresAt time.Time
	IssuedAt  time.Time
	Issuer    string
	// SessionOnly tokens are dropped when the browser session ends.
	SessionOnly bool
}

// Expired reports whether the token expired before now. Tokens without an
// expiry never expire.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect decodes raw without checking its signature; the client holds no
// key. An optional "Bearer " prefix is accepted.
func Inspect(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return Info{}, ErrEmpty
	}

	claims := &Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return Info{}, errors.Wrap(err, "can't parse token")
	}

	info := Info{Issuer: claims.Issuer, SessionOnly: claims.SessionOnly}
	if claims.User != nil {
		info.User = *claims.User
	}
	if claims.ExpiresAt != 0 {
		info.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	if claims.IssuedAt != 0 {
		info.IssuedAt = time.Unix(claims.IssuedAt, 0)
	}
	return info, nil
}
