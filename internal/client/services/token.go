package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read from a bearer token without the server's key.
// Opaque tokens yield the zero value.
type TokenInfo struct {
	JWT       bool
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InspectToken decodes the claims of a JWT bearer token. The signature is not
// checked: the result is for display and for discarding sessions that cannot
// work any more, never for trust decisions.
func InspectToken(token string) TokenInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}
	}

	info := TokenInfo{JWT: true}
	info.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	return info
}

// Expired reports whether the token carries an expiry at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}
