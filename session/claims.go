package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The backend issues HS256 JWTs. The client never verifies them — the signing
// secret stays server-side and expiry is enforced by the backend's 401 — but
// the expiry claim is useful for display ("session expires in ...").

// TokenExpiry decodes the expiry claim of a backend token without verifying
// its signature. The second return is false when the token is absent, not a
// JWT, or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiresAt reports the current token's expiry, when one is present and
// decodable.
func (s *Store) ExpiresAt() (time.Time, bool) {
	return TokenExpiry(s.Token())
}
