// AngelaMos | 2026
// inspect.go

package auth

import (
	"time"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// TokenExpiry reads the exp claim from an access token without
// verifying it. The client is not the token authority; this is only
// used to log token age and skip a doomed /auth/me call at startup.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return time.Time{}, false
	}

	exp, ok := parsed.Expiration()
	if !ok {
		return time.Time{}, false
	}

	return exp, true
}

// TokenLooksExpired reports whether the access token's exp claim is in
// the past. Tokens without a readable exp claim count as live; the
// backend has the final say either way.
func TokenLooksExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return exp.Before(now)
}
