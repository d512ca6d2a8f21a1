package matchers

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ggriffiniii/httptest"
)

// BearerClaims extracts the JWT from the Authorization bearer header and
// projects its full claim set through inner. The token signature is NOT
// verified: matching is about what the client sent, and test clients sign
// with throwaway keys. Requests without a decodable bearer token never
// match.
func BearerClaims(inner httptest.Matcher[jwt.MapClaims]) httptest.Matcher[*httptest.Request] {
	return httptest.MatchFunc("bearerClaims("+inner.String()+")", func(r *httptest.Request) bool {
		claims, ok := bearerClaims(r)
		if !ok {
			return false
		}
		return inner.Matches(claims)
	})
}

// BearerClaim projects a single claim of the bearer token through inner.
// Claim values decode the way encoding/json decodes them (numbers are
// float64), so pair with EqValue for numeric claims.
func BearerClaim(name string, inner httptest.Matcher[any]) httptest.Matcher[*httptest.Request] {
	desc := fmt.Sprintf("bearerClaim(%q, %s)", name, inner)
	return httptest.MatchFunc(desc, func(r *httptest.Request) bool {
		claims, ok := bearerClaims(r)
		if !ok {
			return false
		}
		v, ok := claims[name]
		if !ok {
			return false
		}
		return inner.Matches(v)
	})
}

func bearerClaims(r *httptest.Request) (jwt.MapClaims, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(auth[len(prefix):]), claims); err != nil {
		return nil, false
	}
	return claims, true
}
