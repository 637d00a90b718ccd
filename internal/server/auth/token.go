// Package auth inspects the Microsoft Graph access tokens that callers pass
// through. Tokens are issued and verified by Entra ID; this package only
// reads their claims to reject expired tokens early and to key sessions.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
)

// Claims are the Graph token claims worth logging. None of them is trusted
// for authorization.
type Claims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	TenantID          string `json:"tid,omitempty"`
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", common.ErrorUnauthorized
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	return token, nil
}

// Inspect decodes a JWT access token without checking its signature.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("inspect token: %w", err)
	}
	return claims, nil
}

// TokenExpiry returns the exp claim. ok is false for opaque tokens and for
// tokens without an expiry.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims, err := Inspect(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CheckNotExpired fails with common.ErrTokenExpired when token carries an
// expiry at or before now. Opaque tokens pass; Graph will judge them.
func CheckNotExpired(token string, now time.Time) error {
	exp, ok := TokenExpiry(token)
	if ok && !now.Before(exp) {
		return common.ErrTokenExpired
	}
	return nil
}
