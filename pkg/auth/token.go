// Package auth inspects the bearer tokens issued by the upstream identity
// API. Tokens are never verified here: the signing key belongs to the
// upstream service, and the claims are only used to decide when a session
// has gone stale.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UpstreamClaims mirrors the payload the identity API puts in its tokens.
type UpstreamClaims struct {
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// ParseUnverified decodes the token's claims without checking the signature.
func ParseUnverified(token string) (*UpstreamClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	claims := &UpstreamClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// Expiry returns the exp claim. ok is false for opaque tokens or tokens that
// carry no expiry.
func Expiry(token string) (exp time.Time, ok bool) {
	claims, err := ParseUnverified(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an exp claim at or before now.
// Tokens without one never expire from the client's point of view.
func Expired(token string, now time.Time) bool {
	exp, ok := Expiry(token)
	return ok && !now.Before(exp)
}
