// Package middleware provides the HTTP middleware of the API: request IDs,
// rate limiting, access logging and bearer token authentication.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// authoritiesClaim carries the comma-separated authorities of the token
// holder, e.g. "ROLE_ADMIN,ROLE_USER".
const authoritiesClaim = "auth"

// Principal is the verified identity behind a bearer token.
type Principal struct {
	Login       string
	Authorities []string
	ExpiresAt   time.Time
}

// HasAuthority reports whether the principal was granted authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// JWTValidator verifies a bearer token and returns its principal.
type JWTValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// tokenClaims is the claim set issued by the account service: the login in
// "sub" and the authorities in "auth".
type tokenClaims struct {
	Authorities string `json:"auth,omitempty"`
	jwt.RegisteredClaims
}

// SharedSecretValidator verifies HS512 or HS256 tokens signed with a shared
// secret. Tokens without an expiry are rejected.
type SharedSecretValidator struct {
	key    []byte
	parser *jwt.Parser
}

// NewSharedSecretValidator creates a validator for tokens signed with secret.
func NewSharedSecretValidator(secret string) *SharedSecretValidator {
	return &SharedSecretValidator{
		key: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg(), jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Validate verifies the signature and expiry of token.
func (v *SharedSecretValidator) Validate(_ context.Context, token string) (*Principal, error) {
	var claims tokenClaims
	if _, err := v.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}); err != nil {
		return nil, fmt.Errorf("jwt parse: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("jwt parse: token has no subject")
	}

	p := &Principal{Login: claims.Subject}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	for _, a := range strings.Split(claims.Authorities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			p.Authorities = append(p.Authorities, a)
		}
	}
	return p, nil
}
