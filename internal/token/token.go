// Package token issues and verifies the signed credentials that carry a
// user's identity between requests. Verification is stateless: any number
// of requests may verify concurrently, and a bad credential is reported as
// ErrInvalidCredential rather than panicking or leaking parser errors.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jpmelanson/turnbase/internal/dependencies/clock"
	"github.com/jpmelanson/turnbase/internal/model"
)

// ErrInvalidCredential is returned for any credential that fails structural
// or signature validation. Callers with optional auth treat it as anonymous.
var ErrInvalidCredential = errors.New("invalid credential")

// claims is the JWT claims layout carried by issued credentials
type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Issuer signs credentials for authenticated users
type Issuer struct {
	secret []byte
	clock  clock.Clock
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with HMAC-SHA256.
// A zero ttl issues credentials without an expiry claim.
func NewIssuer(secret []byte, clk clock.Clock, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, clock: clk, ttl: ttl}
}

// Issue signs a credential carrying the user's id, username and role
func (i *Issuer) Issue(user *model.User) (string, error) {
	now := i.clock.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  string(user.ID),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Username: user.Username,
		Role:     string(user.Role),
	}
	if i.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign credential: %w", err)
	}
	return signed, nil
}

// Verifier validates credentials and extracts the identity they carry
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for credentials signed with the same secret
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Verify parses and validates a raw credential. It never returns parser
// internals: every failure mode maps to ErrInvalidCredential.
func (v *Verifier) Verify(raw string) (*model.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidCredential
	}

	if c.Subject == "" {
		return nil, ErrInvalidCredential
	}

	return &model.Identity{
		UserID:   model.UserID(c.Subject),
		Username: c.Username,
		Role:     model.Role(c.Role),
	}, nil
}
