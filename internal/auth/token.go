// Package auth issues and verifies admin session tokens and checks
// admin passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

const issuer = "reward-claim"

// ErrUnauthorized is returned for bad credentials and unusable tokens.
var ErrUnauthorized = errors.New("unauthorized")

// Claims is the JWT payload. Subject is the admin email, which is the
// owner identity for links and claims.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer. It does not check secret length;
// config.Load rejects secrets shorter than 32 bytes.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for admin and returns it with its expiry.
func (t *Tokens) Issue(admin domain.Admin) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := Claims{
		Name: admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses token and returns its claims. Any failure, including
// expiry, wraps ErrUnauthorized.
func (t *Tokens) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token claims", ErrUnauthorized)
	}
	return claims, nil
}
