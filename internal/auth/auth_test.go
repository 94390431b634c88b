package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type mapDirectory map[string]domain.Admin

func (m mapDirectory) Lookup(email string) (domain.Admin, bool) {
	a, ok := m[strings.ToLower(email)]
	return a, ok
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	token, exp, err := tokens.Issue(domain.Admin{Email: "a@x.com", Name: "Alice"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	good, _, err := tokens.Issue(domain.Admin{Email: "a@x.com"})
	require.NoError(t, err)

	expired := NewTokens(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(domain.Admin{Email: "a@x.com"})
	require.NoError(t, err)

	otherKey, _, err := NewTokens(strings.Repeat("z", 32), time.Hour).Issue(domain.Admin{Email: "a@x.com"})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "a@x.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: old},
		{name: "wrong key", token: otherKey},
		{name: "alg none", token: none},
		{name: "tampered", token: good[:len(good)-2] + "xx"},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestLogin(t *testing.T) {
	dir := mapDirectory{
		"a@x.com": {ID: "a@x.com", Email: "a@x.com", Name: "Alice", PasswordHash: hash(t, "s3cret")},
		"d@x.com": {ID: "d@x.com", Email: "d@x.com", PasswordHash: hash(t, "s3cret"), Disabled: true},
	}
	a := NewAuthenticator(dir, NewTokens(testSecret, time.Hour), logger.Nop())

	session, err := a.Login("a@x.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Equal(t, "Alice", session.Name)
	assert.NotEmpty(t, session.Token)

	owner, err := a.Authorize(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", owner)

	for _, tc := range []struct{ email, password string }{
		{"a@x.com", "wrong"},
		{"nobody@x.com", "s3cret"},
		{"d@x.com", "s3cret"},
	} {
		_, err := a.Login(tc.email, tc.password)
		assert.ErrorIs(t, err, ErrUnauthorized, "%s/%s", tc.email, tc.password)
	}
}

func TestAuthorizeRejectsRemovedAdmin(t *testing.T) {
	dir := mapDirectory{"a@x.com": {ID: "a@x.com", Email: "a@x.com", PasswordHash: hash(t, "pw")}}
	a := NewAuthenticator(dir, NewTokens(testSecret, time.Hour), logger.Nop())

	session, err := a.Login("a@x.com", "pw")
	require.NoError(t, err)

	delete(dir, "a@x.com")
	_, err = a.Authorize(session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(h, "s3cret"))
	assert.Error(t, CheckPassword(h, "other"))
}
