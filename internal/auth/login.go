package auth

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/HashibulAmin/reward-claim/internal/domain"
	"github.com/HashibulAmin/reward-claim/internal/logger"
)

// Directory resolves admins by email.
type Directory interface {
	Lookup(email string) (domain.Admin, bool)
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
}

// Authenticator checks admin credentials and issues session tokens.
type Authenticator struct {
	dir    Directory
	tokens *Tokens
	log    logger.Logger

	// compared against when the email is unknown, so both paths cost one bcrypt run
	dummyHash []byte
}

// NewAuthenticator creates an authenticator over dir.
func NewAuthenticator(dir Directory, tokens *Tokens, log logger.Logger) *Authenticator {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("reward-claim"), bcrypt.DefaultCost)
	return &Authenticator{
		dir:       dir,
		tokens:    tokens,
		log:       log.With(logger.Component("auth")),
		dummyHash: dummy,
	}
}

// Login verifies email and password and returns a new session.
// Unknown, disabled and wrong-password attempts all return ErrUnauthorized.
func (a *Authenticator) Login(email, password string) (*Session, error) {
	admin, ok := a.dir.Lookup(email)
	if !ok {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		a.log.Info("login rejected", logger.String("reason", "unknown admin"))
		return nil, ErrUnauthorized
	}

	if err := CheckPassword(admin.PasswordHash, password); err != nil {
		a.log.Info("login rejected", logger.String("admin", admin.Email), logger.String("reason", "bad password"))
		return nil, ErrUnauthorized
	}
	if admin.Disabled {
		a.log.Info("login rejected", logger.String("admin", admin.Email), logger.String("reason", "disabled"))
		return nil, ErrUnauthorized
	}

	token, exp, err := a.tokens.Issue(admin)
	if err != nil {
		return nil, err
	}

	a.log.Info("admin logged in", logger.String("admin", admin.Email))
	return &Session{Token: token, ExpiresAt: exp, Email: admin.Email, Name: admin.Name}, nil
}

// Authorize verifies a bearer token and checks that its subject is still an
// enabled admin. It returns the admin email.
func (a *Authenticator) Authorize(token string) (string, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	admin, ok := a.dir.Lookup(claims.Subject)
	if !ok || admin.Disabled {
		return "", fmt.Errorf("%w: admin %s no longer allowed", ErrUnauthorized, claims.Subject)
	}
	return admin.Email, nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HashPassword returns a bcrypt hash suitable for the admins file.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
