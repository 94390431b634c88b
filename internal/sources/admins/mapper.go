package admins

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// SourceFile marks admins loaded from the admins file
const SourceFile = "file"

// Mapper converts file entries to domain.Admin entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Skipped describes an entry the mapper refused
type Skipped struct {
	Email  string
	Reason string
}

// MapAdmins converts entries to admins. Entries with an invalid email or
// password hash, and repeated emails, are skipped and reported.
func (m *Mapper) MapAdmins(file File) ([]*domain.Admin, []Skipped, error) {
	var (
		admins  []*domain.Admin
		skipped []Skipped
		seen    = make(map[string]bool, len(file.Admins))
		now     = time.Now()
	)

	for _, e := range file.Admins {
		addr, err := mail.ParseAddress(strings.TrimSpace(e.Email))
		if err != nil {
			skipped = append(skipped, Skipped{Email: e.Email, Reason: "invalid email"})
			continue
		}

		id := strings.ToLower(addr.Address)
		if seen[id] {
			skipped = append(skipped, Skipped{Email: e.Email, Reason: "duplicate email"})
			continue
		}

		// Cost fails on anything that is not a bcrypt hash.
		if _, err := bcrypt.Cost([]byte(e.PasswordHash)); err != nil {
			skipped = append(skipped, Skipped{Email: e.Email, Reason: "invalid password hash"})
			continue
		}
		seen[id] = true

		admins = append(admins, &domain.Admin{
			ID:           id,
			Email:        id,
			Name:         strings.TrimSpace(e.Name),
			PasswordHash: e.PasswordHash,
			Sources:      []string{SourceFile},
			UpdatedAt:    now,
			Disabled:     e.Disabled,
		})
	}

	if len(admins) == 0 {
		return nil, skipped, fmt.Errorf("no valid admins found in admins file")
	}

	return admins, skipped, nil
}
