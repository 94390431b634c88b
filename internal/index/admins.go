package index

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HashibulAmin/reward-claim/internal/domain"
)

// AdminIndex provides in-memory lookup of administrators by email.
// It is rebuilt wholesale on every reload of the admins file.
type AdminIndex struct {
	mu         sync.RWMutex
	admins     map[string]domain.Admin // lowercased email -> Admin
	lastReload time.Time
}

// NewAdminIndex creates an empty admin index
func NewAdminIndex() *AdminIndex {
	return &AdminIndex{
		admins: make(map[string]domain.Admin),
	}
}

// Update replaces all admins in the index
func (idx *AdminIndex) Update(admins []*domain.Admin) {
	next := make(map[string]domain.Admin, len(admins))
	for _, a := range admins {
		next[a.ID] = *a
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.admins = next
	idx.lastReload = time.Now()
}

// Lookup returns the admin for email, matched case-insensitively
func (idx *AdminIndex) Lookup(email string) (domain.Admin, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	a, ok := idx.admins[strings.ToLower(strings.TrimSpace(email))]
	return a, ok
}

// All returns every admin, sorted by ID
func (idx *AdminIndex) All() []domain.Admin {
	idx.mu.RLock()
	out := make([]domain.Admin, 0, len(idx.admins))
	for _, a := range idx.admins {
		out = append(out, a)
	}
	idx.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of admins in the index
func (idx *AdminIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.admins)
}

// LastReload returns the timestamp of the last reload
func (idx *AdminIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
