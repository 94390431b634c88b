package domain

import "time"

// Admin is an administrator allowed to create links and view claims.
// Email is the owner identity used to scope links and claims.
type Admin struct {
	// ID is the lowercased email.
	ID string

	Email        string
	Name         string
	PasswordHash string // bcrypt

	// Sources indicates where this admin was loaded from.
	// Example: file
	Sources []string

	UpdatedAt time.Time

	// Disabled admins cannot log in. Their links and claims are kept.
	Disabled bool
}
