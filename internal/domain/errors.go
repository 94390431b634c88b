package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidLink means no link exists for the requested identifier.
	ErrInvalidLink = errors.New("invalid reward link")
	// ErrLinkExpired means the link exists but no longer accepts claims.
	ErrLinkExpired = errors.New("reward link is no longer active")
	// ErrBackendUnavailable wraps any read, write or subscription failure of the store.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrNotFound is returned by stores for missing documents.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a document id is already taken.
	ErrConflict = errors.New("already exists")
)

// FieldErrors maps a form field name to one human-readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(fe[f])
	}
	return b.String()
}
