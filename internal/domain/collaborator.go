package domain

import (
	"strings"
	"time"
)

// Collaborator is a participant that can occupy role slots, receive
// automation assignments, and hold viewer bindings.
type Collaborator struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// IsExternal reports whether the collaborator falls outside the internal
// email domain. Collaborators with no email data classify internal so that
// missing data never widens access.
func (c Collaborator) IsExternal(internalDomain string) bool {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return false
	}
	internalDomain = strings.ToLower(strings.TrimSpace(internalDomain))
	if internalDomain == "" {
		return false
	}
	return !strings.HasSuffix(email, "@"+internalDomain)
}
