package session

import (
	"time"

	"scraper-dashboard/internal/domain"
)

// Context is the explicit per-visitor state handed to every handler.
// It is created on successful sign-in and torn down on sign-out.
type Context struct {
	ID        string                              `json:"id"`
	User      domain.Optional[domain.User]        `json:"user"`
	Auth      domain.Optional[domain.AuthSession] `json:"auth"`
	CreatedAt time.Time                           `json:"createdAt"`
}

// Authenticated reports whether both the user and its auth session are set.
func (c Context) Authenticated() bool {
	return c.User.IsPresent() && c.Auth.IsPresent()
}

// Expired reports whether the provider session has lapsed at now.
func (c Context) Expired(now time.Time) bool {
	a, ok := c.Auth.Get()
	if !ok || a.ExpiresAt.IsZero() {
		return false
	}
	return now.After(a.ExpiresAt)
}

func (c Context) AccessToken() string {
	a, _ := c.Auth.Get()
	return a.AccessToken
}
