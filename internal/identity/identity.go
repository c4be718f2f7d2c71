package identity

import (
	"context"
	"errors"

	"scraper-dashboard/internal/domain"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Provider is the identity boundary consumed by the dashboard.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}
