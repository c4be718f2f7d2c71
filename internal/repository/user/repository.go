package user

import (
	"context"

	"scraper-dashboard/internal/domain"
)

// Account is a dashboard user together with its password hash.
type Account struct {
	domain.User
	PasswordHash string
}

// Repository persists and fetches dashboard users.
type Repository interface {
	Create(ctx context.Context, a Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
