package token

import (
	"context"
	"time"
)

const (
	KindAccess   = "access"
	KindRecovery = "recovery"
)

type Token struct {
	Token     string
	UserID    string
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Repository stores dashboard access and recovery tokens.
type Repository interface {
	Create(ctx context.Context, token Token) error
	// Get returns the token only when its kind is one of kinds.
	Get(ctx context.Context, token string, kinds ...string) (*Token, error)
	Delete(ctx context.Context, token string) error
	// DeleteForUser removes every token of kind held by userID and reports how many went.
	DeleteForUser(ctx context.Context, userID, kind string) (int64, error)
	// DeleteExpired removes tokens whose expiry is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
