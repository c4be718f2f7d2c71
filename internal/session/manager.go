package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/identity"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 6

var (
	ErrMissingCredentials = errors.New("please enter both email and password")
	ErrMissingEmail       = errors.New("please enter your email")
	ErrMissingToken       = errors.New("no reset token found")
	ErrMissingPassword    = errors.New("please fill in both password fields")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
)

// Manager drives the sign-in, sign-out and password recovery transitions.
type Manager struct {
	provider   identity.Provider
	store      Store
	ttl        time.Duration
	redirectTo string
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

type Options struct {
	TTL              time.Duration
	ResetRedirectURL string
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

func NewManager(provider identity.Provider, store Store, opts Options) *Manager {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		provider:   provider,
		store:      store,
		ttl:        ttl,
		redirectTo: opts.ResetRedirectURL,
		metrics:    opts.Metrics,
		logger:     logging.OrNop(opts.Logger),
		now:        time.Now,
	}
}

// SignIn authenticates with the provider and stores a new context on success.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Context, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		m.metrics.SignIn("missing")
		return Context{}, ErrMissingCredentials
	}

	user, auth, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			m.metrics.SignIn("invalid")
		} else {
			m.metrics.SignIn("error")
			m.logger.Error("session: sign in failed", zap.String("email", email), zap.Error(err))
		}
		return Context{}, err
	}

	c := Context{
		ID:        uuid.NewString(),
		User:      domain.OptionalFromPtr(user),
		Auth:      domain.OptionalFromPtr(auth),
		CreatedAt: m.now(),
	}
	if err := m.store.Save(ctx, c, m.ttl); err != nil {
		m.metrics.SignIn("error")
		return Context{}, err
	}
	m.metrics.SignIn("success")
	m.logger.Info("session: signed in", zap.String("session", c.ID), zap.String("email", email))
	return c, nil
}

// Current returns the context for id. Expired provider sessions are torn down.
func (m *Manager) Current(ctx context.Context, id string) (Context, error) {
	if id == "" {
		return Context{}, ErrNotFound
	}
	c, err := m.store.Get(ctx, id)
	if err != nil {
		return Context{}, err
	}
	if c.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return Context{}, ErrNotFound
	}
	return c, nil
}

// SignOut always removes the context; provider failures are only logged.
func (m *Manager) SignOut(ctx context.Context, id string) error {
	c, err := m.store.Get(ctx, id)
	if err == nil && c.Auth.IsPresent() {
		if err := m.provider.SignOut(ctx, c.AccessToken()); err != nil {
			m.logger.Warn("session: provider sign out failed", zap.String("session", id), zap.Error(err))
		}
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}
	return m.provider.ResetPasswordForEmail(ctx, email, m.redirectTo)
}

// ResetPassword sets a new password using the token from the reset link.
func (m *Manager) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if token == "" {
		return ErrMissingToken
	}
	if password == "" || confirm == "" {
		return ErrMissingPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return m.provider.UpdatePassword(ctx, token, password)
}
