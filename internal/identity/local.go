package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/logging"
	tokenrepo "scraper-dashboard/internal/repository/token"
	userrepo "scraper-dashboard/internal/repository/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on reset.
const MinPasswordLength = 6

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// Local authenticates dashboard users stored in Postgres.
type Local struct {
	users       userrepo.Repository
	tokens      *tokenManager
	mailer      Mailer
	logger      *zap.Logger
	accessTTL   time.Duration
	recoveryTTL time.Duration
}

var _ Provider = (*Local)(nil)

// NewLocal creates a Local provider with one hour access and recovery tokens.
func NewLocal(users userrepo.Repository, tokens tokenrepo.Repository, mailer Mailer, logger *zap.Logger) *Local {
	return newLocal(users, tokens, mailer, logger, time.Now)
}

func newLocal(users userrepo.Repository, tokens tokenrepo.Repository, mailer Mailer, logger *zap.Logger, now func() time.Time) *Local {
	logger = logging.OrNop(logger)
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}
	return &Local{
		users:       users,
		tokens:      newTokenManager(tokens, now),
		mailer:      mailer,
		logger:      logger,
		accessTTL:   time.Hour,
		recoveryTTL: time.Hour,
	}
}

// CreateUser registers a user with a bcrypt hash of password.
func (l *Local) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	acc, err := l.users.Create(ctx, userrepo.Account{
		User:         domain.User{Email: email},
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}
	u := acc.User
	return &u, nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error) {
	acc, err := l.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if n, err := l.tokens.Sweep(ctx); err != nil {
		l.logger.Warn("identity: sweep expired tokens", zap.Error(err))
	} else if n > 0 {
		l.logger.Debug("identity: swept expired tokens", zap.Int64("count", n))
	}

	token, expiresAt, err := l.tokens.Issue(ctx, acc.ID, tokenrepo.KindAccess, l.accessTTL)
	if err != nil {
		return nil, nil, err
	}
	u := acc.User
	return &u, &domain.AuthSession{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (l *Local) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return l.tokens.Revoke(ctx, accessToken)
}

// ResetPasswordForEmail issues a recovery token and mails a link to redirectTo carrying it.
// Unknown addresses succeed silently.
func (l *Local) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	acc, err := l.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.logger.Debug("identity: reset for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}
	token, _, err := l.tokens.Issue(ctx, acc.ID, tokenrepo.KindRecovery, l.recoveryTTL)
	if err != nil {
		return err
	}
	link, err := recoveryLink(redirectTo, token)
	if err != nil {
		return err
	}
	return l.mailer.SendPasswordReset(ctx, acc.Email, link)
}

// UpdatePassword accepts an access or recovery token. A successful reset through a recovery
// token revokes every outstanding recovery token of that user.
func (l *Local) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	meta, ok := l.tokens.Validate(ctx, accessToken, tokenrepo.KindAccess, tokenrepo.KindRecovery)
	if !ok {
		return ErrInvalidToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := l.users.UpdatePassword(ctx, meta.UserID, string(hashed)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if meta.Kind == tokenrepo.KindRecovery {
		if _, err := l.tokens.RevokeAll(ctx, meta.UserID, tokenrepo.KindRecovery); err != nil {
			l.logger.Warn("identity: revoke recovery tokens", zap.String("user_id", meta.UserID), zap.Error(err))
		}
	}
	return nil
}

func validatePassword(p string) error {
	if len(p) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func recoveryLink(redirectTo, token string) (string, error) {
	if redirectTo == "" {
		return "?access_token=" + url.QueryEscape(token), nil
	}
	u, err := url.Parse(redirectTo)
	if err != nil {
		return "", fmt.Errorf("parse redirect: %w", err)
	}
	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
