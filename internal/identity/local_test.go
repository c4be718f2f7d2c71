package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"scraper-dashboard/internal/domain"
	tokenrepo "scraper-dashboard/internal/repository/token"
	userrepo "scraper-dashboard/internal/repository/user"
)

type memoryUserRepo struct {
	byEmail map[string]userrepo.Account
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]userrepo.Account)}
}

func (r *memoryUserRepo) Create(_ context.Context, a userrepo.Account) (*userrepo.Account, error) {
	if _, exists := r.byEmail[a.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := a
	clone.ID = "user-" + a.Email
	r.byEmail[a.Email] = clone
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*userrepo.Account, error) {
	a, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	for email, a := range r.byEmail {
		if a.ID == id {
			a.PasswordHash = hash
			r.byEmail[email] = a
			return nil
		}
	}
	return domain.ErrNotFound
}

type memoryTokenRepo struct {
	tokens map[string]tokenrepo.Token
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string, kinds ...string) (*tokenrepo.Token, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, k := range kinds {
		if k == t.Kind {
			clone := t
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memoryTokenRepo) DeleteForUser(_ context.Context, userID, kind string) (int64, error) {
	var n int64
	for k, t := range r.tokens {
		if t.UserID == userID && t.Kind == kind {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

func (r *memoryTokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

type captureMailer struct {
	email, link string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.email, m.link = email, link
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLocal(t *testing.T) (*Local, *memoryTokenRepo, *captureMailer, *clock) {
	t.Helper()
	tokens := newMemoryTokenRepo()
	mailer := &captureMailer{}
	clk := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := newLocal(newMemoryUserRepo(), tokens, mailer, nil, clk.now)
	if _, err := l.CreateUser(context.Background(), "Admin@Example.com", "secret123"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return l, tokens, mailer, clk
}

func TestLocal_SignIn(t *testing.T) {
	l, tokens, _, clk := newTestLocal(t)
	ctx := context.Background()

	u, sess, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if u.Email != "admin@example.com" || sess.AccessToken == "" {
		t.Fatalf("unexpected result user=%+v session=%+v", u, sess)
	}
	if !sess.ExpiresAt.Equal(clk.t.Add(time.Hour)) {
		t.Fatalf("expires at %v", sess.ExpiresAt)
	}
	if tok := tokens.tokens[sess.AccessToken]; tok.Kind != tokenrepo.KindAccess || tok.UserID != u.ID {
		t.Fatalf("stored token = %+v", tok)
	}

	if _, _, err := l.SignIn(ctx, "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := l.SignIn(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLocal_SignOutRevokesToken(t *testing.T) {
	l, tokens, _, _ := newTestLocal(t)
	ctx := context.Background()

	_, sess, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := l.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, ok := tokens.tokens[sess.AccessToken]; ok {
		t.Fatalf("token still stored")
	}
	if err := l.SignOut(ctx, sess.AccessToken); err != nil {
		t.Fatalf("second sign out should be a no-op, got %v", err)
	}
}

func TestLocal_PasswordRecovery(t *testing.T) {
	l, tokens, mailer, _ := newTestLocal(t)
	ctx := context.Background()

	if err := l.ResetPasswordForEmail(ctx, "admin@example.com", "http://localhost:8080/reset?lang=es"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mailer.email != "admin@example.com" {
		t.Fatalf("mail sent to %q", mailer.email)
	}
	link, err := url.Parse(mailer.link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	token := link.Query().Get("access_token")
	if token == "" || link.Query().Get("lang") != "es" {
		t.Fatalf("link = %s", mailer.link)
	}

	if err := l.UpdatePassword(ctx, token, "abc"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := l.UpdatePassword(ctx, token, "newsecret"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := tokens.tokens[token]; ok {
		t.Fatalf("recovery token should be consumed")
	}
	if err := l.UpdatePassword(ctx, token, "another1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
	if _, _, err := l.SignIn(ctx, "admin@example.com", "newsecret"); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
}

func TestLocal_ResetUnknownEmailIsSilent(t *testing.T) {
	l, _, mailer, _ := newTestLocal(t)
	if err := l.ResetPasswordForEmail(context.Background(), "ghost@example.com", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mailer.link != "" {
		t.Fatalf("no mail expected, got %q", mailer.link)
	}
}

func TestLocal_ExpiredToken(t *testing.T) {
	l, tokens, _, clk := newTestLocal(t)
	ctx := context.Background()

	_, sess, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	clk.t = clk.t.Add(2 * time.Hour)
	if err := l.UpdatePassword(ctx, sess.AccessToken, "newsecret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tokens.tokens[sess.AccessToken]; ok {
		t.Fatalf("expired token should be removed")
	}
}

func TestLocal_RecoveryRevokesOtherRecoveryTokens(t *testing.T) {
	l, tokens, mailer, _ := newTestLocal(t)
	ctx := context.Background()

	var issued []string
	for i := 0; i < 2; i++ {
		if err := l.ResetPasswordForEmail(ctx, "admin@example.com", ""); err != nil {
			t.Fatalf("reset: %v", err)
		}
		link, err := url.Parse(mailer.link)
		if err != nil {
			t.Fatalf("parse link: %v", err)
		}
		issued = append(issued, link.Query().Get("access_token"))
	}
	_, sess, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := l.UpdatePassword(ctx, issued[0], "newsecret"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := l.UpdatePassword(ctx, issued[1], "another1"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected second recovery token revoked, got %v", err)
	}
	if _, ok := tokens.tokens[sess.AccessToken]; !ok {
		t.Fatalf("access token should survive a recovery reset")
	}
}

func TestLocal_RecoveryTokenIsNotAnAccessToken(t *testing.T) {
	l, _, mailer, _ := newTestLocal(t)
	ctx := context.Background()

	if err := l.ResetPasswordForEmail(ctx, "admin@example.com", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	link, err := url.Parse(mailer.link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	token := link.Query().Get("access_token")
	if _, ok := l.tokens.Validate(ctx, token, tokenrepo.KindAccess); ok {
		t.Fatalf("recovery token accepted as access token")
	}
	if _, ok := l.tokens.Validate(ctx, token, tokenrepo.KindRecovery); !ok {
		t.Fatalf("recovery token rejected")
	}
}

func TestLocal_SignInSweepsExpiredTokens(t *testing.T) {
	l, tokens, _, clk := newTestLocal(t)
	ctx := context.Background()

	_, stale, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	clk.t = clk.t.Add(2 * time.Hour)
	_, fresh, err := l.SignIn(ctx, "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, ok := tokens.tokens[stale.AccessToken]; ok {
		t.Fatalf("expired token should be swept")
	}
	if _, ok := tokens.tokens[fresh.AccessToken]; !ok || len(tokens.tokens) != 1 {
		t.Fatalf("expected only the fresh token, got %d tokens", len(tokens.tokens))
	}
}
