package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/identity"
)

// Auth is the Supabase Auth (GoTrue) identity provider.
type Auth struct {
	client *Client
	now    func() time.Time
}

// Auth returns the identity provider that shares this client's URL and key.
func (c *Client) Auth() *Auth {
	return &Auth{client: c, now: time.Now}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"user"`
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.User, *domain.AuthSession, error) {
	body := map[string]string{"email": strings.TrimSpace(email), "password": password}
	req, err := a.client.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, "")
	if err != nil {
		return nil, nil, err
	}

	var resp tokenResponse
	if err := a.client.do(req, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, nil, identity.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if resp.User.ID == "" || resp.AccessToken == "" {
		return nil, nil, identity.ErrInvalidCredentials
	}

	expiresAt := time.Unix(resp.ExpiresAt, 0).UTC()
	if resp.ExpiresAt == 0 {
		expiresAt = a.now().Add(time.Duration(resp.ExpiresIn) * time.Second).UTC()
	}
	user := &domain.User{ID: resp.User.ID, Email: resp.User.Email, CreatedAt: resp.User.CreatedAt}
	session := &domain.AuthSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		ExpiresAt:    expiresAt,
	}
	return user, session, nil
}

func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return identity.ErrInvalidToken
	}
	req, err := a.client.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken)
	if err != nil {
		return err
	}
	return a.client.do(req, nil)
}

func (a *Auth) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	req, err := a.client.newRequest(ctx, http.MethodPost, path, map[string]string{"email": strings.TrimSpace(email)}, "")
	if err != nil {
		return err
	}
	return a.client.do(req, nil)
}

func (a *Auth) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	if accessToken == "" {
		return identity.ErrInvalidToken
	}
	req, err := a.client.newRequest(ctx, http.MethodPut, "/auth/v1/user", map[string]string{"password": newPassword}, accessToken)
	if err != nil {
		return err
	}
	if err := a.client.do(req, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			return identity.ErrInvalidToken
		}
		return err
	}
	return nil
}

var _ identity.Provider = (*Auth)(nil)
