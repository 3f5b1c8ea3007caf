package api

import (
	"context"
	"fmt"
	"net/url"

	"flicker/internal/domain"
)

// Login exchanges credentials for a session. The returned token is opaque;
// callers persist it through the session store.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	payload := map[string]any{"email": email, "password": password}
	var dto loginResponseDTO
	if err := c.post(ctx, "/auth/login", payload, &dto); err != nil {
		return domain.Session{}, err
	}
	if dto.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("%w: login response missing access token", domain.ErrValidation)
	}
	user, err := mapUser(dto.User)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: dto.AccessToken, User: user}, nil
}

// Register creates an account and returns the resulting session.
func (c *Client) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	payload := map[string]any{"username": username, "email": email, "password": password}
	var dto loginResponseDTO
	if err := c.post(ctx, "/auth/register", payload, &dto); err != nil {
		return domain.Session{}, err
	}
	if dto.AccessToken == "" {
		return domain.Session{}, fmt.Errorf("%w: register response missing access token", domain.ErrValidation)
	}
	user, err := mapUser(dto.User)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: dto.AccessToken, User: user}, nil
}

// OAuthURL returns the backend's OAuth entry point; the user opens it in a
// browser and pastes the callback URL back into the client.
func (c *Client) OAuthURL() string {
	return c.baseURL + "/auth/google"
}

// ParseOAuthCallback extracts the bearer token from an OAuth callback URL.
// An absent token parameter is an auth failure, not a parse error.
func ParseOAuthCallback(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: malformed callback URL", domain.ErrValidation)
	}
	token := u.Query().Get("token")
	if token == "" {
		return "", domain.ErrAuthFailed
	}
	return token, nil
}
