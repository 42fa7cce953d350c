// Package gitlab drives the upstream GitLab OAuth2 provider: authorization
// URL construction, code-for-token exchange, and user-info retrieval.
package gitlab

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"resty.dev/v3"
)

// Scopes requested from GitLab. read_user covers /api/v4/user.
var scopes = []string{"read_user", "email", "profile"}

// Identity is a linked external identity on the GitLab account.
type Identity struct {
	Provider  string `json:"provider"`
	ExternUID string `json:"extern_uid"`
}

// User is the GitLab user-info document. It lives only for the duration of
// the callback request and is never stored.
type User struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	IsAdmin    bool       `json:"is_admin"`
	Identities []Identity `json:"identities"`
	AvatarURL  string     `json:"avatar_url"`
}

// Client talks to one GitLab instance. Construction is cheap; the embedded
// resty client carries the bounded upstream timeout.
type Client struct {
	oauth   oauth2.Config
	http    *resty.Client
	timeout time.Duration
}

// NewClient wires the OAuth2 endpoints under the GitLab base URL.
func NewClient(baseURL, clientID, clientSecret, redirectURL string, timeout time.Duration) *Client {
	return &Client{
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/oauth/authorize",
				TokenURL: baseURL + "/oauth/token",
			},
		},
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
		timeout: timeout,
	}
}

// AuthorizationURL builds the provider authorization URL together with a
// fresh random state value. Each call produces a new state.
func (c *Client) AuthorizationURL() (string, string, error) {
	state, err := randomState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	return c.oauth.AuthCodeURL(state), state, nil
}

// ExchangeCode trades an authorization code for an upstream access token.
// Network failures, non-2xx answers and malformed bodies all surface as
// errors; nothing is retried.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("exchange authorization code: empty access token in response")
	}
	return token.AccessToken, nil
}

// FetchUser retrieves the user-info document for an access token.
func (c *Client) FetchUser(ctx context.Context, accessToken string) (*User, error) {
	user := &User{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(user).
		Get("/api/v4/user")
	if err != nil {
		return nil, fmt.Errorf("fetch gitlab user: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch gitlab user: unexpected status %s", resp.Status())
	}
	return user, nil
}

// randomState returns 32 bytes of crypto/rand material, URL-safe encoded.
func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
