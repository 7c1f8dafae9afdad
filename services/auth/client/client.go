// Package client provides the authentication operations that write and clear
// the console credential.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/tutorhub/console/internal/envelope"
	"github.com/tutorhub/console/internal/httputil"
	"github.com/tutorhub/console/internal/validate"
)

const (
	loginPath = "/api/v1/auth/login"
	mePath    = "/api/v1/auth/me"
)

var (
	tokenDecoder   = envelope.At[string](envelope.AdminData + ".token")
	profileDecoder = envelope.At[Profile](envelope.AdminData)
)

// Client manages the operator session against the admin API.
type Client struct {
	api *httputil.Client
}

// New creates an auth client on top of api. api must carry a session store.
func New(api *httputil.Client) *Client {
	return &Client{api: api}
}

// Login exchanges credentials for a bearer token and stores it. Errors are
// returned unchanged.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		return "", err
	}

	resp, err := c.api.Post(ctx, loginPath, httputil.WithBody(req))
	token, err := httputil.Into(resp, err, tokenDecoder)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("login response carried no token")
	}

	store := c.api.Session()
	if store == nil {
		return "", fmt.Errorf("no session store configured")
	}
	if err := store.SetToken(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Logout clears the stored credential. No request is sent.
func (c *Client) Logout(ctx context.Context) error {
	store := c.api.Session()
	if store == nil {
		return nil
	}
	return store.Clear(ctx)
}

// Me returns the profile of the signed-in operator.
func (c *Client) Me(ctx context.Context) envelope.Result[Profile] {
	resp, err := c.api.Get(ctx, mePath)
	return httputil.ToResult(resp, err, profileDecoder)
}
