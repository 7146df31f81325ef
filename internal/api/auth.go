package api

import (
	"context"
	"net/http"

	"github.com/edufinai/edufin/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token. Rejections come back as
// KindCredentials errors.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, call{
		method:     http.MethodPost,
		path:       "/api/auth/login",
		body:       loginRequest{Username: username, Password: password},
		out:        &resp,
		credential: true,
	})
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates a new account. The caller follows up with the regular
// login transition.
func (c *Client) Register(ctx context.Context, reg models.Registration) error {
	return c.do(ctx, call{
		method:     http.MethodPost,
		path:       "/api/auth/register",
		body:       reg,
		credential: true,
	})
}

// CurrentUser fetches the identity behind the stored token. Roles default
// to an empty slice when the gateway omits them.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/auth/me",
		out:    &user,
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	if user.Roles == nil {
		user.Roles = []models.Role{}
	}
	return &user, nil
}

// Logout invalidates the given token server-side. The token travels as an
// explicit argument because the caller clears the store before this call;
// best effort, the caller discards local state regardless of the outcome.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		authed: true,
		bearer: token,
	})
}
