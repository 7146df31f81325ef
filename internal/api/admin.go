package api

import (
	"context"
	"net/http"

	"github.com/edufinai/edufin/internal/models"
)

// UpdateProfile saves profile edits and returns the updated identity. The
// caller feeds the result back into the session via SetUser.
func (c *Client) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	var updated models.User
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/users/me",
		body:   user,
		out:    &updated,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AdminUsers lists all users. Admin only; the gateway enforces the role,
// the client's role guard keeps casual users off the command.
func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/admin/users",
		out:    &users,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

type setRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetUserRoles replaces a user's role set. Admin only.
func (c *Client) SetUserRoles(ctx context.Context, userID string, roles []string) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/api/admin/users/" + userID + "/roles",
		body:   setRolesRequest{Roles: roles},
		authed: true,
	})
}

// ModerationQueue lists creator content awaiting review.
func (c *Client) ModerationQueue(ctx context.Context) ([]models.ModerationItem, error) {
	var items []models.ModerationItem
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/moderation/queue",
		out:    &items,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

type moderationDecision struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

// ResolveModeration approves or rejects a queued item.
func (c *Client) ResolveModeration(ctx context.Context, id string, approve bool, note string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/moderation/queue/" + id + "/resolve",
		body:   moderationDecision{Approve: approve, Note: note},
		authed: true,
	})
}
