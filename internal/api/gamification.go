package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edufinai/edufin/internal/models"
)

// Challenges lists gamification challenges visible to the current user.
func (c *Client) Challenges(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/gamification/challenges",
		out:    &challenges,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// JoinChallenge enrolls the current user in a challenge.
func (c *Client) JoinChallenge(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/gamification/challenges/" + id + "/join",
		authed: true,
	})
}

// Leaderboard fetches standings. scope is "" for the global board or a
// challenge ID for per-challenge standings. The board is public and
// cacheable.
func (c *Client) Leaderboard(ctx context.Context, scope string, limit int) ([]models.LeaderboardEntry, error) {
	query := url.Values{}
	if scope != "" {
		query.Set("challenge", scope)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var entries []models.LeaderboardEntry
	err := c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/api/gamification/leaderboard",
		query:     query,
		out:       &entries,
		cacheable: true,
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
