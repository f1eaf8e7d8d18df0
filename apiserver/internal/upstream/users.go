package upstream

import (
	"context"
	"encoding/json"
	"net/http"
)

// UserProfile returns the authenticated user's profile.
func (c *Client) UserProfile(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "api/v2/user/profile", nil)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}

// UserRanking returns the user's achievement ranking. Upstream serves this
// one from its v3 surface.
func (c *Client) UserRanking(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "api/v3/user/ranking", nil)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}

// GeneralStatistics returns the user's overall task statistics.
func (c *Client) GeneralStatistics(
	ctx context.Context,
) (json.RawMessage, error) {
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/statistics/general",
		nil,
	)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}
