package upstream

import (
	"context"
	"encoding/json"
	"net/http"
)

// Projects returns the user's project (list) collection exactly as upstream
// serves it.
func (c *Client) Projects(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "api/v2/projects", nil)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}
