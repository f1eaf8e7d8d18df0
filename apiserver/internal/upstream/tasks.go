package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
)

// AllTasks returns the upstream batch-check payload: every open task plus
// project profiles, exactly as upstream serves it.
func (c *Client) AllTasks(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "api/v2/batch/check/0", nil)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}

// ClosedTasks returns one page of completed or abandoned tasks, most recent
// first. An empty to requests the first (most recent) page; subsequent pages
// are requested with a cursor string of the form "2025-03-15 13:30:54"
// derived from the last task of the previous page. The from parameter is
// always sent empty; upstream requires its presence.
func (c *Client) ClosedTasks(
	ctx context.Context,
	status dida.TaskStatus,
	to string,
) ([]json.RawMessage, error) {
	queryParams := url.Values{}
	queryParams.Set("from", "")
	queryParams.Set("status", string(status))
	if to != "" {
		queryParams.Set("to", to)
	}
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/project/all/closed",
		queryParams,
	)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	tasks := []json.RawMessage{}
	if err := json.Unmarshal(bodyBytes, &tasks); err != nil {
		return nil, errors.Wrap(
			err,
			"error unmarshaling closed tasks response",
		)
	}
	return tasks, nil
}

// TrashTasks returns one page of trashed tasks.
func (c *Client) TrashTasks(
	ctx context.Context,
	limit int,
	taskType int,
) (json.RawMessage, error) {
	queryParams := url.Values{}
	queryParams.Set("limit", strconv.Itoa(limit))
	queryParams.Set("type", strconv.Itoa(taskType))
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/project/all/trash/pagination",
		queryParams,
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
