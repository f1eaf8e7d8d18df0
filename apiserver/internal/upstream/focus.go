package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// FocusTimeline returns one page of focus records, most recent first. A zero
// toMillis requests the first page; subsequent pages are requested with the
// millisecond-epoch cursor derived from the last record of the previous
// page.
func (c *Client) FocusTimeline(
	ctx context.Context,
	toMillis int64,
) ([]json.RawMessage, error) {
	var queryParams url.Values
	if toMillis > 0 {
		queryParams = url.Values{}
		queryParams.Set("to", strconv.FormatInt(toMillis, 10))
	}
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/pomodoros/timeline",
		queryParams,
	)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	records := []json.RawMessage{}
	if err := json.Unmarshal(bodyBytes, &records); err != nil {
		return nil, errors.Wrap(
			err,
			"error unmarshaling focus timeline response",
		)
	}
	return records, nil
}

// FocusDistribution returns focus time broken down by project, tag, and task
// for the given date range. Dates are rendered as YYYYMMDD.
func (c *Client) FocusDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return c.focusStatistic(ctx, "dist", startDate, endDate)
}

// FocusHeatmap returns per-day focus totals for the given date range.
func (c *Client) FocusHeatmap(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return c.focusStatistic(ctx, "heatmap", startDate, endDate)
}

// FocusTimeDistribution returns focus time broken down by time of day for
// the given date range.
func (c *Client) FocusTimeDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return c.focusStatistic(ctx, "timeDist", startDate, endDate)
}

// FocusHourDistribution returns focus time broken down by hour for the given
// date range.
func (c *Client) FocusHourDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return c.focusStatistic(ctx, "hourDist", startDate, endDate)
}

func (c *Client) focusStatistic(
	ctx context.Context,
	kind string,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		fmt.Sprintf(
			"api/v2/pomodoros/statistics/%s/%s/%s",
			kind,
			startDate,
			endDate,
		),
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

// FocusGeneral returns the upstream focus overview payload.
func (c *Client) FocusGeneral(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/pomodoros/statistics/generalForDesktop",
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
