package upstream

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"mime"
	"net/http"

	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
)

// Habits returns the user's habit list exactly as upstream serves it.
func (c *Client) Habits(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "api/v2/habits", nil)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bodyBytes), nil
}

// HabitWeekStats returns the current week's habit check-in statistics.
func (c *Client) HabitWeekStats(ctx context.Context) (json.RawMessage, error) {
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/habits/statistics/week/current",
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

// FileDownload is a file served by upstream, proxied as-is.
type FileDownload struct {
	Filename  string
	MediaType string
	Content   []byte
}

// HabitsExport proxies upstream's own habit spreadsheet export. The filename
// and content type come from upstream's response headers.
func (c *Client) HabitsExport(ctx context.Context) (FileDownload, error) {
	download := FileDownload{}
	req, err := c.newRequest(
		ctx,
		http.MethodGet,
		"api/v2/habits/export",
		nil,
	)
	if err != nil {
		return download, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return download, errors.Wrap(err, "error invoking upstream service")
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return download, errors.Wrap(
			err,
			"error reading upstream response body",
		)
	}
	if resp.StatusCode != http.StatusOK {
		return download, dida.NewErrUpstreamHTTP(
			resp.StatusCode,
			string(bodyBytes),
		)
	}
	download.Filename = "habits_export.xlsx"
	if _, params, err := mime.ParseMediaType(
		resp.Header.Get("Content-Disposition"),
	); err == nil && params["filename"] != "" {
		download.Filename = params["filename"]
	}
	download.MediaType = resp.Header.Get("Content-Type")
	if download.MediaType == "" {
		download.MediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" // nolint: lll
	}
	download.Content = bodyBytes
	return download, nil
}
