package dida

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strconv"
)

// FocusClient is the specialized client for retrieving focus (pomodoro)
// records through the Dida API server.
type FocusClient interface {
	// Timeline returns focus records. With fullHistory set, the server walks
	// every page; otherwise toMillis selects a single page, with 0 meaning
	// the most recent one.
	Timeline(
		ctx context.Context,
		toMillis int64,
		fullHistory bool,
	) ([]json.RawMessage, error)
	// General returns the upstream focus overview payload.
	General(ctx context.Context) (json.RawMessage, error)
}

type focusClient struct {
	*baseClient
}

// NewFocusClient returns a specialized client for retrieving focus records.
func NewFocusClient(apiAddress string, allowInsecure bool) FocusClient {
	return &focusClient{
		baseClient: &baseClient{
			apiAddress: apiAddress,
			httpClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure, // nolint: gosec
					},
				},
			},
		},
	}
}

func (f *focusClient) Timeline(
	_ context.Context,
	toMillis int64,
	fullHistory bool,
) ([]json.RawMessage, error) {
	records := []json.RawMessage{}
	queryParams := map[string]string{}
	if fullHistory {
		queryParams["all"] = "true"
	} else if toMillis > 0 {
		queryParams["to"] = strconv.FormatInt(toMillis, 10)
	}
	return records, f.executeRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        "v2/focus/timeline",
			queryParams: queryParams,
			successCode: http.StatusOK,
			respObj:     &records,
		},
	)
}

func (f *focusClient) General(_ context.Context) (json.RawMessage, error) {
	response := json.RawMessage{}
	return response, f.executeRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        "v2/focus/general",
			successCode: http.StatusOK,
			respObj:     &response,
		},
	)
}
