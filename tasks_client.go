package dida

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"strconv"
)

// TasksClient is the specialized client for retrieving tasks through the
// Dida API server.
type TasksClient interface {
	// All returns the raw upstream batch-check payload: every open task plus
	// project profiles.
	All(ctx context.Context) (json.RawMessage, error)
	// Closed returns completed or abandoned tasks. With fullHistory set, the
	// server walks every page; otherwise to selects a single page, with ""
	// meaning the most recent one.
	Closed(
		ctx context.Context,
		status TaskStatus,
		to string,
		fullHistory bool,
	) ([]json.RawMessage, error)
	// Trash returns one page of trashed tasks.
	Trash(
		ctx context.Context,
		limit int,
		taskType int,
	) (json.RawMessage, error)
}

type tasksClient struct {
	*baseClient
}

// NewTasksClient returns a specialized client for retrieving tasks.
func NewTasksClient(apiAddress string, allowInsecure bool) TasksClient {
	return &tasksClient{
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

func (t *tasksClient) All(_ context.Context) (json.RawMessage, error) {
	response := json.RawMessage{}
	return response, t.executeRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        "v2/tasks",
			successCode: http.StatusOK,
			respObj:     &response,
		},
	)
}

func (t *tasksClient) Closed(
	_ context.Context,
	status TaskStatus,
	to string,
	fullHistory bool,
) ([]json.RawMessage, error) {
	tasks := []json.RawMessage{}
	queryParams := map[string]string{
		"status": string(status),
	}
	if fullHistory {
		queryParams["all"] = "true"
	} else if to != "" {
		queryParams["to"] = to
	}
	return tasks, t.executeRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        "v2/tasks/completed",
			queryParams: queryParams,
			successCode: http.StatusOK,
			respObj:     &tasks,
		},
	)
}

func (t *tasksClient) Trash(
	_ context.Context,
	limit int,
	taskType int,
) (json.RawMessage, error) {
	response := json.RawMessage{}
	return response, t.executeRequest(
		outboundRequest{
			method: http.MethodGet,
			path:   "v2/tasks/trash",
			queryParams: map[string]string{
				"limit": strconv.Itoa(limit),
				"type":  strconv.Itoa(taskType),
			},
			successCode: http.StatusOK,
			respObj:     &response,
		},
	)
}
