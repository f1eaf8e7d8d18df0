package tasks

import (
	"context"
	"encoding/json"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/pagination"
	"github.com/rs/zerolog"
)

const (
	// closedPageSize is the page length upstream serves for closed tasks
	// when more data remains.
	closedPageSize = 50
	hardPageCap    = 100
)

// UpstreamClient is the narrow slice of the upstream client the tasks
// service depends on.
type UpstreamClient interface {
	AllTasks(ctx context.Context) (json.RawMessage, error)
	ClosedTasks(
		ctx context.Context,
		status dida.TaskStatus,
		to string,
	) ([]json.RawMessage, error)
	TrashTasks(
		ctx context.Context,
		limit int,
		taskType int,
	) (json.RawMessage, error)
}

// Service is the specialized interface for retrieving tasks from upstream.
type Service interface {
	// All returns the raw upstream batch-check payload: every open task plus
	// project profiles.
	All(ctx context.Context) (json.RawMessage, error)
	// ClosedPage returns a single page of completed or abandoned tasks. An
	// empty to requests the most recent page.
	ClosedPage(
		ctx context.Context,
		status dida.TaskStatus,
		to string,
	) ([]json.RawMessage, error)
	// ClosedHistory walks every page of completed or abandoned tasks, most
	// recent first. On a mid-walk failure the pages retrieved so far are
	// returned alongside a *dida.ErrPagination.
	ClosedHistory(
		ctx context.Context,
		status dida.TaskStatus,
	) ([]json.RawMessage, error)
	// Trash returns one page of trashed tasks.
	Trash(
		ctx context.Context,
		limit int,
		taskType int,
	) (json.RawMessage, error)
}

type service struct {
	client    UpstreamClient
	collector *pagination.Collector
	logger    zerolog.Logger
}

// NewService returns a specialized interface for retrieving tasks from
// upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	logger = logger.With().Str("component", "tasks").Logger()
	return &service{
		client: client,
		collector: &pagination.Collector{
			FullPageSize: closedPageSize,
			HardPageCap:  hardPageCap,
			Logger:       logger,
		},
		logger: logger,
	}
}

func (s *service) All(ctx context.Context) (json.RawMessage, error) {
	return s.client.AllTasks(ctx)
}

func (s *service) ClosedPage(
	ctx context.Context,
	status dida.TaskStatus,
	to string,
) ([]json.RawMessage, error) {
	return s.client.ClosedTasks(ctx, status, to)
}

func (s *service) ClosedHistory(
	ctx context.Context,
	status dida.TaskStatus,
) ([]json.RawMessage, error) {
	s.logger.Info().
		Str("status", string(status)).
		Msg("walking closed task history")
	return s.collector.Collect(
		ctx,
		func(ctx context.Context, cursor string) ([]json.RawMessage, error) {
			return s.client.ClosedTasks(ctx, status, cursor)
		},
		pagination.FieldCursor("completedTime"),
		pagination.SQLCursor,
	)
}

func (s *service) Trash(
	ctx context.Context,
	limit int,
	taskType int,
) (json.RawMessage, error) {
	return s.client.TrashTasks(ctx, limit, taskType)
}
