package focus

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/2977094657/DidaAPI/apiserver/internal/pagination"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// timelinePageSize is the page length upstream serves for the focus
	// timeline when more data remains.
	timelinePageSize = 31
	hardPageCap      = 100
)

// UpstreamClient is the narrow slice of the upstream client the focus
// service depends on.
type UpstreamClient interface {
	FocusTimeline(
		ctx context.Context,
		toMillis int64,
	) ([]json.RawMessage, error)
	FocusGeneral(ctx context.Context) (json.RawMessage, error)
	FocusDistribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	FocusHeatmap(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	FocusTimeDistribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	FocusHourDistribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
}

// Service is the specialized interface for retrieving focus (pomodoro)
// records from upstream.
type Service interface {
	// TimelinePage returns a single page of focus records. A zero toMillis
	// requests the most recent page.
	TimelinePage(
		ctx context.Context,
		toMillis int64,
	) ([]json.RawMessage, error)
	// TimelineHistory walks every page of focus records, most recent first.
	// On a mid-walk failure the pages retrieved so far are returned
	// alongside a *dida.ErrPagination.
	TimelineHistory(ctx context.Context) ([]json.RawMessage, error)
	// General returns the upstream focus overview payload.
	General(ctx context.Context) (json.RawMessage, error)
	// Distribution returns focus time broken down by project, tag, and task
	// for an inclusive YYYYMMDD date range.
	Distribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	// Heatmap returns per-day focus totals for a date range.
	Heatmap(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	// TimeDistribution returns focus time by time of day for a date range.
	TimeDistribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
	// HourDistribution returns focus time by hour for a date range.
	HourDistribution(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error)
}

type service struct {
	client    UpstreamClient
	collector *pagination.Collector
	logger    zerolog.Logger
}

// NewService returns a specialized interface for retrieving focus records
// from upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	logger = logger.With().Str("component", "focus").Logger()
	return &service{
		client: client,
		collector: &pagination.Collector{
			FullPageSize: timelinePageSize,
			HardPageCap:  hardPageCap,
			Logger:       logger,
		},
		logger: logger,
	}
}

func (s *service) TimelinePage(
	ctx context.Context,
	toMillis int64,
) ([]json.RawMessage, error) {
	return s.client.FocusTimeline(ctx, toMillis)
}

func (s *service) TimelineHistory(
	ctx context.Context,
) ([]json.RawMessage, error) {
	s.logger.Info().Msg("walking focus timeline history")
	return s.collector.Collect(
		ctx,
		func(ctx context.Context, cursor string) ([]json.RawMessage, error) {
			toMillis := int64(0)
			if cursor != "" {
				var err error
				if toMillis, err = strconv.ParseInt(cursor, 10, 64); err != nil {
					return nil, errors.Wrapf(
						err,
						"error parsing focus timeline cursor %q",
						cursor,
					)
				}
			}
			return s.client.FocusTimeline(ctx, toMillis)
		},
		pagination.FieldCursor("startTime"),
		pagination.EpochMillisCursor,
	)
}

func (s *service) General(ctx context.Context) (json.RawMessage, error) {
	return s.client.FocusGeneral(ctx)
}

func (s *service) Distribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return s.client.FocusDistribution(ctx, startDate, endDate)
}

func (s *service) Heatmap(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return s.client.FocusHeatmap(ctx, startDate, endDate)
}

func (s *service) TimeDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return s.client.FocusTimeDistribution(ctx, startDate, endDate)
}

func (s *service) HourDistribution(
	ctx context.Context,
	startDate string,
	endDate string,
) (json.RawMessage, error) {
	return s.client.FocusHourDistribution(ctx, startDate, endDate)
}
