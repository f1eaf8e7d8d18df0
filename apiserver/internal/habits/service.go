package habits

import (
	"context"
	"encoding/json"

	"github.com/2977094657/DidaAPI/apiserver/internal/upstream"
	"github.com/rs/zerolog"
)

// UpstreamClient is the narrow slice of the upstream client the habits
// service depends on.
type UpstreamClient interface {
	Habits(ctx context.Context) (json.RawMessage, error)
	HabitWeekStats(ctx context.Context) (json.RawMessage, error)
	HabitsExport(ctx context.Context) (upstream.FileDownload, error)
}

// Service is the specialized interface for retrieving habit data from
// upstream.
type Service interface {
	// All returns the user's habit list.
	All(ctx context.Context) (json.RawMessage, error)
	// WeekStats returns the current week's habit check-in statistics.
	WeekStats(ctx context.Context) (json.RawMessage, error)
	// Export proxies upstream's own habit spreadsheet export.
	Export(ctx context.Context) (upstream.FileDownload, error)
}

type service struct {
	client UpstreamClient
	logger zerolog.Logger
}

// NewService returns a specialized interface for retrieving habit data from
// upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With().Str("component", "habits").Logger(),
	}
}

func (s *service) All(ctx context.Context) (json.RawMessage, error) {
	return s.client.Habits(ctx)
}

func (s *service) WeekStats(ctx context.Context) (json.RawMessage, error) {
	return s.client.HabitWeekStats(ctx)
}

func (s *service) Export(ctx context.Context) (upstream.FileDownload, error) {
	download, err := s.client.HabitsExport(ctx)
	if err != nil {
		return download, err
	}
	s.logger.Info().
		Str("filename", download.Filename).
		Int("bytes", len(download.Content)).
		Msg("habit export retrieved")
	return download, nil
}
