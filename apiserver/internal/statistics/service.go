package statistics

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// UpstreamClient is the narrow slice of the upstream client the statistics
// service depends on.
type UpstreamClient interface {
	UserRanking(ctx context.Context) (json.RawMessage, error)
	GeneralStatistics(ctx context.Context) (json.RawMessage, error)
}

// Service is the specialized interface for retrieving achievement and task
// statistics from upstream.
type Service interface {
	// Ranking returns the user's achievement ranking.
	Ranking(ctx context.Context) (json.RawMessage, error)
	// General returns the user's overall task statistics.
	General(ctx context.Context) (json.RawMessage, error)
}

type service struct {
	client UpstreamClient
	logger zerolog.Logger
}

// NewService returns a specialized interface for retrieving statistics from
// upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With().Str("component", "statistics").Logger(),
	}
}

func (s *service) Ranking(ctx context.Context) (json.RawMessage, error) {
	return s.client.UserRanking(ctx)
}

func (s *service) General(ctx context.Context) (json.RawMessage, error) {
	return s.client.GeneralStatistics(ctx)
}
