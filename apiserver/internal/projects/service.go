package projects

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// UpstreamClient is the narrow slice of the upstream client the projects
// service depends on.
type UpstreamClient interface {
	Projects(ctx context.Context) (json.RawMessage, error)
}

// Service is the specialized interface for retrieving projects (lists) from
// upstream.
type Service interface {
	// All returns the user's project collection.
	All(ctx context.Context) (json.RawMessage, error)
}

type service struct {
	client UpstreamClient
	logger zerolog.Logger
}

// NewService returns a specialized interface for retrieving projects from
// upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With().Str("component", "projects").Logger(),
	}
}

func (s *service) All(ctx context.Context) (json.RawMessage, error) {
	return s.client.Projects(ctx)
}
