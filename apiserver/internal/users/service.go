package users

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// UpstreamClient is the narrow slice of the upstream client the users
// service depends on.
type UpstreamClient interface {
	UserProfile(ctx context.Context) (json.RawMessage, error)
}

// Service is the specialized interface for retrieving the authenticated
// user's account data from upstream.
type Service interface {
	// Profile returns the user's profile.
	Profile(ctx context.Context) (json.RawMessage, error)
}

type service struct {
	client UpstreamClient
	logger zerolog.Logger
}

// NewService returns a specialized interface for retrieving user account
// data from upstream.
func NewService(client UpstreamClient, logger zerolog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

func (s *service) Profile(ctx context.Context) (json.RawMessage, error) {
	return s.client.UserProfile(ctx)
}
