package sessions

import (
	"context"

	dida "github.com/2977094657/DidaAPI"
)

// Store is an interface for components that can durably persist upstream
// Sessions.
type Store interface {
	// Upsert creates the given Session or, if a Session with the same ID
	// already exists, replaces it.
	Upsert(context.Context, dida.Session) error
	// Current returns the most-recently-updated active Session. It returns a
	// *dida.ErrNoSession if no active Session exists. Note that this is a
	// recency resolution, not an exclusivity guarantee: saving a new Session
	// does not deactivate older ones.
	Current(context.Context) (dida.Session, error)
	// Get returns the Session having the given ID. It returns a
	// *dida.ErrNotFound if no such Session exists.
	Get(ctx context.Context, id string) (dida.Session, error)
	// Deactivate marks the Session having the given ID as inactive. It
	// returns a *dida.ErrNotFound if no such Session exists.
	Deactivate(ctx context.Context, id string) error
	// CheckHealth sends a ping to the database. If it doesn't get a response
	// before the deadline, an error is returned.
	CheckHealth(context.Context) error
}

// LoginAttemptsStore is an interface for components that can persist the
// append-only QR login audit log.
type LoginAttemptsStore interface {
	// Create appends the given LoginAttempt to the audit log.
	Create(context.Context, dida.LoginAttempt) error
}
