package sessions

import (
	"context"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Service is the specialized interface for management of upstream Sessions
// and the QR login audit log. It is the ONLY place session state is written
// to or read from durable storage.
type Service interface {
	// Save upserts the given Session, stamping its last-update time.
	Save(context.Context, dida.Session) (dida.Session, error)
	// Current returns the most-recently-updated active Session, or a
	// *dida.ErrNoSession if there is none.
	Current(context.Context) (dida.Session, error)
	// Get returns the Session having the given ID.
	Get(ctx context.Context, id string) (dida.Session, error)
	// Deactivate marks the Session having the given ID as inactive. It does
	// not touch any other Session.
	Deactivate(ctx context.Context, id string) error
	// RecordLoginAttempt appends one QR issuance/validation audit record.
	// Failures here are deliberately non-fatal to login flows; callers log
	// and proceed.
	RecordLoginAttempt(context.Context, dida.LoginAttempt) error
	// CheckHealth checks the health of the session store.
	CheckHealth(context.Context) error
}

type service struct {
	store         Store
	attemptsStore LoginAttemptsStore
	logger        zerolog.Logger
}

// NewService returns a specialized interface for management of upstream
// Sessions.
func NewService(
	store Store,
	attemptsStore LoginAttemptsStore,
	logger zerolog.Logger,
) Service {
	return &service{
		store:         store,
		attemptsStore: attemptsStore,
		logger:        logger.With().Str("component", "sessions").Logger(),
	}
}

func (s *service) Save(
	ctx context.Context,
	session dida.Session,
) (dida.Session, error) {
	session.LastUpdated = time.Now()
	if session.Created.IsZero() {
		session.Created = session.LastUpdated
	}
	if err := s.store.Upsert(ctx, session); err != nil {
		return session, errors.Wrapf(
			err,
			"error storing session %q",
			session.ID,
		)
	}
	s.logger.Info().
		Str("sessionID", session.ID).
		Msg("session saved")
	return session, nil
}

func (s *service) Current(ctx context.Context) (dida.Session, error) {
	session, err := s.store.Current(ctx)
	if err != nil {
		if _, ok := errors.Cause(err).(*dida.ErrNoSession); ok {
			return session, err
		}
		return session, errors.Wrap(
			err,
			"error retrieving current session from store",
		)
	}
	return session, nil
}

func (s *service) Get(
	ctx context.Context,
	id string,
) (dida.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		if _, ok := errors.Cause(err).(*dida.ErrNotFound); ok {
			return session, err
		}
		return session, errors.Wrapf(
			err,
			"error retrieving session %q from store",
			id,
		)
	}
	return session, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	if err := s.store.Deactivate(ctx, id); err != nil {
		if _, ok := errors.Cause(err).(*dida.ErrNotFound); ok {
			return err
		}
		return errors.Wrapf(err, "error deactivating session %q", id)
	}
	s.logger.Info().Str("sessionID", id).Msg("session deactivated")
	return nil
}

func (s *service) CheckHealth(ctx context.Context) error {
	return s.store.CheckHealth(ctx)
}

func (s *service) RecordLoginAttempt(
	ctx context.Context,
	attempt dida.LoginAttempt,
) error {
	if err := s.attemptsStore.Create(ctx, attempt); err != nil {
		return errors.Wrapf(
			err,
			"error recording login attempt for QR key %q",
			attempt.QRKey,
		)
	}
	return nil
}
