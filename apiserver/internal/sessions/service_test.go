package sessions

import (
	"context"
	"testing"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// mockStore keeps sessions in memory, resolving Current the way the real
// store does: the most-recently-updated active session wins.
type mockStore struct {
	sessions  map[string]dida.Session
	healthErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions: map[string]dida.Session{},
	}
}

func (m *mockStore) Upsert(_ context.Context, session dida.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockStore) Current(context.Context) (dida.Session, error) {
	current := dida.Session{}
	found := false
	for _, session := range m.sessions {
		if !session.Active {
			continue
		}
		if !found || session.LastUpdated.After(current.LastUpdated) {
			current = session
			found = true
		}
	}
	if !found {
		return current, dida.NewErrNoSession()
	}
	return current, nil
}

func (m *mockStore) Get(
	_ context.Context,
	id string,
) (dida.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return session, dida.NewErrNotFound("Session", id)
	}
	return session, nil
}

func (m *mockStore) Deactivate(_ context.Context, id string) error {
	session, ok := m.sessions[id]
	if !ok {
		return dida.NewErrNotFound("Session", id)
	}
	session.Active = false
	session.LastUpdated = time.Now()
	m.sessions[id] = session
	return nil
}

func (m *mockStore) CheckHealth(context.Context) error {
	return m.healthErr
}

type mockLoginAttemptsStore struct {
	attempts []dida.LoginAttempt
}

func (m *mockLoginAttemptsStore) Create(
	_ context.Context,
	attempt dida.LoginAttempt,
) error {
	m.attempts = append(m.attempts, attempt)
	return nil
}

func TestSaveStampsTimes(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, &mockLoginAttemptsStore{}, zerolog.Nop())

	session := dida.NewSession("auth-token", "csrf-token", nil)
	session.Created = time.Time{}
	session.LastUpdated = time.Time{}

	saved, err := svc.Save(context.Background(), session)
	require.NoError(t, err)
	require.False(t, saved.Created.IsZero())
	require.False(t, saved.LastUpdated.IsZero())
	require.Equal(t, saved.Created, saved.LastUpdated)
}

func TestCurrentTracksMostRecentlySaved(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, &mockLoginAttemptsStore{}, zerolog.Nop())
	ctx := context.Background()

	sessionA := dida.NewSession("token-a", "", nil)
	sessionB := dida.NewSession("token-b", "", nil)

	_, err := svc.Save(ctx, sessionA)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Save(ctx, sessionB)
	require.NoError(t, err)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, sessionB.ID, current.ID)

	// Re-saving A makes it the most recently updated again.
	time.Sleep(time.Millisecond)
	_, err = svc.Save(ctx, sessionA)
	require.NoError(t, err)

	current, err = svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, sessionA.ID, current.ID)
}

func TestCurrentWithNoSession(t *testing.T) {
	svc := NewService(newMockStore(), &mockLoginAttemptsStore{}, zerolog.Nop())

	_, err := svc.Current(context.Background())
	require.Error(t, err)
	require.IsType(t, &dida.ErrNoSession{}, err)
}

func TestDeactivateExcludesFromCurrent(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, &mockLoginAttemptsStore{}, zerolog.Nop())
	ctx := context.Background()

	session := dida.NewSession("auth-token", "", nil)
	_, err := svc.Save(ctx, session)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, session.ID))

	_, err = svc.Current(ctx)
	require.Error(t, err)
	require.IsType(t, &dida.ErrNoSession{}, err)

	// The deactivated session is still retrievable by ID.
	got, err := svc.Get(ctx, session.ID)
	require.NoError(t, err)
	require.False(t, got.Active)
}

func TestDeactivateUnknownSession(t *testing.T) {
	svc := NewService(newMockStore(), &mockLoginAttemptsStore{}, zerolog.Nop())

	err := svc.Deactivate(context.Background(), "nonexistent")
	require.Error(t, err)
	require.IsType(t, &dida.ErrNotFound{}, err)
}

func TestRecordLoginAttempt(t *testing.T) {
	attemptsStore := &mockLoginAttemptsStore{}
	svc := NewService(newMockStore(), attemptsStore, zerolog.Nop())

	attempt := dida.NewLoginAttempt("ABCDEF0123456789", "Lw==")
	require.NoError(
		t,
		svc.RecordLoginAttempt(context.Background(), attempt),
	)
	require.Len(t, attemptsStore.attempts, 1)
	require.Equal(t, "ABCDEF0123456789", attemptsStore.attempts[0].QRKey)
}

func TestCheckHealth(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, &mockLoginAttemptsStore{}, zerolog.Nop())

	require.NoError(t, svc.CheckHealth(context.Background()))

	store.healthErr = errors.New("database unreachable")
	err := svc.CheckHealth(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "database unreachable")
}
