package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	dida "github.com/2977094657/DidaAPI"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type mockUpstreamClient struct {
	allTasksFn func(ctx context.Context) (json.RawMessage, error)
	closedFn   func(
		ctx context.Context,
		status dida.TaskStatus,
		to string,
	) ([]json.RawMessage, error)
	trashFn func(
		ctx context.Context,
		limit int,
		taskType int,
	) (json.RawMessage, error)
}

func (m *mockUpstreamClient) AllTasks(
	ctx context.Context,
) (json.RawMessage, error) {
	return m.allTasksFn(ctx)
}

func (m *mockUpstreamClient) ClosedTasks(
	ctx context.Context,
	status dida.TaskStatus,
	to string,
) ([]json.RawMessage, error) {
	return m.closedFn(ctx, status, to)
}

func (m *mockUpstreamClient) TrashTasks(
	ctx context.Context,
	limit int,
	taskType int,
) (json.RawMessage, error) {
	return m.trashFn(ctx, limit, taskType)
}

func closedTaskPage(count int, completedTime string) []json.RawMessage {
	page := make([]json.RawMessage, count)
	for i := range page {
		page[i] = json.RawMessage(
			fmt.Sprintf(
				`{"id":"task-%d","completedTime":%q}`,
				i,
				completedTime,
			),
		)
	}
	return page
}

func TestClosedHistory(t *testing.T) {
	var calls int
	client := &mockUpstreamClient{
		closedFn: func(
			_ context.Context,
			status dida.TaskStatus,
			to string,
		) ([]json.RawMessage, error) {
			calls++
			require.Equal(t, dida.TaskStatusCompleted, status)
			switch calls {
			case 1:
				require.Empty(t, to)
				return closedTaskPage(50, "2025-03-15T13:30:54.000+0000"), nil
			case 2:
				// The upstream timestamp must have been rewritten into the
				// cursor encoding the closed-tasks endpoint expects.
				require.Equal(t, "2025-03-15 13:30:54", to)
				return closedTaskPage(10, "2025-03-14T09:00:00.000+0000"), nil
			}
			require.Fail(t, "walk should have stopped after the short page")
			return nil, nil
		},
	}
	svc := NewService(client, zerolog.Nop())

	tasks, err := svc.ClosedHistory(
		context.Background(),
		dida.TaskStatusCompleted,
	)
	require.NoError(t, err)
	require.Len(t, tasks, 60)
	require.Equal(t, 2, calls)
}

func TestClosedHistoryPartialOnError(t *testing.T) {
	var calls int
	client := &mockUpstreamClient{
		closedFn: func(
			_ context.Context,
			_ dida.TaskStatus,
			_ string,
		) ([]json.RawMessage, error) {
			calls++
			if calls == 1 {
				return closedTaskPage(50, "2025-03-15T13:30:54.000+0000"), nil
			}
			return nil, fmt.Errorf("upstream went away")
		},
	}
	svc := NewService(client, zerolog.Nop())

	tasks, err := svc.ClosedHistory(
		context.Background(),
		dida.TaskStatusAbandoned,
	)
	require.Error(t, err)
	paginationErr, ok := err.(*dida.ErrPagination)
	require.True(t, ok)
	require.Equal(t, 1, paginationErr.Pages)
	require.Len(t, tasks, 50)
}

func TestAllAndTrashPassThrough(t *testing.T) {
	client := &mockUpstreamClient{
		allTasksFn: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{"syncTaskBean":{}}`), nil
		},
		trashFn: func(
			_ context.Context,
			limit int,
			taskType int,
		) (json.RawMessage, error) {
			require.Equal(t, 50, limit)
			require.Equal(t, 1, taskType)
			return json.RawMessage(`{"tasks":[]}`), nil
		},
	}
	svc := NewService(client, zerolog.Nop())

	all, err := svc.All(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"syncTaskBean":{}}`, string(all))

	trash, err := svc.Trash(context.Background(), 50, 1)
	require.NoError(t, err)
	require.JSONEq(t, `{"tasks":[]}`, string(trash))
}
