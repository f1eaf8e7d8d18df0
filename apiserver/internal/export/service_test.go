package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	dida "github.com/2977094657/DidaAPI"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockTasksService struct {
	allFn func(ctx context.Context) (json.RawMessage, error)
	closedHistoryFn func(
		ctx context.Context,
		status dida.TaskStatus,
	) ([]json.RawMessage, error)
	trashFn func(
		ctx context.Context,
		limit int,
		taskType int,
	) (json.RawMessage, error)
}

func (m *mockTasksService) All(
	ctx context.Context,
) (json.RawMessage, error) {
	return m.allFn(ctx)
}

func (m *mockTasksService) ClosedPage(
	context.Context,
	dida.TaskStatus,
	string,
) ([]json.RawMessage, error) {
	return nil, nil
}

func (m *mockTasksService) ClosedHistory(
	ctx context.Context,
	status dida.TaskStatus,
) ([]json.RawMessage, error) {
	return m.closedHistoryFn(ctx, status)
}

func (m *mockTasksService) Trash(
	ctx context.Context,
	limit int,
	taskType int,
) (json.RawMessage, error) {
	return m.trashFn(ctx, limit, taskType)
}

type mockFocusService struct {
	timelineHistoryFn func(ctx context.Context) ([]json.RawMessage, error)
}

func (m *mockFocusService) TimelinePage(
	context.Context,
	int64,
) ([]json.RawMessage, error) {
	return nil, nil
}

func (m *mockFocusService) TimelineHistory(
	ctx context.Context,
) ([]json.RawMessage, error) {
	return m.timelineHistoryFn(ctx)
}

func (m *mockFocusService) General(
	context.Context,
) (json.RawMessage, error) {
	return nil, nil
}

func (m *mockFocusService) Distribution(
	context.Context,
	string,
	string,
) (json.RawMessage, error) {
	return nil, nil
}

func (m *mockFocusService) Heatmap(
	context.Context,
	string,
	string,
) (json.RawMessage, error) {
	return nil, nil
}

func (m *mockFocusService) TimeDistribution(
	context.Context,
	string,
	string,
) (json.RawMessage, error) {
	return nil, nil
}

func (m *mockFocusService) HourDistribution(
	context.Context,
	string,
	string,
) (json.RawMessage, error) {
	return nil, nil
}

func TestExportTasks(t *testing.T) {
	tasksService := &mockTasksService{
		allFn: func(context.Context) (json.RawMessage, error) {
			return json.RawMessage(`{
				"syncTaskBean": {
					"update": [
						{
							"id": "open-1",
							"title": "Water the plants",
							"projectId": "proj-1",
							"status": 0
						}
					]
				},
				"projectProfiles": [
					{"id": "proj-1", "name": "Chores"}
				]
			}`), nil
		},
		closedHistoryFn: func(
			_ context.Context,
			status dida.TaskStatus,
		) ([]json.RawMessage, error) {
			if status == dida.TaskStatusCompleted {
				return []json.RawMessage{
					json.RawMessage(
						`{"id":"done-1","title":"Ship release","status":2}`,
					),
				}, nil
			}
			return nil, nil
		},
		trashFn: func(
			context.Context,
			int,
			int,
		) (json.RawMessage, error) {
			return json.RawMessage(`{"tasks":[]}`), nil
		},
	}
	svc := NewService(tasksService, &mockFocusService{}, zerolog.Nop())

	download, err := svc.ExportTasks(context.Background())
	require.NoError(t, err)
	require.Regexp(t, `^dida-tasks-\d{8}-\d{6}\.xlsx$`, download.Filename)
	require.Equal(t, xlsxMediaType, download.MediaType)

	workbook, err := excelize.OpenReader(bytes.NewReader(download.Content))
	require.NoError(t, err)
	require.Equal(t, []string{"All Tasks", "Completed"}, workbook.GetSheetList())

	header, err := workbook.GetCellValue("All Tasks", "A1")
	require.NoError(t, err)
	require.Equal(t, "Task ID", header)
	title, err := workbook.GetCellValue("All Tasks", "B2")
	require.NoError(t, err)
	require.Equal(t, "Water the plants", title)
	projectName, err := workbook.GetCellValue("All Tasks", "F2")
	require.NoError(t, err)
	require.Equal(t, "Chores", projectName)
	completedTitle, err := workbook.GetCellValue("Completed", "B2")
	require.NoError(t, err)
	require.Equal(t, "Ship release", completedTitle)
}

func TestExportTasksNoData(t *testing.T) {
	tasksService := &mockTasksService{
		allFn: func(context.Context) (json.RawMessage, error) {
			return nil, dida.NewErrNoSession()
		},
		closedHistoryFn: func(
			context.Context,
			dida.TaskStatus,
		) ([]json.RawMessage, error) {
			return nil, dida.NewErrNoSession()
		},
		trashFn: func(
			context.Context,
			int,
			int,
		) (json.RawMessage, error) {
			return nil, dida.NewErrNoSession()
		},
	}
	svc := NewService(tasksService, &mockFocusService{}, zerolog.Nop())

	_, err := svc.ExportTasks(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no task data")
}

func TestExportFocus(t *testing.T) {
	focusService := &mockFocusService{
		timelineHistoryFn: func(
			context.Context,
		) ([]json.RawMessage, error) {
			return []json.RawMessage{
				json.RawMessage(`{
					"id": "focus-1",
					"startTime": "2025-03-15T13:30:00.000+0000",
					"endTime": "2025-03-15T14:00:00.000+0000",
					"pauseDuration": 60,
					"type": 0,
					"tasks": [
						{
							"title": "Deep work",
							"projectName": "Writing",
							"startTime": "2025-03-15T13:30:00.000+0000",
							"endTime": "2025-03-15T14:00:00.000+0000"
						}
					]
				}`),
			}, nil
		},
	}
	svc := NewService(&mockTasksService{}, focusService, zerolog.Nop())

	download, err := svc.ExportFocus(context.Background())
	require.NoError(t, err)
	require.Regexp(t, `^dida-focus-\d{8}-\d{6}\.xlsx$`, download.Filename)

	workbook, err := excelize.OpenReader(bytes.NewReader(download.Content))
	require.NoError(t, err)
	require.Equal(t, []string{"Focus Timeline"}, workbook.GetSheetList())

	sessionTimeValue, err := workbook.GetCellValue("Focus Timeline", "B2")
	require.NoError(t, err)
	require.Equal(t, "2025-03-15 13:30 - 14:00", sessionTimeValue)
	totalDuration, err := workbook.GetCellValue("Focus Timeline", "C2")
	require.NoError(t, err)
	require.Equal(t, "30m0s", totalDuration)
	taskTitles, err := workbook.GetCellValue("Focus Timeline", "E2")
	require.NoError(t, err)
	require.Equal(t, "Deep work", taskTitles)
}

func TestExportFocusPartialWalk(t *testing.T) {
	focusService := &mockFocusService{
		timelineHistoryFn: func(
			context.Context,
		) ([]json.RawMessage, error) {
			return []json.RawMessage{
				json.RawMessage(`{"id":"focus-1"}`),
			}, dida.NewErrPagination(1, "upstream went away")
		},
	}
	svc := NewService(&mockTasksService{}, focusService, zerolog.Nop())

	// A mid-walk failure still yields a workbook with the pages retrieved.
	download, err := svc.ExportFocus(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, download.Content)
}
