package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/focus"
	"github.com/2977094657/DidaAPI/apiserver/internal/tasks"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// xlsxMediaType is the content type served with every workbook download.
const xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" // nolint: lll

const (
	trashPageLimit = 50
	trashTaskType  = 1
)

// Download is one rendered workbook ready to be served as a file.
type Download struct {
	Filename  string
	MediaType string
	Content   []byte
}

// Service is the specialized interface for rendering task and focus data
// into downloadable xlsx workbooks.
type Service interface {
	// ExportTasks walks every task category upstream serves and renders one
	// workbook with one sheet per category.
	ExportTasks(ctx context.Context) (Download, error)
	// ExportFocus walks the full focus timeline and renders one workbook.
	ExportFocus(ctx context.Context) (Download, error)
}

type service struct {
	tasksService tasks.Service
	focusService focus.Service
	logger       zerolog.Logger
	now          func() time.Time
}

// NewService returns a specialized interface for rendering xlsx exports.
func NewService(
	tasksService tasks.Service,
	focusService focus.Service,
	logger zerolog.Logger,
) Service {
	return &service{
		tasksService: tasksService,
		focusService: focusService,
		logger:       logger.With().Str("component", "export").Logger(),
		now:          time.Now,
	}
}

var taskColumns = []interface{}{
	"Task ID",
	"Title",
	"Content",
	"Description",
	"Project ID",
	"Project Name",
	"Status",
	"Priority",
	"Progress",
	"Tags",
	"Created",
	"Modified",
	"Start Date",
	"Due Date",
	"Completed",
	"Time Zone",
	"All Day",
	"Parent Task ID",
	"Kind",
	"Etag",
}

func (s *service) ExportTasks(ctx context.Context) (Download, error) {
	s.logger.Info().Msg("exporting tasks workbook")

	// Every category is best-effort: a failure in one leaves its sheet out
	// rather than sinking the whole export. The walk helpers already return
	// partial results on mid-walk failures.
	var allTasks []dida.Task
	projectNames := map[string]string{}
	if allTasksBytes, err := s.tasksService.All(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("error retrieving open tasks for export")
	} else {
		payload := struct {
			SyncTaskBean struct {
				Update []dida.Task `json:"update"`
			} `json:"syncTaskBean"`
			ProjectProfiles []dida.ProjectProfile `json:"projectProfiles"`
		}{}
		if err := json.Unmarshal(allTasksBytes, &payload); err != nil {
			s.logger.Warn().Err(err).Msg("error parsing open tasks for export")
		} else {
			allTasks = payload.SyncTaskBean.Update
			for _, project := range payload.ProjectProfiles {
				projectNames[project.ID] = project.Name
			}
		}
	}

	completedTasks := s.closedHistory(ctx, dida.TaskStatusCompleted)
	abandonedTasks := s.closedHistory(ctx, dida.TaskStatusAbandoned)

	var trashTasks []dida.Task
	if trashBytes, err := s.tasksService.Trash(
		ctx,
		trashPageLimit,
		trashTaskType,
	); err != nil {
		s.logger.Warn().Err(err).Msg("error retrieving trash tasks for export")
	} else {
		payload := struct {
			Tasks []dida.Task `json:"tasks"`
		}{}
		if err := json.Unmarshal(trashBytes, &payload); err != nil {
			s.logger.Warn().Err(err).Msg("error parsing trash tasks for export")
		} else {
			trashTasks = payload.Tasks
		}
	}

	if len(allTasks) == 0 &&
		len(completedTasks) == 0 &&
		len(abandonedTasks) == 0 &&
		len(trashTasks) == 0 {
		return Download{}, errors.New("no task data available to export")
	}

	workbook := excelize.NewFile()
	sheets := []struct {
		name  string
		tasks []dida.Task
	}{
		{name: "All Tasks", tasks: allTasks},
		{name: "Completed", tasks: completedTasks},
		{name: "Abandoned", tasks: abandonedTasks},
		{name: "Trash", tasks: trashTasks},
	}
	first := true
	for _, sheet := range sheets {
		if len(sheet.tasks) == 0 {
			continue
		}
		if err := addSheet(
			workbook,
			sheet.name,
			first,
			taskColumns,
			len(sheet.tasks),
			func(i int) []interface{} {
				return taskRow(sheet.tasks[i], projectNames)
			},
		); err != nil {
			return Download{}, err
		}
		first = false
		s.logger.Info().
			Str("sheet", sheet.name).
			Int("rows", len(sheet.tasks)).
			Msg("rendered sheet")
	}

	return s.finish(workbook, "dida-tasks")
}

var focusColumns = []interface{}{
	"Session ID",
	"Session Time",
	"Total Duration",
	"Pause Duration",
	"Tasks",
	"Projects",
	"Segments",
	"Type",
	"Note",
}

func (s *service) ExportFocus(ctx context.Context) (Download, error) {
	s.logger.Info().Msg("exporting focus workbook")

	rawRecords, err := s.focusService.TimelineHistory(ctx)
	if err != nil {
		if _, ok := errors.Cause(err).(*dida.ErrPagination); !ok {
			return Download{}, err
		}
		s.logger.Warn().
			Err(err).
			Msg("focus timeline walk failed partway; exporting what we have")
	}
	records := make([]dida.FocusRecord, 0, len(rawRecords))
	for _, rawRecord := range rawRecords {
		record := dida.FocusRecord{}
		if err := json.Unmarshal(rawRecord, &record); err != nil {
			s.logger.Warn().Err(err).Msg("skipping unparseable focus record")
			continue
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return Download{}, errors.New("no focus data available to export")
	}

	workbook := excelize.NewFile()
	if err := addSheet(
		workbook,
		"Focus Timeline",
		true,
		focusColumns,
		len(records),
		func(i int) []interface{} {
			return focusRow(records[i])
		},
	); err != nil {
		return Download{}, err
	}
	s.logger.Info().Int("rows", len(records)).Msg("rendered focus timeline")

	return s.finish(workbook, "dida-focus")
}

// closedHistory wraps the closed-task walk so a mid-walk failure degrades to
// whatever pages were retrieved.
func (s *service) closedHistory(
	ctx context.Context,
	status dida.TaskStatus,
) []dida.Task {
	rawTasks, err := s.tasksService.ClosedHistory(ctx, status)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("status", string(status)).
			Msg("closed task walk failed partway; exporting what we have")
	}
	closedTasks := make([]dida.Task, 0, len(rawTasks))
	for _, rawTask := range rawTasks {
		task := dida.Task{}
		if err := json.Unmarshal(rawTask, &task); err != nil {
			s.logger.Warn().Err(err).Msg("skipping unparseable task")
			continue
		}
		closedTasks = append(closedTasks, task)
	}
	return closedTasks
}

func (s *service) finish(
	workbook *excelize.File,
	filenameStem string,
) (Download, error) {
	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return Download{}, errors.Wrap(err, "error serializing workbook")
	}
	download := Download{
		Filename: fmt.Sprintf(
			"%s-%s.xlsx",
			filenameStem,
			s.now().Format("20060102-150405"),
		),
		MediaType: xlsxMediaType,
		Content:   buffer.Bytes(),
	}
	s.logger.Info().
		Str("filename", download.Filename).
		Int("bytes", len(download.Content)).
		Msg("workbook ready")
	return download, nil
}

// addSheet writes a header row plus rowCount data rows onto a new sheet. The
// first sheet reuses the workbook's default sheet so no empty "Sheet1" is
// left behind.
func addSheet(
	workbook *excelize.File,
	name string,
	first bool,
	columns []interface{},
	rowCount int,
	rowAt func(i int) []interface{},
) error {
	if first {
		workbook.SetSheetName(workbook.GetSheetName(0), name)
	} else {
		workbook.NewSheet(name)
	}
	if err := workbook.SetSheetRow(name, "A1", &columns); err != nil {
		return errors.Wrapf(err, "error writing header row to sheet %q", name)
	}
	for i := 0; i < rowCount; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(err, "error addressing row %d", i+2)
		}
		row := rowAt(i)
		if err := workbook.SetSheetRow(name, cell, &row); err != nil {
			return errors.Wrapf(err, "error writing row to sheet %q", name)
		}
	}
	return nil
}

func taskRow(task dida.Task, projectNames map[string]string) []interface{} {
	return []interface{}{
		task.ID,
		task.Title,
		task.Content,
		task.Desc,
		task.ProjectID,
		projectNames[task.ProjectID],
		task.Status,
		task.Priority,
		task.Progress,
		strings.Join(task.Tags, "; "),
		task.CreatedTime,
		task.ModifiedTime,
		task.StartDate,
		task.DueDate,
		task.CompletedTime,
		task.TimeZone,
		task.IsAllDay,
		task.ParentID,
		task.Kind,
		task.Etag,
	}
}

func focusRow(record dida.FocusRecord) []interface{} {
	titles := []string{}
	projects := []string{}
	seenTitles := map[string]bool{}
	seenProjects := map[string]bool{}
	for _, task := range record.Tasks {
		if task.Title != "" && !seenTitles[task.Title] {
			seenTitles[task.Title] = true
			titles = append(titles, task.Title)
		}
		if task.ProjectName != "" && !seenProjects[task.ProjectName] {
			seenProjects[task.ProjectName] = true
			projects = append(projects, task.ProjectName)
		}
	}
	return []interface{}{
		record.ID,
		sessionTime(record.StartTime, record.EndTime),
		formatDuration(sessionSeconds(record.StartTime, record.EndTime)),
		formatDuration(record.PauseDuration),
		strings.Join(titles, "; "),
		strings.Join(projects, "; "),
		len(record.Tasks),
		record.Type,
		record.Note,
	}
}

// sessionTime renders "2025-03-15 13:30 - 14:00" when both bounds parse,
// falling back to the raw upstream strings.
func sessionTime(start, end string) string {
	startTime, startErr := parseFocusTime(start)
	endTime, endErr := parseFocusTime(end)
	if startErr != nil || endErr != nil {
		if start == "" && end == "" {
			return ""
		}
		return fmt.Sprintf("%s - %s", start, end)
	}
	return fmt.Sprintf(
		"%s - %s",
		startTime.Format("2006-01-02 15:04"),
		endTime.Format("15:04"),
	)
}

func sessionSeconds(start, end string) int {
	startTime, startErr := parseFocusTime(start)
	endTime, endErr := parseFocusTime(end)
	if startErr != nil || endErr != nil {
		return 0
	}
	return int(endTime.Sub(startTime) / time.Second)
}

func parseFocusTime(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05.000-0700", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	return (time.Duration(seconds) * time.Second).String()
}
