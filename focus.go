package dida

// FocusTask is a task reference attached to a focus record.
type FocusTask struct {
	TaskID      string `json:"taskId,omitempty"`
	Title       string `json:"title,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
}

// FocusRecord is one upstream focus (pomodoro) session from the focus
// timeline.
type FocusRecord struct {
	ID            string      `json:"id"`
	StartTime     string      `json:"startTime,omitempty"`
	EndTime       string      `json:"endTime,omitempty"`
	Status        int         `json:"status,omitempty"`
	PauseDuration int         `json:"pauseDuration,omitempty"`
	Type          int         `json:"type,omitempty"`
	Note          string      `json:"note,omitempty"`
	Tasks         []FocusTask `json:"tasks,omitempty"`
}
