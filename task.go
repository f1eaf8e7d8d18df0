package dida

// TaskStatus values used by the upstream closed-task history endpoint. The
// endpoint serves both completed and abandoned ("won't do") tasks and
// distinguishes them with this parameter.
type TaskStatus string

const (
	TaskStatusCompleted TaskStatus = "Completed"
	TaskStatusAbandoned TaskStatus = "Abandoned"
)

// Task is one upstream task record. Only the fields this system reads are
// modeled; unknown upstream fields are dropped on unmarshal.
type Task struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"projectId,omitempty"`
	Title         string   `json:"title,omitempty"`
	Content       string   `json:"content,omitempty"`
	Desc          string   `json:"desc,omitempty"`
	Status        int      `json:"status"`
	Priority      int      `json:"priority,omitempty"`
	Progress      int      `json:"progress,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	CreatedTime   string   `json:"createdTime,omitempty"`
	ModifiedTime  string   `json:"modifiedTime,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	DueDate       string   `json:"dueDate,omitempty"`
	CompletedTime string   `json:"completedTime,omitempty"`
	TimeZone      string   `json:"timeZone,omitempty"`
	IsAllDay      bool     `json:"isAllDay,omitempty"`
	ParentID      string   `json:"parentId,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	Etag          string   `json:"etag,omitempty"`
}

// ProjectProfile is the slice of an upstream project this system cares
// about: enough to label tasks with a human-readable project name.
type ProjectProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
