package dida

// Client is the general interface for the Dida API server. It does little
// more than expose functions for obtaining more specialized clients for
// different areas of concern, like session management or task retrieval.
type Client interface {
	// Sessions returns a specialized client for Session management.
	Sessions() SessionsClient
	// Tasks returns a specialized client for task retrieval.
	Tasks() TasksClient
	// Focus returns a specialized client for focus-record retrieval.
	Focus() FocusClient
	// Exports returns a specialized client for workbook downloads.
	Exports() ExportsClient
}

type client struct {
	// sessionsClient is a specialized client for Session management.
	sessionsClient SessionsClient
	// tasksClient is a specialized client for task retrieval.
	tasksClient TasksClient
	// focusClient is a specialized client for focus-record retrieval.
	focusClient FocusClient
	// exportsClient is a specialized client for workbook downloads.
	exportsClient ExportsClient
}

// NewClient returns a Dida API server client.
func NewClient(apiAddress string, allowInsecure bool) Client {
	return &client{
		sessionsClient: NewSessionsClient(apiAddress, allowInsecure),
		tasksClient:    NewTasksClient(apiAddress, allowInsecure),
		focusClient:    NewFocusClient(apiAddress, allowInsecure),
		exportsClient:  NewExportsClient(apiAddress, allowInsecure),
	}
}

func (c *client) Sessions() SessionsClient {
	return c.sessionsClient
}

func (c *client) Tasks() TasksClient {
	return c.tasksClient
}

func (c *client) Focus() FocusClient {
	return c.focusClient
}

func (c *client) Exports() ExportsClient {
	return c.exportsClient
}
