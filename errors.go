package dida

import "fmt"

// ErrNoSession indicates that an operation requiring an authenticated
// upstream session was attempted while no active session was loaded.
type ErrNoSession struct {
	TypeMeta `json:",inline"`
}

func NewErrNoSession() *ErrNoSession {
	return &ErrNoSession{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "NoSessionError",
		},
	}
}

func (e *ErrNoSession) Error() string {
	return "No active upstream session. Please log in first."
}

// ErrExtraction indicates that an expected value (a QR key or a token) could
// not be located in an upstream payload.
type ErrExtraction struct {
	TypeMeta `json:",inline"`
	What     string `json:"what"`
}

func NewErrExtraction(what string) *ErrExtraction {
	return &ErrExtraction{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "ExtractionError",
		},
		What: what,
	}
}

func (e *ErrExtraction) Error() string {
	return fmt.Sprintf("Could not extract %s from upstream payload.", e.What)
}

// ErrUpstreamHTTP indicates a non-200 response from the upstream service.
type ErrUpstreamHTTP struct {
	TypeMeta   `json:",inline"`
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body,omitempty"`
}

func NewErrUpstreamHTTP(statusCode int, body string) *ErrUpstreamHTTP {
	return &ErrUpstreamHTTP{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "UpstreamHTTPError",
		},
		StatusCode: statusCode,
		Body:       body,
	}
}

func (e *ErrUpstreamHTTP) Error() string {
	return fmt.Sprintf("Received %d from the upstream service.", e.StatusCode)
}

// ErrPollTimeout indicates that a QR login poll loop exhausted its allotted
// attempts without the QR code ever being authorized.
type ErrPollTimeout struct {
	TypeMeta `json:",inline"`
	Attempts int `json:"attempts"`
}

func NewErrPollTimeout(attempts int) *ErrPollTimeout {
	return &ErrPollTimeout{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "PollTimeoutError",
		},
		Attempts: attempts,
	}
}

func (e *ErrPollTimeout) Error() string {
	return fmt.Sprintf(
		"QR login was not completed within %d polling attempts.",
		e.Attempts,
	)
}

// ErrPagination indicates that a page fetch failed partway through a cursor
// walk. Items accumulated before the failure are NOT discarded; they
// accompany this error back to the caller.
type ErrPagination struct {
	TypeMeta `json:",inline"`
	Pages    int    `json:"pages"`
	Reason   string `json:"reason"`
}

func NewErrPagination(pages int, reason string) *ErrPagination {
	return &ErrPagination{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "PaginationError",
		},
		Pages:  pages,
		Reason: reason,
	}
}

func (e *ErrPagination) Error() string {
	return fmt.Sprintf(
		"Page fetch failed after %d complete page(s): %s",
		e.Pages,
		e.Reason,
	)
}

// ErrAuthentication represents a failure to authenticate a request made to
// this server.
type ErrAuthentication struct {
	TypeMeta `json:",inline"`
	Reason   string `json:"reason"`
}

func NewErrAuthentication(reason string) *ErrAuthentication {
	return &ErrAuthentication{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "AuthenticationError",
		},
		Reason: reason,
	}
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("Could not authenticate the request: %s", e.Reason)
}

type ErrBadRequest struct {
	TypeMeta `json:",inline"`
	Reason   string   `json:"reason"`
	Details  []string `json:"details,omitempty"`
}

func NewErrBadRequest(reason string, details ...string) *ErrBadRequest {
	return &ErrBadRequest{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "BadRequestError",
		},
		Reason:  reason,
		Details: details,
	}
}

func (e *ErrBadRequest) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("Bad request: %s", e.Reason)
	}
	msg := fmt.Sprintf("Bad request: %s:", e.Reason)
	for i, detail := range e.Details {
		msg = fmt.Sprintf("%s\n  %d. %s", msg, i, detail)
	}
	return msg
}

type ErrNotFound struct {
	TypeMeta `json:",inline"`
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
}

func NewErrNotFound(tipe, id string) *ErrNotFound {
	return &ErrNotFound{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "NotFoundError",
		},
		Type: tipe,
		ID:   id,
	}
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found.", e.Type)
	}
	return fmt.Sprintf("%s %q not found.", e.Type, e.ID)
}

type ErrInternalServer struct {
	TypeMeta `json:",inline"`
}

func NewErrInternalServer() *ErrInternalServer {
	return &ErrInternalServer{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "InternalServerError",
		},
	}
}

func (e *ErrInternalServer) Error() string {
	return "An internal server error occurred."
}

type ErrNotSupported struct {
	TypeMeta `json:",inline"`
	Details  string `json:"reason"`
}

func NewErrNotSupported(details string) *ErrNotSupported {
	return &ErrNotSupported{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "NotSupportedError",
		},
		Details: details,
	}
}

func (e *ErrNotSupported) Error() string {
	return e.Details
}
