package dida

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
)

// SessionsClient is the specialized client for managing upstream Sessions
// through the Dida API server.
type SessionsClient interface {
	// IssueQRCode obtains a fresh QR login descriptor.
	IssueQRCode(ctx context.Context, state string) (QRDescriptor, error)
	// PollQRStatus blocks while the server polls upstream for the QR code's
	// resolution. Server-side polling exhaustion surfaces as a
	// *ErrPollTimeout.
	PollQRStatus(
		ctx context.Context,
		qrKey string,
		state string,
	) (ValidationResult, error)
	// Validate exchanges an authorization code for durable credentials.
	Validate(
		ctx context.Context,
		code string,
		state string,
	) (ValidationResult, error)
	// PasswordLogin logs in with a username and password and returns the raw
	// upstream response.
	PasswordLogin(
		ctx context.Context,
		username string,
		password string,
	) (json.RawMessage, error)
	// Set creates a Session directly from known tokens.
	Set(
		ctx context.Context,
		authToken string,
		csrfToken string,
	) (Session, error)
	// Status reports whether an upstream session is currently loaded.
	Status(ctx context.Context) (SessionStatus, error)
	// Deactivate marks the current Session inactive.
	Deactivate(ctx context.Context) error
}

type sessionsClient struct {
	*baseClient
}

// NewSessionsClient returns a specialized client for managing upstream
// Sessions.
func NewSessionsClient(apiAddress string, allowInsecure bool) SessionsClient {
	return &sessionsClient{
		baseClient: &baseClient{
			apiAddress: apiAddress,
			httpClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure, // nolint: gosec
					},
				},
			},
		},
	}
}

func (s *sessionsClient) IssueQRCode(
	_ context.Context,
	state string,
) (QRDescriptor, error) {
	descriptor := QRDescriptor{}
	return descriptor, s.executeRequest(
		outboundRequest{
			method: http.MethodGet,
			path:   "v2/session/qrcode",
			queryParams: map[string]string{
				"state": state,
			},
			successCode: http.StatusOK,
			respObj:     &descriptor,
		},
	)
}

func (s *sessionsClient) PollQRStatus(
	_ context.Context,
	qrKey string,
	state string,
) (ValidationResult, error) {
	result := ValidationResult{}
	return result, s.executeRequest(
		outboundRequest{
			method: http.MethodGet,
			path:   "v2/session/qrcode/poll",
			queryParams: map[string]string{
				"key":   qrKey,
				"state": state,
			},
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}

func (s *sessionsClient) Validate(
	_ context.Context,
	code string,
	state string,
) (ValidationResult, error) {
	result := ValidationResult{}
	return result, s.executeRequest(
		outboundRequest{
			method: http.MethodGet,
			path:   "v2/session/validate",
			queryParams: map[string]string{
				"code":  code,
				"state": state,
			},
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}

func (s *sessionsClient) PasswordLogin(
	_ context.Context,
	username string,
	password string,
) (json.RawMessage, error) {
	response := json.RawMessage{}
	return response, s.executeRequest(
		outboundRequest{
			method: http.MethodPost,
			path:   "v2/session/password-login",
			reqBodyObj: struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}{
				Username: username,
				Password: password,
			},
			successCode: http.StatusOK,
			respObj:     &response,
		},
	)
}

func (s *sessionsClient) Set(
	_ context.Context,
	authToken string,
	csrfToken string,
) (Session, error) {
	session := Session{}
	return session, s.executeRequest(
		outboundRequest{
			method: http.MethodPost,
			path:   "v2/session",
			reqBodyObj: struct {
				AuthToken string `json:"authToken"`
				CSRFToken string `json:"csrfToken"`
			}{
				AuthToken: authToken,
				CSRFToken: csrfToken,
			},
			successCode: http.StatusCreated,
			respObj:     &session,
		},
	)
}

func (s *sessionsClient) Status(
	_ context.Context,
) (SessionStatus, error) {
	status := SessionStatus{}
	return status, s.executeRequest(
		outboundRequest{
			method:      http.MethodGet,
			path:        "v2/session/status",
			successCode: http.StatusOK,
			respObj:     &status,
		},
	)
}

func (s *sessionsClient) Deactivate(_ context.Context) error {
	return s.executeRequest(
		outboundRequest{
			method:      http.MethodDelete,
			path:        "v2/session",
			successCode: http.StatusOK,
		},
	)
}
