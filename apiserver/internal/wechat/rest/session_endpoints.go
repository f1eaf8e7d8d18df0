package rest

import (
	"net/http"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	"github.com/2977094657/DidaAPI/apiserver/internal/wechat"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

var passwordLoginSchemaLoader = gojsonschema.NewStringLoader(`
	{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["username", "password"],
		"additionalProperties": false,
		"properties": {
			"username": {
				"type": "string",
				"minLength": 1
			},
			"password": {
				"type": "string",
				"minLength": 1
			}
		}
	}`,
)

var setSessionSchemaLoader = gojsonschema.NewStringLoader(`
	{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["authToken"],
		"additionalProperties": false,
		"properties": {
			"authToken": {
				"type": "string",
				"minLength": 1
			},
			"csrfToken": {
				"type": "string"
			}
		}
	}`,
)

type sessionEndpoints struct {
	*restmachinery.BaseEndpoints
	service         wechat.Service
	sessionsService sessions.Service
}

// NewSessionEndpoints returns the login and session-management routes.
func NewSessionEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service wechat.Service,
	sessionsService sessions.Service,
) restmachinery.Endpoints {
	return &sessionEndpoints{
		BaseEndpoints:   baseEndpoints,
		service:         service,
		sessionsService: sessionsService,
	}
}

func (s *sessionEndpoints) Register(router *mux.Router) {
	// Issue a QR login code
	router.HandleFunc(
		"/v2/session/qrcode",
		s.issueQRCode,
	).Methods(http.MethodGet)

	// Poll a previously issued QR code until it resolves
	router.HandleFunc(
		"/v2/session/qrcode/poll",
		s.pollQRStatus,
	).Methods(http.MethodGet)

	// Exchange an authorization code for durable credentials
	router.HandleFunc(
		"/v2/session/validate",
		s.validate,
	).Methods(http.MethodGet)

	// Log in with username and password
	router.HandleFunc(
		"/v2/session/password-login",
		s.passwordLogin,
	).Methods(http.MethodPost)

	// Report whether an upstream session is loaded
	router.HandleFunc(
		"/v2/session/status",
		s.status,
	).Methods(http.MethodGet)

	// Set a session directly from known tokens
	router.HandleFunc(
		"/v2/session",
		s.setSession,
	).Methods(http.MethodPost)

	// Deactivate the current session
	router.HandleFunc(
		"/v2/session",
		s.deactivate,
	).Methods(http.MethodDelete)
}

func (s *sessionEndpoints) issueQRCode(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return s.service.IssueQRCode(
					r.Context(),
					r.URL.Query().Get("state"),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *sessionEndpoints) pollQRStatus(
	w http.ResponseWriter,
	r *http.Request,
) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				qrKey := r.URL.Query().Get("key")
				if qrKey == "" {
					return nil, dida.NewErrBadRequest(
						`The "key" query parameter is required.`,
					)
				}
				// A zero-value policy defers to configured defaults.
				return s.service.PollQRStatus(
					r.Context(),
					qrKey,
					r.URL.Query().Get("state"),
					wechat.RetryPolicy{},
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *sessionEndpoints) validate(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				code := r.URL.Query().Get("code")
				if code == "" {
					return nil, dida.NewErrBadRequest(
						`The "code" query parameter is required.`,
					)
				}
				return s.service.Validate(
					r.Context(),
					code,
					r.URL.Query().Get("state"),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *sessionEndpoints) passwordLogin(
	w http.ResponseWriter,
	r *http.Request,
) {
	credentials := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{}
	s.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: passwordLoginSchemaLoader,
			ReqBodyObj:          &credentials,
			EndpointLogic: func() (interface{}, error) {
				return s.service.PasswordLogin(
					r.Context(),
					credentials.Username,
					credentials.Password,
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *sessionEndpoints) status(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				session, err := s.sessionsService.Current(r.Context())
				if err != nil {
					if _, ok := errors.Cause(err).(*dida.ErrNoSession); ok {
						return dida.NewSessionStatus(false, "", false), nil
					}
					return nil, err
				}
				return dida.NewSessionStatus(
					true,
					session.ID,
					session.Active,
				), nil
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (s *sessionEndpoints) setSession(w http.ResponseWriter, r *http.Request) {
	tokens := struct {
		AuthToken string `json:"authToken"`
		CSRFToken string `json:"csrfToken"`
	}{}
	s.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: setSessionSchemaLoader,
			ReqBodyObj:          &tokens,
			EndpointLogic: func() (interface{}, error) {
				return s.service.SetAuthSession(
					r.Context(),
					tokens.AuthToken,
					tokens.CSRFToken,
				)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (s *sessionEndpoints) deactivate(w http.ResponseWriter, r *http.Request) {
	s.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				session, err := s.sessionsService.Current(r.Context())
				if err != nil {
					return nil, err
				}
				return nil, s.sessionsService.Deactivate(
					r.Context(),
					session.ID,
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
