package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// QR status codes embedded in the upstream poll fragment.
const (
	qrStatusWaiting    = 404 // not scanned yet
	qrStatusScanned    = 403 // scanned, awaiting user confirmation
	qrStatusAuthorized = 405 // confirmed; authorization code issued
	qrStatusExpired    = 408
	qrStatusInvalid    = 400
)

var (
	// The poll endpoint replies with a script-like fragment, e.g.
	// window.wx_errcode=405;window.wx_code='XYZ';
	errcodePattern = regexp.MustCompile(`window\.wx_errcode\s*=\s*(\d+)`)
	codePattern    = regexp.MustCompile(`window\.wx_code\s*=\s*'([^']*)'`)

	// Permissive key=value fallback for re-parsing raw Set-Cookie header
	// text.
	rawCookiePattern = regexp.MustCompile(`([^=;,\s]+)=([^;]+)`)
)

// SessionSink is implemented by components holding an in-memory copy of the
// current Session that must be refreshed when a login completes.
type SessionSink interface {
	SetSession(dida.Session)
}

// Service is the specialized interface for the QR login flow: it issues QR
// descriptors, polls upstream for scan/confirm/authorization, exchanges
// authorization codes for durable credentials, and commits new Sessions.
type Service interface {
	// IssueQRCode obtains a QR login page from upstream and extracts the QR
	// key from it.
	IssueQRCode(ctx context.Context, state string) (dida.QRDescriptor, error)
	// PollQRStatus polls the QR status endpoint at a fixed interval until
	// the code is authorized, expired, invalidated, or the policy's attempts
	// are exhausted. Exhaustion returns a *dida.ErrPollTimeout. A zero-value
	// policy means the service's configured policy.
	PollQRStatus(
		ctx context.Context,
		qrKey string,
		state string,
		policy RetryPolicy,
	) (dida.ValidationResult, error)
	// Validate exchanges an authorization code for durable credentials and,
	// on success, persists a new Session and refreshes the upstream client.
	Validate(
		ctx context.Context,
		code string,
		state string,
	) (dida.ValidationResult, error)
	// PasswordLogin bypasses QR entirely: it exchanges the given credentials
	// for tokens and returns the raw upstream response. Session persistence
	// is gated on the response containing a token.
	PasswordLogin(
		ctx context.Context,
		username string,
		password string,
	) (json.RawMessage, error)
	// SetAuthSession creates and persists a Session directly from known
	// tokens, bypassing any login exchange.
	SetAuthSession(
		ctx context.Context,
		authToken string,
		csrfToken string,
	) (dida.Session, error)
}

type service struct {
	config      Config
	sessions    sessions.Service
	sessionSink SessionSink
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewService returns a specialized interface for the QR login flow.
func NewService(
	config Config,
	sessionsService sessions.Service,
	sessionSink SessionSink,
	logger zerolog.Logger,
) Service {
	return &service{
		config:      config,
		sessions:    sessionsService,
		sessionSink: sessionSink,
		httpClient: &http.Client{
			Timeout: config.Timeout(),
		},
		logger: logger.With().Str("component", "wechat").Logger(),
	}
}

func (s *service) IssueQRCode(
	ctx context.Context,
	state string,
) (dida.QRDescriptor, error) {
	if state == "" {
		state = DefaultState
	}
	descriptor := dida.QRDescriptor{}

	queryParams := url.Values{}
	queryParams.Set("appid", s.config.AppID())
	queryParams.Set("redirect_uri", s.config.RedirectURI())
	queryParams.Set("response_type", "code")
	queryParams.Set("scope", "snsapi_login")
	queryParams.Set("state", state)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s?%s", s.config.QRConnectURL(), queryParams.Encode()),
		nil,
	)
	if err != nil {
		return descriptor, errors.Wrap(err, "error creating QR issuance request")
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return descriptor, errors.Wrap(err, "error requesting QR login page")
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return descriptor, errors.Wrap(err, "error reading QR login page")
	}
	if resp.StatusCode != http.StatusOK {
		return descriptor,
			dida.NewErrUpstreamHTTP(resp.StatusCode, string(bodyBytes))
	}

	qrKey, err := extractQRKey(string(bodyBytes))
	if err != nil {
		return descriptor, err
	}

	if err := s.sessions.RecordLoginAttempt(
		ctx,
		dida.NewLoginAttempt(qrKey, state),
	); err != nil {
		s.logger.Warn().Err(err).Msg("error recording QR issuance")
	}

	s.logger.Info().Str("qrKey", qrKey).Msg("issued QR login code")
	return dida.NewQRDescriptor(
		fmt.Sprintf("%s/%s", s.config.QRImageBaseURL(), qrKey),
		qrKey,
		state,
	), nil
}

func (s *service) PollQRStatus(
	ctx context.Context,
	qrKey string,
	state string,
	policy RetryPolicy,
) (dida.ValidationResult, error) {
	if state == "" {
		state = DefaultState
	}
	if policy.Interval <= 0 {
		policy.Interval = s.config.RetryPolicy().Interval
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = s.config.RetryPolicy().MaxAttempts
	}

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		errcode, code, err := s.pollOnce(ctx, qrKey)
		if err != nil {
			// A single failed attempt never aborts the loop.
			s.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("maxAttempts", policy.MaxAttempts).
				Msg("QR status poll attempt failed")
		} else {
			s.logger.Debug().
				Int("attempt", attempt).
				Int("maxAttempts", policy.MaxAttempts).
				Int("errcode", errcode).
				Msg("QR status poll attempt")
			switch errcode {
			case qrStatusAuthorized:
				if code != "" {
					s.logger.Info().Msg("QR code authorized")
					return s.Validate(ctx, code, state)
				}
			case qrStatusWaiting, qrStatusScanned:
				// Keep polling.
			case qrStatusExpired:
				return dida.NewValidationResult(false, "QR code expired"), nil
			case qrStatusInvalid:
				return dida.NewValidationResult(false, "QR code invalidated"), nil
			}
		}

		// Fixed interval between attempts regardless of outcome.
		select {
		case <-time.After(policy.Interval):
		case <-ctx.Done():
			return dida.NewValidationResult(false, "polling canceled"),
				ctx.Err()
		}
	}

	s.logger.Warn().
		Int("maxAttempts", policy.MaxAttempts).
		Msg("QR status polling timed out")
	return dida.NewValidationResult(
		false,
		"polling timed out; please request a new QR code",
	), dida.NewErrPollTimeout(policy.MaxAttempts)
}

// pollOnce requests the QR status fragment and interprets the embedded
// numeric code. A fragment with no recognizable errcode is a parse error.
func (s *service) pollOnce(
	ctx context.Context,
	qrKey string,
) (int, string, error) {
	queryParams := url.Values{}
	queryParams.Set("uuid", qrKey)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s?%s", s.config.PollBaseURL(), queryParams.Encode()),
		nil,
	)
	if err != nil {
		return 0, "", errors.Wrap(err, "error creating QR status request")
	}
	req.Header.Set("User-Agent", s.config.UserAgent())
	req.Header.Set("Referer", "https://open.weixin.qq.com/")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, "", errors.Wrap(err, "error requesting QR status")
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return 0, "", errors.Wrap(err, "error reading QR status fragment")
	}

	errcodeMatch := errcodePattern.FindStringSubmatch(string(bodyBytes))
	if errcodeMatch == nil {
		return 0, "", errors.Errorf(
			"no status code found in QR status fragment %q",
			string(bodyBytes),
		)
	}
	errcode, err := strconv.Atoi(errcodeMatch[1])
	if err != nil {
		return 0, "", errors.Wrap(err, "error parsing QR status code")
	}
	code := ""
	if codeMatch := codePattern.FindStringSubmatch(string(bodyBytes)); codeMatch != nil { // nolint: lll
		code = codeMatch[1]
	}
	return errcode, code, nil
}

func (s *service) Validate(
	ctx context.Context,
	code string,
	state string,
) (dida.ValidationResult, error) {
	if state == "" {
		state = DefaultState
	}
	result := dida.NewValidationResult(false, "")

	queryParams := url.Values{}
	queryParams.Set("code", code)
	queryParams.Set("state", state)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s?%s", s.config.ValidateURL(), queryParams.Encode()),
		nil,
	)
	if err != nil {
		return result, errors.Wrap(err, "error creating validation request")
	}
	s.setBrowserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Failures resolve to a failed ValidationResult, never a crash; the
		// attempt is recorded either way.
		s.recordValidation(ctx, code, state, err.Error(), false)
		result.Message = err.Error()
		return result, nil
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		s.recordValidation(ctx, code, state, err.Error(), false)
		result.Message = err.Error()
		return result, nil
	}

	cookies := extractCookies(resp)
	authToken := cookies["t"]
	csrfToken := cookies["_csrf_token"]

	// Success requires more than upstream's 200: without a token in the
	// cookies there is nothing to persist.
	if resp.StatusCode != http.StatusOK || authToken == "" {
		s.recordValidation(ctx, code, state, string(bodyBytes), false)
		result.Message = fmt.Sprintf(
			"login failed: upstream returned %d with no usable token",
			resp.StatusCode,
		)
		return result, nil
	}

	session, err := s.sessions.Save(
		ctx,
		dida.NewSession(authToken, csrfToken, cookies),
	)
	if err != nil {
		s.recordValidation(ctx, code, state, err.Error(), false)
		result.Message = err.Error()
		return result, nil
	}
	s.sessionSink.SetSession(session)
	s.recordValidation(ctx, code, state, string(bodyBytes), true)

	result.Success = true
	result.Message = "login successful"
	result.Token = authToken
	result.SessionID = session.ID
	result.Cookies = cookies
	if json.Valid(bodyBytes) {
		responseFields := map[string]json.RawMessage{}
		if err := json.Unmarshal(bodyBytes, &responseFields); err == nil {
			result.UserInfo = responseFields["user"]
		}
	}

	s.logger.Info().
		Str("sessionID", session.ID).
		Msg("QR login validated; session persisted")
	return result, nil
}

func (s *service) PasswordLogin(
	ctx context.Context,
	username string,
	password string,
) (json.RawMessage, error) {
	reqBodyBytes, err := json.Marshal(
		struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}{
			Username: username,
			Password: password,
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling login request body")
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.config.PasswordLoginURL(),
		bytes.NewBuffer(reqBodyBytes),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating password login request")
	}
	s.setBrowserHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking password login")
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading password login response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dida.NewErrUpstreamHTTP(resp.StatusCode, string(bodyBytes))
	}

	responseFields := struct {
		Token string `json:"token"`
	}{}
	// nolint: errcheck
	json.Unmarshal(bodyBytes, &responseFields)

	// Persistence is gated on the response actually carrying a token; the
	// raw response goes back to the caller either way.
	if responseFields.Token != "" {
		cookies := extractCookies(resp)
		session, err := s.sessions.Save(
			ctx,
			dida.NewSession(
				responseFields.Token,
				cookies["_csrf_token"],
				cookies,
			),
		)
		if err != nil {
			return nil, err
		}
		s.sessionSink.SetSession(session)
		s.logger.Info().
			Str("sessionID", session.ID).
			Msg("password login succeeded; session persisted")
	}

	return json.RawMessage(bodyBytes), nil
}

func (s *service) SetAuthSession(
	ctx context.Context,
	authToken string,
	csrfToken string,
) (dida.Session, error) {
	session, err := s.sessions.Save(
		ctx,
		dida.NewSession(authToken, csrfToken, nil),
	)
	if err != nil {
		return session, err
	}
	s.sessionSink.SetSession(session)
	s.logger.Info().
		Str("sessionID", session.ID).
		Msg("session set directly from supplied tokens")
	return session, nil
}

func (s *service) setBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,zh-TW;q=0.7")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", s.config.WebBaseURL())
	req.Header.Set("Referer", s.config.WebBaseURL()+"/")
	req.Header.Set(
		"Sec-Ch-Ua",
		`"Chromium";v="136", "Google Chrome";v="136", "Not.A/Brand";v="99"`,
	)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("User-Agent", s.config.UserAgent())
	req.Header.Set("X-Device", s.config.DeviceInfo())
}

func (s *service) recordValidation(
	ctx context.Context,
	code string,
	state string,
	response string,
	success bool,
) {
	status := dida.LoginAttemptFailed
	if success {
		status = dida.LoginAttemptSuccess
	}
	attempt := dida.NewLoginAttempt("", state)
	attempt.ValidationCode = code
	attempt.Status = status
	attempt.Response = response
	if err := s.sessions.RecordLoginAttempt(ctx, attempt); err != nil {
		s.logger.Warn().Err(err).Msg("error recording validation attempt")
	}
}

// extractCookies merges cookies from the response's structured cookie jar
// with a permissive re-parse of the raw Set-Cookie header text. The
// structured parse wins; the raw pass only fills names the jar did not
// produce.
func extractCookies(resp *http.Response) map[string]string {
	cookies := map[string]string{}
	for _, cookie := range resp.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}
	for _, rawHeader := range resp.Header.Values("Set-Cookie") {
		for _, match := range rawCookiePattern.FindAllStringSubmatch(rawHeader, -1) { // nolint: lll
			name := strings.TrimSpace(match[1])
			value := strings.TrimSpace(match[2])
			if _, ok := cookies[name]; !ok {
				cookies[name] = value
			}
		}
	}
	return cookies
}
