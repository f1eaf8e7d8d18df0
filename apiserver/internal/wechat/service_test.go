package wechat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	qrConnectURL     string
	qrImageBaseURL   string
	pollBaseURL      string
	validateURL      string
	passwordLoginURL string
	retryPolicy      RetryPolicy
}

func (t *testConfig) QRConnectURL() string     { return t.qrConnectURL }
func (t *testConfig) QRImageBaseURL() string   { return t.qrImageBaseURL }
func (t *testConfig) PollBaseURL() string      { return t.pollBaseURL }
func (t *testConfig) ValidateURL() string      { return t.validateURL }
func (t *testConfig) PasswordLoginURL() string { return t.passwordLoginURL }
func (t *testConfig) AppID() string            { return "test-app-id" }
func (t *testConfig) RedirectURI() string      { return "https://example.com/cb" }
func (t *testConfig) Timeout() time.Duration   { return 5 * time.Second }
func (t *testConfig) UserAgent() string        { return "test-agent" }
func (t *testConfig) DeviceInfo() string       { return "{}" }
func (t *testConfig) WebBaseURL() string       { return "https://example.com" }
func (t *testConfig) RetryPolicy() RetryPolicy { return t.retryPolicy }

type mockSessionsService struct {
	mu       sync.Mutex
	saved    []dida.Session
	attempts []dida.LoginAttempt
	saveErr  error
}

func (m *mockSessionsService) Save(
	_ context.Context,
	session dida.Session,
) (dida.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return session, m.saveErr
	}
	session.LastUpdated = time.Now()
	m.saved = append(m.saved, session)
	return session, nil
}

func (m *mockSessionsService) Current(
	context.Context,
) (dida.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return dida.Session{}, dida.NewErrNoSession()
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *mockSessionsService) Get(
	_ context.Context,
	id string,
) (dida.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.saved {
		if session.ID == id {
			return session, nil
		}
	}
	return dida.Session{}, dida.NewErrNotFound("Session", id)
}

func (m *mockSessionsService) Deactivate(context.Context, string) error {
	return nil
}

func (m *mockSessionsService) RecordLoginAttempt(
	_ context.Context,
	attempt dida.LoginAttempt,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *mockSessionsService) CheckHealth(context.Context) error {
	return nil
}

type mockSessionSink struct {
	mu      sync.Mutex
	session *dida.Session
}

func (m *mockSessionSink) SetSession(session dida.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
}

func newTestService(
	config Config,
) (Service, *mockSessionsService, *mockSessionSink) {
	sessionsService := &mockSessionsService{}
	sink := &mockSessionSink{}
	return NewService(
		config,
		sessionsService,
		sink,
		zerolog.Nop(),
	), sessionsService, sink
}

func TestIssueQRCode(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "test-app-id", r.URL.Query().Get("appid"))
			require.Equal(t, "snsapi_login", r.URL.Query().Get("scope"))
			require.Equal(t, DefaultState, r.URL.Query().Get("state"))
			fmt.Fprint(
				w,
				`<img class="web qrcode lightBorder" `+
					`src="/connect/qrcode/ABCDEF0123456789">`,
			)
		}),
	)
	defer server.Close()
	svc, sessionsService, _ := newTestService(
		&testConfig{
			qrConnectURL:   server.URL,
			qrImageBaseURL: "https://open.weixin.qq.com/connect/qrcode",
		},
	)

	descriptor, err := svc.IssueQRCode(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "ABCDEF0123456789", descriptor.Key)
	require.Equal(
		t,
		"https://open.weixin.qq.com/connect/qrcode/ABCDEF0123456789",
		descriptor.URL,
	)
	require.Equal(t, DefaultState, descriptor.State)

	require.Len(t, sessionsService.attempts, 1)
	require.Equal(t, "ABCDEF0123456789", sessionsService.attempts[0].QRKey)
	require.Equal(
		t,
		dida.LoginAttemptPending,
		sessionsService.attempts[0].Status,
	)
}

func TestIssueQRCodeNoKeyInPage(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>no QR here</body></html>`)
		}),
	)
	defer server.Close()
	svc, _, _ := newTestService(&testConfig{qrConnectURL: server.URL})

	_, err := svc.IssueQRCode(context.Background(), "")
	require.Error(t, err)
	require.IsType(t, &dida.ErrExtraction{}, err)
}

func TestPollQRStatusAuthorized(t *testing.T) {
	var pollCount int
	var mu sync.Mutex
	pollServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "test-qr-key-0000", r.URL.Query().Get("uuid"))
			mu.Lock()
			pollCount++
			count := pollCount
			mu.Unlock()
			if count < 3 {
				fmt.Fprint(w, "window.wx_errcode=404;window.wx_code='';")
				return
			}
			fmt.Fprint(w, "window.wx_errcode=405;window.wx_code='AUTHCODE';")
		}),
	)
	defer pollServer.Close()
	validateServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "AUTHCODE", r.URL.Query().Get("code"))
			http.SetCookie(w, &http.Cookie{Name: "t", Value: "auth-token"})
			http.SetCookie(
				w,
				&http.Cookie{Name: "_csrf_token", Value: "csrf-token"},
			)
			fmt.Fprint(w, `{"user":{"name":"tester"}}`)
		}),
	)
	defer validateServer.Close()
	svc, sessionsService, sink := newTestService(
		&testConfig{
			pollBaseURL: pollServer.URL,
			validateURL: validateServer.URL,
		},
	)

	result, err := svc.PollQRStatus(
		context.Background(),
		"test-qr-key-0000",
		"",
		RetryPolicy{Interval: time.Millisecond, MaxAttempts: 10},
	)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "auth-token", result.Token)
	mu.Lock()
	require.Equal(t, 3, pollCount)
	mu.Unlock()

	require.Len(t, sessionsService.saved, 1)
	require.Equal(t, "auth-token", sessionsService.saved[0].AuthToken)
	require.Equal(t, "csrf-token", sessionsService.saved[0].CSRFToken)
	require.NotNil(t, sink.session)
	require.Equal(t, result.SessionID, sink.session.ID)
}

func TestPollQRStatusTimeout(t *testing.T) {
	var pollCount int
	var mu sync.Mutex
	pollServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			pollCount++
			mu.Unlock()
			fmt.Fprint(w, "window.wx_errcode=404;window.wx_code='';")
		}),
	)
	defer pollServer.Close()
	svc, _, _ := newTestService(&testConfig{pollBaseURL: pollServer.URL})

	result, err := svc.PollQRStatus(
		context.Background(),
		"test-qr-key-0000",
		"",
		RetryPolicy{Interval: time.Millisecond, MaxAttempts: 2},
	)
	require.Error(t, err)
	timeoutErr, ok := err.(*dida.ErrPollTimeout)
	require.True(t, ok)
	require.Equal(t, 2, timeoutErr.Attempts)
	require.False(t, result.Success)
	mu.Lock()
	require.Equal(t, 2, pollCount)
	mu.Unlock()
}

func TestPollQRStatusExpired(t *testing.T) {
	pollServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "window.wx_errcode=408;window.wx_code='';")
		}),
	)
	defer pollServer.Close()
	svc, _, _ := newTestService(&testConfig{pollBaseURL: pollServer.URL})

	result, err := svc.PollQRStatus(
		context.Background(),
		"test-qr-key-0000",
		"",
		RetryPolicy{Interval: time.Millisecond, MaxAttempts: 10},
	)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "expired")
}

func TestPollQRStatusSurvivesBadFragments(t *testing.T) {
	var pollCount int
	var mu sync.Mutex
	pollServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			pollCount++
			count := pollCount
			mu.Unlock()
			if count == 1 {
				fmt.Fprint(w, "garbage with no status in it")
				return
			}
			fmt.Fprint(w, "window.wx_errcode=400;window.wx_code='';")
		}),
	)
	defer pollServer.Close()
	svc, _, _ := newTestService(&testConfig{pollBaseURL: pollServer.URL})

	result, err := svc.PollQRStatus(
		context.Background(),
		"test-qr-key-0000",
		"",
		RetryPolicy{Interval: time.Millisecond, MaxAttempts: 10},
	)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "invalidated")
	mu.Lock()
	require.Equal(t, 2, pollCount)
	mu.Unlock()
}

func TestValidateNoToken(t *testing.T) {
	validateServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 200, but no auth cookie issued
			fmt.Fprint(w, `{"errorCode":"invalid_code"}`)
		}),
	)
	defer validateServer.Close()
	svc, sessionsService, sink := newTestService(
		&testConfig{validateURL: validateServer.URL},
	)

	result, err := svc.Validate(context.Background(), "BADCODE", "")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Empty(t, sessionsService.saved)
	require.Nil(t, sink.session)

	require.Len(t, sessionsService.attempts, 1)
	require.Equal(t, dida.LoginAttemptFailed, sessionsService.attempts[0].Status)
	require.Equal(t, "BADCODE", sessionsService.attempts[0].ValidationCode)
}

func TestValidateMergesRawCookies(t *testing.T) {
	validateServer := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The bracketed name is invalid per RFC 6265, so the structured
			// parser drops that cookie; only the raw fallback can recover
			// it. The structured value must still win for "t".
			w.Header().Add("Set-Cookie", "t=jar-token; Path=/; HttpOnly")
			w.Header().Add("Set-Cookie", "_csrf_token=raw-csrf")
			w.Header().Add("Set-Cookie", "AWSALB[0]=raw-only")
			fmt.Fprint(w, `{}`)
		}),
	)
	defer validateServer.Close()
	svc, sessionsService, _ := newTestService(
		&testConfig{validateURL: validateServer.URL},
	)

	result, err := svc.Validate(context.Background(), "GOODCODE", "")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "jar-token", result.Token)
	require.Len(t, sessionsService.saved, 1)
	require.Equal(t, "raw-csrf", sessionsService.saved[0].CSRFToken)
	require.Equal(t, "jar-token", sessionsService.saved[0].Cookies["t"])
	require.Equal(
		t,
		"raw-only",
		sessionsService.saved[0].Cookies["AWSALB[0]"],
	)
}

func TestPasswordLogin(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			body := map[string]string{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "jane", body["username"])
			require.Equal(t, "secret", body["password"])
			http.SetCookie(
				w,
				&http.Cookie{Name: "_csrf_token", Value: "csrf-token"},
			)
			fmt.Fprint(w, `{"token":"auth-token","username":"jane"}`)
		}),
	)
	defer server.Close()
	svc, sessionsService, sink := newTestService(
		&testConfig{passwordLoginURL: server.URL},
	)

	responseBody, err := svc.PasswordLogin(
		context.Background(),
		"jane",
		"secret",
	)
	require.NoError(t, err)
	responseFields := map[string]string{}
	require.NoError(t, json.Unmarshal(responseBody, &responseFields))
	require.Equal(t, "auth-token", responseFields["token"])
	require.Len(t, sessionsService.saved, 1)
	require.Equal(t, "auth-token", sessionsService.saved[0].AuthToken)
	require.NotNil(t, sink.session)
}

func TestPasswordLoginUpstreamError(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errorCode":"username_password_not_match"}`)
		}),
	)
	defer server.Close()
	svc, sessionsService, _ := newTestService(
		&testConfig{passwordLoginURL: server.URL},
	)

	_, err := svc.PasswordLogin(context.Background(), "jane", "wrong")
	require.Error(t, err)
	upstreamErr, ok := err.(*dida.ErrUpstreamHTTP)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
	require.Empty(t, sessionsService.saved)
}

func TestSetAuthSession(t *testing.T) {
	svc, sessionsService, sink := newTestService(&testConfig{})

	session, err := svc.SetAuthSession(
		context.Background(),
		"auth-token",
		"csrf-token",
	)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, "auth-token", session.AuthToken)
	require.Len(t, sessionsService.saved, 1)
	require.NotNil(t, sink.session)
	require.Equal(t, session.ID, sink.session.ID)
}
