package upstream

import (
	"context"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
)

// Client makes authenticated calls against the upstream task-management
// service. It caches the current Session in memory: the cache is loaded once
// at construction and refreshed only by SetSession, which the login flow
// invokes after persisting new credentials.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger

	sessionMu sync.RWMutex
	session   *dida.Session
}

// NewClient returns a client for the upstream task-management service. The
// most recent active Session, if any, is loaded from the given service.
func NewClient(
	config Config,
	sessionsService sessions.Service,
	logger zerolog.Logger,
) *Client {
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout(),
		},
		logger: logger.With().Str("component", "upstream").Logger(),
	}
	session, err := sessionsService.Current(context.Background())
	if err != nil {
		if _, ok := errors.Cause(err).(*dida.ErrNoSession); ok {
			c.logger.Info().Msg("no active session found in store")
		} else {
			c.logger.Error().Err(err).Msg("error loading active session")
		}
		return c
	}
	c.session = &session
	c.logger.Info().
		Str("sessionID", session.ID).
		Msg("restored active session from store")
	return c
}

// SetSession replaces the client's in-memory Session. The login flow calls
// this after persisting new credentials so that subsequent upstream calls
// use them without a store round trip.
func (c *Client) SetSession(session dida.Session) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.session = &session
}

// Session returns the client's in-memory Session or a *dida.ErrNoSession if
// none is loaded.
func (c *Client) Session() (dida.Session, error) {
	c.sessionMu.RLock()
	defer c.sessionMu.RUnlock()
	if c.session == nil {
		return dida.Session{}, dida.NewErrNoSession()
	}
	return *c.session, nil
}

// traceID returns a fresh per-request trace identifier: the current time in
// milliseconds rendered as hex, concatenated with eight random hex
// characters. It has diagnostic value only.
func (c *Client) traceID() string {
	millis := time.Now().UnixNano() / int64(time.Millisecond)
	random := hex.EncodeToString(uuid.NewV4().Bytes()[:4])
	return strconv.FormatInt(millis, 16) + random
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	queryParams url.Values,
) (*http.Request, error) {
	session, err := c.Session()
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		method,
		fmt.Sprintf("%s/%s", c.config.APIBaseURL(), path),
		nil,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			method,
			path,
		)
	}
	if len(queryParams) > 0 {
		req.URL.RawQuery = queryParams.Encode()
	}

	// The upstream service expects calls to look like they come from its own
	// web frontend.
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8,zh-TW;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Origin", c.config.WebBaseURL())
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Referer", c.config.WebBaseURL()+"/")
	req.Header.Set(
		"Sec-Ch-Ua",
		`"Chromium";v="136", "Google Chrome";v="136", "Not.A/Brand";v="99"`,
	)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
	req.Header.Set("User-Agent", c.config.UserAgent())
	req.Header.Set("X-Csrftoken", session.CSRFToken)
	req.Header.Set("X-Device", c.config.DeviceInfo())
	req.Header.Set("Hl", c.config.Language())
	req.Header.Set("X-Tz", c.config.Timezone())
	req.Header.Set("Traceid", c.traceID())

	req.AddCookie(&http.Cookie{Name: "t", Value: session.AuthToken})
	req.AddCookie(&http.Cookie{Name: "_csrf_token", Value: session.CSRFToken})

	return req, nil
}

// do performs the given request and returns the response body. Any non-200
// response resolves to a *dida.ErrUpstreamHTTP carrying the status and body.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking upstream service")
	}
	defer resp.Body.Close() // nolint: errcheck
	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading upstream response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, dida.NewErrUpstreamHTTP(resp.StatusCode, string(bodyBytes))
	}
	return bodyBytes, nil
}
