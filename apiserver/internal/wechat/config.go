package wechat

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "WECHAT"

// DefaultState is the state parameter the upstream web frontend binds QR
// issuance to when the user logs in from the site root.
const DefaultState = "Lw=="

// RetryPolicy governs the QR status poll loop: a fixed interval between
// attempts (no backoff, no jitter) and a ceiling on attempts. The defaults
// (5s x 60) bound one poll loop at roughly five minutes.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Config represents configuration options for the QR login flow. We use an
// exported interface to govern access to our config because the underlying
// struct has fields we don't want to expose.
type Config interface {
	QRConnectURL() string
	QRImageBaseURL() string
	PollBaseURL() string
	ValidateURL() string
	PasswordLoginURL() string
	AppID() string
	RedirectURI() string
	Timeout() time.Duration
	UserAgent() string
	DeviceInfo() string
	WebBaseURL() string
	RetryPolicy() RetryPolicy
}

type config struct {
	QRConnectURLAttr     string `envconfig:"QR_CONNECT_URL" default:"https://open.weixin.qq.com/connect/qrconnect"`       // nolint: lll
	QRImageBaseURLAttr   string `envconfig:"QR_IMAGE_BASE_URL" default:"https://open.weixin.qq.com/connect/qrcode"`       // nolint: lll
	PollBaseURLAttr      string `envconfig:"POLL_BASE_URL" default:"https://lp.open.weixin.qq.com/connect/l/qrconnect"`   // nolint: lll
	ValidateURLAttr      string `envconfig:"VALIDATE_URL" default:"https://api.dida365.com/api/v1/user/sign/wechat/validate"` // nolint: lll
	PasswordLoginURLAttr string `envconfig:"PASSWORD_LOGIN_URL" default:"https://api.dida365.com/api/v2/user/signon?wc=true&remember=true"` // nolint: lll
	AppIDAttr            string `envconfig:"APP_ID"`
	RedirectURIAttr      string `envconfig:"REDIRECT_URI" default:"https://dida365.com/sign/wechat"` // nolint: lll
	TimeoutSecondsAttr   int    `envconfig:"TIMEOUT_SECONDS" default:"30"`
	UserAgentAttr        string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"` // nolint: lll
	DeviceInfoAttr       string `envconfig:"DEVICE_INFO" default:"{}"`
	WebBaseURLAttr       string `envconfig:"WEB_BASE_URL" default:"https://dida365.com"` // nolint: lll
	PollIntervalAttr     int    `envconfig:"POLL_INTERVAL_SECONDS" default:"5"`
	PollMaxAttemptsAttr  int    `envconfig:"POLL_MAX_ATTEMPTS" default:"60"`
}

// NewConfigWithDefaults returns a Config object with default values already
// applied. Callers are then free to set custom values for the remaining
// fields and/or override default values.
func NewConfigWithDefaults() Config {
	return &config{
		QRConnectURLAttr:     "https://open.weixin.qq.com/connect/qrconnect",
		QRImageBaseURLAttr:   "https://open.weixin.qq.com/connect/qrcode",
		PollBaseURLAttr:      "https://lp.open.weixin.qq.com/connect/l/qrconnect",                // nolint: lll
		ValidateURLAttr:      "https://api.dida365.com/api/v1/user/sign/wechat/validate",        // nolint: lll
		PasswordLoginURLAttr: "https://api.dida365.com/api/v2/user/signon?wc=true&remember=true", // nolint: lll
		RedirectURIAttr:      "https://dida365.com/sign/wechat",
		TimeoutSecondsAttr:   30,
		UserAgentAttr:        "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", // nolint: lll
		DeviceInfoAttr:       "{}",
		WebBaseURLAttr:       "https://dida365.com",
		PollIntervalAttr:     5,
		PollMaxAttemptsAttr:  60,
	}
}

// GetConfigFromEnvironment returns configuration derived from environment
// variables
func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults().(*config)
	if err := envconfig.Process(envconfigPrefix, c); err != nil {
		return c, errors.Wrap(
			err,
			"error getting QR login configuration from environment",
		)
	}
	return c, nil
}

func (c *config) QRConnectURL() string {
	return c.QRConnectURLAttr
}

func (c *config) QRImageBaseURL() string {
	return c.QRImageBaseURLAttr
}

func (c *config) PollBaseURL() string {
	return c.PollBaseURLAttr
}

func (c *config) ValidateURL() string {
	return c.ValidateURLAttr
}

func (c *config) PasswordLoginURL() string {
	return c.PasswordLoginURLAttr
}

func (c *config) AppID() string {
	return c.AppIDAttr
}

func (c *config) RedirectURI() string {
	return c.RedirectURIAttr
}

func (c *config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecondsAttr) * time.Second
}

func (c *config) UserAgent() string {
	return c.UserAgentAttr
}

func (c *config) DeviceInfo() string {
	return c.DeviceInfoAttr
}

func (c *config) WebBaseURL() string {
	return c.WebBaseURLAttr
}

func (c *config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		Interval:    time.Duration(c.PollIntervalAttr) * time.Second,
		MaxAttempts: c.PollMaxAttemptsAttr,
	}
}
