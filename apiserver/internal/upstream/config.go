package upstream

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "UPSTREAM"

// Config represents configuration options for the upstream task-management
// service client. We use an exported interface to govern access to our config
// because the underlying struct has fields we don't want to expose.
type Config interface {
	APIBaseURL() string
	WebBaseURL() string
	Timeout() time.Duration
	UserAgent() string
	DeviceInfo() string
	Language() string
	Timezone() string
}

type config struct {
	APIBaseURLAttr     string `envconfig:"API_BASE_URL" default:"https://api.dida365.com"`         // nolint: lll
	WebBaseURLAttr     string `envconfig:"WEB_BASE_URL" default:"https://dida365.com"`             // nolint: lll
	TimeoutSecondsAttr int    `envconfig:"TIMEOUT_SECONDS" default:"30"`                           // nolint: lll
	UserAgentAttr      string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"` // nolint: lll
	DeviceInfoAttr     string `envconfig:"DEVICE_INFO" default:"{}"`
	LanguageAttr       string `envconfig:"LANGUAGE" default:"zh_CN"`
	TimezoneAttr       string `envconfig:"TIMEZONE" default:"Asia/Shanghai"`
}

// NewConfigWithDefaults returns a Config object with default values already
// applied. Callers are then free to set custom values for the remaining
// fields and/or override default values.
func NewConfigWithDefaults() Config {
	return &config{
		APIBaseURLAttr:     "https://api.dida365.com",
		WebBaseURLAttr:     "https://dida365.com",
		TimeoutSecondsAttr: 30,
		UserAgentAttr:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36", // nolint: lll
		DeviceInfoAttr:     "{}",
		LanguageAttr:       "zh_CN",
		TimezoneAttr:       "Asia/Shanghai",
	}
}

// GetConfigFromEnvironment returns configuration derived from environment
// variables
func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults().(*config)
	if err := envconfig.Process(envconfigPrefix, c); err != nil {
		return c, errors.Wrap(
			err,
			"error getting upstream client configuration from environment",
		)
	}
	return c, nil
}

func (c *config) APIBaseURL() string {
	return c.APIBaseURLAttr
}

func (c *config) WebBaseURL() string {
	return c.WebBaseURLAttr
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

func (c *config) Language() string {
	return c.LanguageAttr
}

func (c *config) Timezone() string {
	return c.TimezoneAttr
}
