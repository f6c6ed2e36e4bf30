// Package config consolidates the steplog options coming from the defaults,
// a rule file, the environment and the command line.
package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	null "gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/log"
)

// Config holds every steplog option. Unset fields are invalid nulls so that
// Apply can tell them apart from explicit zero values.
type Config struct {
	ChainLocatorNames null.Bool   `json:"chainLocatorNames" envconfig:"STEPLOG_CHAIN_LOCATOR_NAMES"`
	LogLevel          null.String `json:"logLevel" envconfig:"STEPLOG_LOG_LEVEL"`
	LogFormat         null.String `json:"logFormat" envconfig:"STEPLOG_LOG_FORMAT"`
	LogOutput         null.String `json:"logOutput" envconfig:"STEPLOG_LOG_OUTPUT"`
	ExpectTimeout     null.String `json:"expectTimeout" envconfig:"STEPLOG_EXPECT_TIMEOUT"`
	TracesOutput      null.String `json:"tracesOutput" envconfig:"STEPLOG_TRACES_OUTPUT"`

	Browser Browser `json:"browser" ignored:"true"`
	Request Request `json:"request" ignored:"true"`

	// Logs maps a handle kind to method names and the templates of their
	// step titles.
	Logs map[string]map[string]string `json:"logs" ignored:"true"`
	// Expect maps matcher names to the templates of their step titles.
	Expect map[string]string `json:"expect" ignored:"true"`
}

// Browser configures how the browser is obtained.
type Browser struct {
	WSURL    null.String `json:"wsURL" envconfig:"STEPLOG_BROWSER_WS_URL"`
	Headless null.Bool   `json:"headless" envconfig:"STEPLOG_BROWSER_HEADLESS"`
	Bin      null.String `json:"bin" envconfig:"STEPLOG_BROWSER_BIN"`
}

// Request configures the API request context.
type Request struct {
	BaseURL null.String `json:"baseURL" envconfig:"STEPLOG_REQUEST_BASE_URL"`
}

// NewConfig returns a Config with the default values.
func NewConfig() Config {
	return Config{
		ChainLocatorNames: null.NewBool(true, false),
		LogLevel:          null.NewString(logrus.InfoLevel.String(), false),
		LogFormat:         null.NewString(log.FormatText, false),
		ExpectTimeout:     null.NewString("5s", false),
		TracesOutput:      null.NewString("none", false),
		Browser: Browser{
			Headless: null.NewBool(true, false),
		},
	}
}

// Apply overrides c with every valid field of cfg. Rules are merged per key.
func (c Config) Apply(cfg Config) Config {
	if cfg.ChainLocatorNames.Valid {
		c.ChainLocatorNames = cfg.ChainLocatorNames
	}
	if cfg.LogLevel.Valid {
		c.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat.Valid {
		c.LogFormat = cfg.LogFormat
	}
	if cfg.LogOutput.Valid {
		c.LogOutput = cfg.LogOutput
	}
	if cfg.ExpectTimeout.Valid {
		c.ExpectTimeout = cfg.ExpectTimeout
	}
	if cfg.TracesOutput.Valid {
		c.TracesOutput = cfg.TracesOutput
	}
	c.Browser = c.Browser.Apply(cfg.Browser)
	c.Request = c.Request.Apply(cfg.Request)
	c.Logs = mergeLogs(c.Logs, cfg.Logs)
	c.Expect = mergeRules(c.Expect, cfg.Expect)
	return c
}

// Apply overrides b with every valid field of cfg.
func (b Browser) Apply(cfg Browser) Browser {
	if cfg.WSURL.Valid {
		b.WSURL = cfg.WSURL
	}
	if cfg.Headless.Valid {
		b.Headless = cfg.Headless
	}
	if cfg.Bin.Valid {
		b.Bin = cfg.Bin
	}
	return b
}

// Apply overrides r with every valid field of cfg.
func (r Request) Apply(cfg Request) Request {
	if cfg.BaseURL.Valid {
		r.BaseURL = cfg.BaseURL
	}
	return r
}

func mergeLogs(dst, src map[string]map[string]string) map[string]map[string]string {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]map[string]string, len(dst)+len(src))
	for kind, rules := range dst {
		out[kind] = mergeRules(nil, rules)
	}
	for kind, rules := range src {
		out[kind] = mergeRules(out[kind], rules)
	}
	return out
}

func mergeRules(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]string, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Timeout returns the expect timeout as a duration.
func (c Config) Timeout() (time.Duration, error) {
	if !c.ExpectTimeout.Valid && c.ExpectTimeout.String == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ExpectTimeout.String)
	if err != nil {
		return 0, invalid(fmt.Errorf("invalid expect timeout %q: %w", c.ExpectTimeout.String, err),
			"use a Go duration such as 5s or 1500ms")
	}
	if d < 0 {
		return 0, invalid(fmt.Errorf("expect timeout must not be negative, got %s", d), "")
	}
	return d, nil
}

// Validate checks every option and compiles every rule, returning the first
// problem found.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel.String); err != nil {
		return invalid(fmt.Errorf("unknown log level %q", c.LogLevel.String),
			"valid levels are panic, fatal, error, warning, info, debug and trace")
	}
	if _, err := log.Formatter(c.LogFormat.String); err != nil {
		return invalid(err, "")
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.Intercept(nil); err != nil {
		return err
	}
	_, err := c.ExpectLogs(nil)
	return err
}

func invalid(err error, hint string) error {
	if hint != "" {
		err = errext.WithHint(err, hint)
	}
	return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
}
