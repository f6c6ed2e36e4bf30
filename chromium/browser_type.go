// Package chromium drives a Chromium browser over the DevTools protocol and
// exposes it through the api interfaces.
package chromium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/log"
)

// DefaultTimeout bounds launching, connecting and waiting for elements when
// no other timeout is given.
const DefaultTimeout = 30 * time.Second

// Ensure BrowserType implements the api.BrowserType interface.
var _ api.BrowserType = &BrowserType{}

// LaunchOptions configures a browser started by Launch.
type LaunchOptions struct {
	// Bin is the browser executable. Empty means the one the launcher finds
	// or downloads.
	Bin      string
	Headless bool
	// Args are extra command line flags in the form name=value or name.
	Args              []string
	IgnoreDefaultArgs []string
	Timeout           time.Duration
}

// BrowserType launches a Chromium browser or connects to a running one.
type BrowserType struct {
	logger logrus.FieldLogger
}

// NewBrowserType returns a BrowserType logging to logger. A nil logger
// discards.
func NewBrowserType(logger logrus.FieldLogger) *BrowserType {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &BrowserType{logger: logger.WithField("category", "chromium")}
}

// Name returns the browser type name.
func (b *BrowserType) Name() string {
	return "chromium"
}

// Connect attaches to the browser listening on the DevTools websocket wsURL.
func (b *BrowserType) Connect(ctx context.Context, wsURL string) (*Browser, error) {
	if wsURL == "" {
		return nil, unavailable(errors.New("connecting to browser: empty websocket URL"))
	}
	b.logger.WithField("url", wsURL).Debug("connecting")

	rb, err := b.dial(ctx, wsURL, DefaultTimeout)
	if err != nil {
		return nil, unavailable(fmt.Errorf("connecting to browser at %s: %w", wsURL, err))
	}
	return newBrowser(ctx, b, rb, nil), nil
}

// Launch starts a new browser process and connects to it.
func (b *BrowserType) Launch(ctx context.Context, opts LaunchOptions) (*Browser, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	for name, value := range b.flags(opts) {
		switch value := value.(type) {
		case bool:
			if value {
				l = l.Set(flags.Flag(name))
			} else {
				l = l.Delete(flags.Flag(name))
			}
		case string:
			if value == "" {
				l = l.Set(flags.Flag(name))
			} else {
				l = l.Set(flags.Flag(name), value)
			}
		}
	}
	for _, name := range opts.IgnoreDefaultArgs {
		l = l.Delete(flags.Flag(strings.TrimPrefix(name, "--")))
	}

	b.logger.WithFields(logrus.Fields{"bin": opts.Bin, "headless": opts.Headless}).Debug("launching")
	wsURL, err := l.Launch()
	if err != nil {
		l.Cleanup()
		return nil, unavailable(fmt.Errorf("launching browser: %w", err))
	}
	rb, err := b.dial(ctx, wsURL, timeout)
	if err != nil {
		l.Kill()
		l.Cleanup()
		return nil, unavailable(fmt.Errorf("launching browser: %w", err))
	}
	return newBrowser(ctx, b, rb, l), nil
}

func (b *BrowserType) dial(ctx context.Context, wsURL string, timeout time.Duration) (*rod.Browser, error) {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rb := rod.New().ControlURL(wsURL).Context(dctx)
	if err := rb.Connect(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		return nil, err
	}
	return rb.Context(ctx), nil
}

// flags returns the command line flags that complement the launcher's own
// defaults. Boolean flags are set when true and removed when false.
func (b *BrowserType) flags(opts LaunchOptions) map[string]any {
	f := map[string]any{
		"disable-background-timer-throttling":    true,
		"disable-backgrounding-occluded-windows": true,
		"disable-hang-monitor":                   true,
		"disable-ipc-flooding-protection":        true,
		"disable-popup-blocking":                 true,
		"disable-prompt-on-repost":               true,
		"disable-renderer-backgrounding":         true,
		"force-color-profile":                    "srgb",
		"metrics-recording-only":                 true,
		"password-store":                         "basic",
		"use-mock-keychain":                      true,
		"window-size":                            fmt.Sprintf("%d,%d", 1280, 720),
	}
	if opts.Headless {
		f["hide-scrollbars"] = true
		f["mute-audio"] = true
	}
	for _, name := range opts.IgnoreDefaultArgs {
		delete(f, strings.TrimPrefix(name, "--"))
	}
	setFlagsFromArgs(f, opts.Args)
	return f
}

// setFlagsFromArgs fills flags by parsing "name=value" and "name" arguments.
func setFlagsFromArgs(flags map[string]any, args []string) {
	for _, arg := range args {
		name, value, _ := strings.Cut(arg, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "--")
		flags[name] = trimQuotes(strings.TrimSpace(value))
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if c := s[len(s)-1]; s[0] == c && (c == '"' || c == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func unavailable(err error) error {
	return errext.WithExitCodeIfNone(
		errext.WithHint(err, "start a browser with --remote-debugging-port and pass its websocket URL, or let steplog launch one"),
		exitcodes.BrowserUnavailable,
	)
}
