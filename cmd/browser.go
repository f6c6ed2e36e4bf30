package cmd

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/chromium"
	"github.com/liuxd6825/steplog/config"
)

// newChromium connects to the browser at the configured websocket URL, or
// launches one.
func newChromium(ctx context.Context, conf config.Config, logger logrus.FieldLogger) (api.Browser, error) {
	bt := chromium.NewBrowserType(logger)
	if wsURL := conf.Browser.WSURL.String; wsURL != "" {
		b, err := bt.Connect(ctx, wsURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	b, err := bt.Launch(ctx, chromium.LaunchOptions{
		Bin:      conf.Browser.Bin.String,
		Headless: conf.Browser.Headless.Bool,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
