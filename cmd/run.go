package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/browser"
	"github.com/liuxd6825/steplog/cmd/state"
	"github.com/liuxd6825/steplog/config"
	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/expect"
	"github.com/liuxd6825/steplog/internal/trace"
	"github.com/liuxd6825/steplog/js"
	"github.com/liuxd6825/steplog/log"
	"github.com/liuxd6825/steplog/steps"
)

// cmdRun handles the `steplog run` sub-command
type cmdRun struct {
	gs *state.GlobalState
}

func (c *cmdRun) run(cmd *cobra.Command, args []string) (err error) {
	gs := c.gs
	conf, err := config.GetConsolidatedConfig(gs.FS, cmd.Flags(), gs.Env)
	if err != nil {
		return err
	}
	closeLogOutput, err := c.setupLogger(conf)
	if err != nil {
		return err
	}
	defer closeLogOutput()

	name := args[0]
	src, err := afero.ReadFile(gs.FS, name)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(fmt.Errorf("reading script: %w", err), "pass the path of an existing script"),
			exitcodes.InvalidConfig,
		)
	}

	ctx, cancel := context.WithCancel(gs.Ctx)
	defer cancel()
	stopSignals := c.handleSignals(cancel)
	defer stopSignals()

	// Validated by GetConsolidatedConfig.
	interceptConf, _ := conf.Intercept(gs.Logger)
	expectLogs, _ := conf.ExpectLogs(gs.Logger)
	timeout, _ := conf.Timeout()

	tp, err := trace.FromConfigLine(ctx, conf.TracesOutput.String)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "use none, otel or otel=<endpoint>"),
			exitcodes.InvalidConfig,
		)
	}
	defer func() {
		if serr := tp.Shutdown(context.Background()); serr != nil {
			gs.Logger.WithError(serr).Warn("couldn't flush traces")
		}
	}()

	recorder := steps.NewRecorder()
	stepper := steps.Chain(
		recorder,
		steps.NewLogger(gs.Logger),
		steps.NewTracer(ctx, tp, map[string]string{"script": filepath.Base(name)}),
	)
	runner := js.NewRunner(js.Options{Logger: gs.Logger, Stepper: stepper, Context: ctx})

	newBrowser := gs.NewBrowser
	if newBrowser == nil {
		newBrowser = newChromium
	}
	raw, err := newBrowser(ctx, conf, gs.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := raw.Close(); cerr != nil {
			gs.Logger.WithError(cerr).Warn("couldn't close the browser")
		}
	}()

	b := browser.New(raw, browser.Options{
		Config:   interceptConf,
		Stepper:  stepper,
		Logger:   gs.Logger,
		CallSite: runner.CallSite,
	})
	if err := c.setGlobals(runner, b, conf); err != nil {
		return err
	}
	runner.SetExpect(expect.New(expect.NewMatchers(expect.MatcherOptions{Timeout: timeout}), expect.Options{
		Logs:     expectLogs,
		Stepper:  stepper,
		CallSite: runner.CallSite,
		Logger:   gs.Logger,
	}))

	runErr := runner.RunScript(name, string(src))
	printSummary(gs.Console, recorder.Steps())
	return runErr
}

// setGlobals exposes the browser with a fresh context and page to the
// script.
func (c *cmdRun) setGlobals(runner *js.Runner, b *browser.Browser, conf config.Config) error {
	bctx, err := b.NewContext(&api.BrowserContextOptions{BaseURL: conf.Request.BaseURL.String})
	if err != nil {
		return errext.WithExitCodeIfNone(fmt.Errorf("creating browser context: %w", err), exitcodes.BrowserUnavailable)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return errext.WithExitCodeIfNone(fmt.Errorf("opening page: %w", err), exitcodes.BrowserUnavailable)
	}
	globals := []struct {
		name  string
		value any
	}{
		{"browser", b},
		{"context", bctx},
		{"page", page},
		{"request", bctx.Request()},
	}
	for _, g := range globals {
		if err := runner.Set(g.name, g.value); err != nil {
			return fmt.Errorf("setting %s: %w", g.name, err)
		}
	}
	return nil
}

// setupLogger applies the log options of conf to the global logger. The
// returned function closes the additional log output, if any.
func (c *cmdRun) setupLogger(conf config.Config) (func(), error) {
	logger := c.gs.Logger
	if !c.gs.Flags.Verbose {
		level, err := logrus.ParseLevel(conf.LogLevel.String)
		if err != nil {
			return nil, err
		}
		logger.SetLevel(level)
	}
	if format := conf.LogFormat.String; format != log.FormatText {
		formatter, err := log.Formatter(format)
		if err != nil {
			return nil, err
		}
		logger.SetFormatter(formatter)
	}

	line := conf.LogOutput.String
	if line == "" {
		return func() {}, nil
	}
	hook, err := log.FileHookFromConfigLine(c.gs.FS, line)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(
			errext.WithHint(err, "use file=<path>[,level=<level>]"),
			exitcodes.InvalidConfig,
		)
	}
	logger.AddHook(hook)
	return func() {
		if err := hook.Close(); err != nil {
			logger.WithError(err).Warn("couldn't close the log file")
		}
	}, nil
}

// handleSignals cancels the run on the first interrupt signal.
func (c *cmdRun) handleSignals(cancel context.CancelFunc) func() {
	sigC := make(chan os.Signal, 1)
	done := make(chan struct{})
	c.gs.SignalNotify(sigC, os.Interrupt)
	go func() {
		select {
		case sig := <-sigC:
			c.gs.Logger.WithField("sig", sig).Warn("stopping the script, aborting the run")
			cancel()
		case <-done:
		}
	}()
	return func() {
		close(done)
		c.gs.SignalStop(sigC)
	}
}

func getCmdRun(gs *state.GlobalState) *cobra.Command {
	c := &cmdRun{gs: gs}

	exampleText := getExampleText(gs, `
  # Run a script against a new headless Chromium.
  {{.}} run login.js

  # Title steps with a rule file and connect to a running browser.
  {{.}} run --config rules.yaml --browser-url ws://127.0.0.1:9222/devtools/browser/<id> login.js

  # Write the steps to a file as JSON.
  {{.}} run --log-format json --log-output file=./steps.log login.js`[1:])

	runCmd := &cobra.Command{
		Use:   "run [flags] script",
		Short: "Run a browser script",
		Long: `Run a browser script.

The script sees the globals browser, context, page and request, the expect
function and step(title, fn). Calls with a rule in the rule file and
expectations are reported as steps.`,
		Example: exampleText,
		Args:    exactArgsWithMsg(1, "arg should be the path of a script file"),
		RunE:    c.run,
	}

	runCmd.Flags().SortFlags = false
	runCmd.Flags().AddFlagSet(config.FlagSet())

	return runCmd
}
