package js

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/browser"
	"github.com/liuxd6825/steplog/errext"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/expect"
	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/internal/browsertest"
	"github.com/liuxd6825/steplog/internal/testutils"
	"github.com/liuxd6825/steplog/steps"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	engine   *browsertest.Engine
	recorder *steps.Recorder
	runner   *Runner
	page     *browser.Page
}

func rules() map[intercept.Kind]intercept.Logs {
	return map[intercept.Kind]intercept.Logs{
		intercept.KindPage: {
			"Goto": func(name string, args ...any) string { return fmt.Sprintf("%s: open %v", name, args[0]) },
		},
		intercept.KindLocator: {
			"Fill": func(name string, args ...any) string { return fmt.Sprintf("%s: fill in %q", name, args[0]) },
		},
	}
}

func newFixture(ctx context.Context, t *testing.T) *fixture {
	t.Helper()

	f := &fixture{engine: browsertest.New(), recorder: steps.NewRecorder()}
	f.runner = NewRunner(Options{
		Logger:  logrus.New(),
		Stepper: f.recorder,
		Context: ctx,
	})
	raw, err := f.engine.Browser("chromium").NewPage(nil)
	require.NoError(t, err)
	f.page = browser.NewPage(raw, browser.Options{
		Config:   intercept.Config{Logs: rules()},
		Stepper:  f.recorder,
		CallSite: f.runner.CallSite,
	})
	require.NoError(t, f.runner.Set("page", f.page))
	f.runner.SetExpect(expect.New(expect.Matchers, expect.Options{
		Stepper: f.recorder,
		Logs: expect.Logs{
			"ToHaveText": func(subject any, negated bool, args ...any) string {
				if negated {
					return fmt.Sprintf("%v has not text %q", subject, args[0])
				}
				return fmt.Sprintf("%v has text %q", subject, args[0])
			},
		},
	}))
	return f
}

func requireExitCode(t *testing.T, err error, want exitcodes.ExitCode) {
	t.Helper()

	var ecerr errext.HasExitCode
	require.ErrorAs(t, err, &ecerr)
	assert.Equal(t, want, ecerr.ExitCode())
}

func TestRunnerSteps(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	src := `step("Anmelden", () => {
	page.goto("https://shop.example");
	page.locator("#name").describe("Name").fill("Erika");
});`
	require.NoError(t, f.runner.RunScript("login.js", src))

	assert.Equal(t, []string{
		"Anmelden",
		"page: open https://shop.example",
		`Name: fill in "Erika"`,
	}, f.recorder.Titles())

	all := f.recorder.Steps()
	require.Len(t, all, 3)
	assert.Equal(t, 0, all[0].Depth)
	assert.Equal(t, 1, all[1].Depth)
	assert.Equal(t, all[0].ID, all[1].ParentID)
	require.NotNil(t, all[1].Location)
	assert.Equal(t, "login.js", all[1].Location.File)
	assert.Equal(t, 2, all[1].Location.Line)

	c, ok := f.engine.Last("Goto")
	require.True(t, ok)
	assert.Equal(t, "https://shop.example", c.Args[0])
}

func TestRunnerStepReturnsAndFails(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	src := `
var answer = step("rechnen", () => 42);
var caught = "";
try {
	step("scheitern", () => { throw new Error("kaputt"); });
} catch (e) {
	caught = e.message;
}`
	require.NoError(t, f.runner.RunScript("steps.js", src))
	assert.EqualValues(t, 42, f.runner.Runtime().Get("answer").ToInteger())
	assert.Equal(t, "kaputt", f.runner.Runtime().Get("caught").String())

	failed := f.recorder.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "scheitern", failed[0].Title)
}

func TestRunnerArguments(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	src := `
page.locator("#buy").click({ button: "right", clickCount: 2, timeout: 1500 });
page.getByRole("button", { name: "Senden", exact: true }).check();
var title = String(page);`
	require.NoError(t, f.runner.RunScript("args.js", src))

	c, ok := f.engine.Last("Click")
	require.True(t, ok)
	assert.Equal(t, &api.ClickOptions{Button: "right", ClickCount: 2, Timeout: 1500 * time.Millisecond}, c.Args[0])
	c, ok = f.engine.Last("Check")
	require.True(t, ok)
	assert.Contains(t, c.Receiver, browsertest.GetByRoleSelector("button", &api.GetByRoleOptions{Name: "Senden", Exact: true}))
	assert.Equal(t, "page", f.runner.Runtime().Get("title").String())
}

func TestRunnerGoErrorsAreCatchable(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	f.engine.Errors["locator(#buy).Click"] = errors.New("element is detached")
	src := `
var msg = "";
try {
	page.locator("#buy").click();
} catch (e) {
	msg = e.message;
}`
	require.NoError(t, f.runner.RunScript("catch.js", src))
	assert.Contains(t, f.runner.Runtime().Get("msg").String(), "element is detached")
}

func TestRunnerUncaught(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		src      string
		contains string
		code     exitcodes.ExitCode
	}{
		{
			name:     "thrown error",
			src:      `throw new Error("boom");`,
			contains: "boom",
			code:     exitcodes.ScriptException,
		},
		{
			name:     "failed assertion",
			src:      `expect(page.locator("#title")).toHaveText("Tschüss");`,
			contains: "Tschüss",
			code:     exitcodes.StepFailed,
		},
		{
			name:     "go error",
			src:      `page.locator("#buy").click();`,
			contains: "element is detached",
			code:     exitcodes.ScriptException,
		},
		{
			name:     "syntax error",
			src:      `page.goto(`,
			contains: "",
			code:     exitcodes.ScriptException,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(context.Background(), t)
			f.engine.Texts["#title"] = "Willkommen"
			f.engine.Errors["locator(#buy).Click"] = errors.New("element is detached")

			err := f.runner.RunScript("fail.js", tc.src)
			require.Error(t, err)
			requireExitCode(t, err, tc.code)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestRunnerAssertionCause(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	f.engine.Texts["#title"] = "Willkommen"
	err := f.runner.RunScript("assert.js", `expect(page.locator("#title").describe("Titel")).toHaveText("Tschüss");`)

	var aerr *expect.AssertionError
	require.ErrorAs(t, err, &aerr)

	var exc errext.Exception
	require.ErrorAs(t, err, &exc)
	assert.Contains(t, exc.StackTrace(), "assert.js")
}

func TestRunnerExpect(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	f.engine.Texts["#title"] = "Willkommen"
	src := `
var title = page.locator("#title").describe("Titel");
expect(title).toHaveText("Willkommen");
expect(title).not.toHaveText("Tschüss");
expect(title).toBeVisible();
expect(3).toBe(3);`
	require.NoError(t, f.runner.RunScript("expect.js", src))
	assert.Equal(t, []string{
		`Titel has text "Willkommen"`,
		`Titel has not text "Tschüss"`,
	}, f.recorder.Titles())
}

func TestRunnerPending(t *testing.T) {
	t.Parallel()

	f := newFixture(context.Background(), t)
	f.engine.Responses["/api/cart"] = &browsertest.Response{URLValue: "/api/cart", StatusCode: 201}
	src := `var status = page.waitForResponse("/api/cart").await().status();`
	require.NoError(t, f.runner.RunScript("pending.js", src))
	assert.EqualValues(t, 201, f.runner.Runtime().Get("status").ToInteger())
}

func TestRunnerInterrupt(t *testing.T) {
	t.Parallel()

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		f := newFixture(ctx, t)
		go func() {
			time.Sleep(20 * time.Millisecond)
			cancel()
		}()
		err := f.runner.RunScript("loop.js", `for (;;) {}`)
		requireExitCode(t, err, exitcodes.ExternalAbort)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("deadline", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		f := newFixture(ctx, t)
		err := f.runner.RunScript("loop.js", `for (;;) {}`)
		requireExitCode(t, err, exitcodes.GenericTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestConsole(t *testing.T) {
	t.Parallel()

	logger, hook := testutils.NewLogger(t)
	r := NewRunner(Options{Logger: logger})
	require.NoError(t, r.RunScript("console.js", `
console.log("hallo", 1, { a: 2 });
console.warn("achtung");
console.debug("leise");`))

	entries := hook.Drain()
	require.Len(t, entries, 3)
	assert.Equal(t, `hallo 1 {"a":2}`, entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "console", entries[0].Data["category"])
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, logrus.DebugLevel, entries[2].Level)
}
