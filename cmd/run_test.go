package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/errext/exitcodes"
)

func TestRunPrintsSummary(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "run", "--config", "rules.yaml", "login.js")
	ts.writeFile(t, "rules.yaml", testRules)
	ts.writeFile(t, "login.js", `
step("login", function () {
	page.goto("https://example.com/login");
	expect(page.locator("h1")).toHaveText("Willkommen");
});
`)
	ts.engine.Texts["h1"] = "Willkommen"
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, exitNotCalled, ts.exitCode, ts.stderr.String())
	out := ts.stdout.String()
	assert.Contains(t, out, "✓ login")
	assert.Contains(t, out, "Open https://example.com/login")
	assert.NotContains(t, out, "failed")

	goTo, ok := ts.engine.Last("Goto")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/login", goTo.Args[0])
	_, ok = ts.engine.Last("Close")
	assert.True(t, ok, "the browser is closed after the run")
}

func TestRunFailedExpectation(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "run", "--config", "rules.yaml", "--expect-timeout", "50ms", "login.js")
	ts.writeFile(t, "rules.yaml", testRules)
	ts.writeFile(t, "login.js", `expect(page.locator("h1")).toHaveText("Willkommen");`)
	ts.engine.Texts["h1"] = "Fehler"
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, int(exitcodes.StepFailed), ts.exitCode)
	assert.Contains(t, ts.stdout.String(), "✗")
	assert.Contains(t, ts.stdout.String(), "1 failed")
	assert.Contains(t, ts.stderr.String(), "ToHaveText")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		args     []string
		script   string
		browser  error
		exitCode exitcodes.ExitCode
	}{
		{
			name:     "missing script",
			args:     []string{"run", "missing.js"},
			exitCode: exitcodes.InvalidConfig,
		},
		{
			name:     "invalid traces output",
			args:     []string{"run", "--traces-output", "jaeger", "test.js"},
			script:   `1`,
			exitCode: exitcodes.InvalidConfig,
		},
		{
			name:     "script exception",
			args:     []string{"run", "test.js"},
			script:   `throw new Error("kaputt")`,
			exitCode: exitcodes.ScriptException,
		},
		{
			name:     "no browser context",
			args:     []string{"run", "test.js"},
			script:   `1`,
			browser:  errors.New("no more contexts"),
			exitCode: exitcodes.BrowserUnavailable,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t, tc.args...)
			if tc.script != "" {
				ts.writeFile(t, "test.js", tc.script)
			}
			if tc.browser != nil {
				ts.engine.Errors["browser.NewContext"] = tc.browser
			}
			ExecuteWithGlobalState(ts.GlobalState)

			assert.Equal(t, int(tc.exitCode), ts.exitCode, ts.stderr.String())
		})
	}
}

func TestRunArgs(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "run")
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, -1, ts.exitCode)
	assert.Contains(t, ts.stderr.String(), "arg should be the path of a script file")
}
