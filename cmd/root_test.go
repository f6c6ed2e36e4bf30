package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/cmd/state"
	"github.com/liuxd6825/steplog/config"
	"github.com/liuxd6825/steplog/errext/exitcodes"
	"github.com/liuxd6825/steplog/internal/browsertest"
	"github.com/liuxd6825/steplog/ui/console"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type bufferFile struct {
	mu sync.Mutex
	bytes.Buffer
}

func (f *bufferFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Buffer.Write(p)
}

func (f *bufferFile) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Buffer.String()
}

// Fd returns an invalid descriptor, so the buffer is never a terminal.
func (*bufferFile) Fd() uintptr { return ^uintptr(0) }

type globalTestState struct {
	*state.GlobalState
	stdout, stderr *bufferFile
	engine         *browsertest.Engine
	exitCode       int
}

const exitNotCalled = -100

func newGlobalTestState(t *testing.T, args ...string) *globalTestState {
	t.Helper()

	ts := &globalTestState{
		stdout:   &bufferFile{},
		stderr:   &bufferFile{},
		engine:   browsertest.New(),
		exitCode: exitNotCalled,
	}
	con := console.New(ts.stdout, ts.stderr, false, "")
	logger := con.GetLogger()
	logger.SetLevel(logrus.InfoLevel)

	defaultFlags := state.GetDefaultGlobalOptions()
	ts.GlobalState = &state.GlobalState{
		Ctx:          context.Background(),
		FS:           afero.NewMemMapFs(),
		Getwd:        func() (string, error) { return "/", nil },
		BinaryName:   "steplog",
		CmdArgs:      append([]string{"steplog"}, args...),
		Env:          map[string]string{},
		DefaultFlags: defaultFlags,
		Flags:        defaultFlags,
		Console:      con,
		Logger:       logger,
		NewBrowser: func(context.Context, config.Config, logrus.FieldLogger) (api.Browser, error) {
			return ts.engine.Browser("chromium"), nil
		},
		SignalNotify: func(chan<- os.Signal, ...os.Signal) {},
		SignalStop:   func(chan<- os.Signal) {},
		OSExit:       func(code int) { ts.exitCode = code },
	}
	return ts
}

func (ts *globalTestState) writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(ts.FS, name, []byte(content), 0o644))
}

const testRules = `
logs:
  page:
    goto: "Open {{arg 0}}"
expect:
  toHaveText: "{{.Subject}} has text {{quote (arg 0)}}"
`

func TestVersion(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "version")
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, exitNotCalled, ts.exitCode)
	assert.Contains(t, ts.stdout.String(), "steplog 0.1.0")
}

func TestVersionJSON(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "version", "--json")
	ExecuteWithGlobalState(ts.GlobalState)

	var details map[string]string
	require.NoError(t, json.Unmarshal(ts.stdout.Bytes(), &details))
	assert.Equal(t, "v0.1.0", details["version"])
	assert.NotEmpty(t, details["go_version"])
}

func TestRules(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "rules", "--config", "rules.yaml")
	ts.writeFile(t, "rules.yaml", testRules)
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, exitNotCalled, ts.exitCode)
	out := ts.stdout.String()
	assert.Contains(t, out, "SCOPE")
	assert.Contains(t, out, "Open {{arg 0}}")
	assert.Contains(t, out, "ToHaveText")
}

func TestRulesYAML(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "rules", "--yaml")
	ts.Env[config.EnvConfigPath] = "rules.yaml"
	ts.writeFile(t, "rules.yaml", testRules)
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, exitNotCalled, ts.exitCode)
	assert.Contains(t, ts.stdout.String(), "goto: Open {{arg 0}}")
}

func TestRulesInvalid(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"broken template": "logs:\n  page:\n    goto: \"{{arg 0\"\n",
		"unknown key":     "loggs: {}\n",
	}
	for name, content := range testCases {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ts := newGlobalTestState(t, "rules", "--config", "rules.yaml")
			ts.writeFile(t, "rules.yaml", content)
			ExecuteWithGlobalState(ts.GlobalState)

			assert.Equal(t, int(exitcodes.InvalidConfig), ts.exitCode)
		})
	}
}

func TestRulesMissingFile(t *testing.T) {
	t.Parallel()

	ts := newGlobalTestState(t, "rules", "--config", "nope.yaml")
	ExecuteWithGlobalState(ts.GlobalState)

	assert.Equal(t, int(exitcodes.InvalidConfig), ts.exitCode)
	assert.Contains(t, ts.stderr.String(), "nope.yaml")
}
