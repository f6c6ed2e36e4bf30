// Package state holds what every steplog command shares: the environment,
// the file system and the console.
package state

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/config"
	"github.com/liuxd6825/steplog/ui/console"
)

// BrowserFunc returns the browser a script runs against.
type BrowserFunc func(ctx context.Context, conf config.Config, logger logrus.FieldLogger) (api.Browser, error)

// GlobalState contains the GlobalOptions and accessors for most of the global
// process-external state like CLI arguments, env vars, standard input, output
// and error, etc. In practice, most of it is normally accessed through the `os`
// package from the Go stdlib.
//
// We group them here so we can prevent direct access to them from the rest of
// the steplog codebase. This gives us the ability to mock them and have robust and
// easy-to-write integration-like tests to check the steplog end-to-end behavior in
// any simulated conditions.
type GlobalState struct {
	Ctx context.Context

	FS         afero.Fs
	Getwd      func() (string, error)
	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalOptions

	Console *console.Console
	Logger  *logrus.Logger

	// NewBrowser overrides how run obtains its browser. Nil means Chromium.
	NewBrowser BrowserFunc

	SignalNotify func(chan<- os.Signal, ...os.Signal)
	SignalStop   func(chan<- os.Signal)
	OSExit       func(int)
}

// NewGlobalState returns a new GlobalState with the given ctx.
// Ideally, this should be the only function in the whole codebase where we use
// global variables and functions from the os package. Anywhere else, things
// like os.Stdout, os.Stderr, os.Stdin, os.Getenv(), etc. should be removed and
// the respective properties of globalState used instead.
func NewGlobalState(ctx context.Context) *GlobalState {
	env := BuildEnvMap(os.Environ())
	defaultFlags := GetDefaultGlobalOptions()
	globalFlags := consolidateGlobalFlags(defaultFlags, env)

	con := console.New(os.Stdout, os.Stderr, !globalFlags.NoColor, env["TERM"])

	binary, err := os.Executable()
	if err != nil {
		binary = "steplog"
	}

	return &GlobalState{
		Ctx:          ctx,
		FS:           afero.NewOsFs(),
		Getwd:        os.Getwd,
		BinaryName:   filepath.Base(binary),
		CmdArgs:      os.Args,
		Env:          env,
		DefaultFlags: defaultFlags,
		Flags:        globalFlags,
		Console:      con,
		Logger:       con.GetLogger(),
		SignalNotify: signal.Notify,
		SignalStop:   signal.Stop,
		OSExit:       os.Exit,
	}
}

// BuildEnvMap returns a map from raw environment variable pairs.
func BuildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}

func parseEnvKeyValue(kv string) (string, string) {
	if idx := strings.IndexRune(kv, '='); idx != -1 {
		return kv[:idx], kv[idx+1:]
	}
	return kv, ""
}
