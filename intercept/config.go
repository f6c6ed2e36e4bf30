package intercept

import (
	null "gopkg.in/guregu/null.v3"
)

// LogFunc builds a step title from the wrapper's current display name and the
// arguments of the call, before any unwrapping.
type LogFunc func(name string, args ...any) string

// Logs maps method names to step title builders.
type Logs map[string]LogFunc

// Extension is a method added to a handle kind. It receives the wrapper, not
// the raw handle, so calls it makes are intercepted too.
type Extension func(w *Wrapper, args ...any) ([]any, error)

// Extensions maps method names to extensions.
type Extensions map[string]Extension

// Config is the configuration shared by every wrapper derived from one root.
type Config struct {
	Logs       map[Kind]Logs
	Extensions map[Kind]Extensions
	// ChainLocatorNames composes the names of derived locators from their
	// parent's name. Defaults to true.
	ChainLocatorNames null.Bool
}

func (c Config) chainLocatorNames() bool {
	return !c.ChainLocatorNames.Valid || c.ChainLocatorNames.Bool
}

func (c Config) logs() map[Kind]Logs {
	out := make(map[Kind]Logs, len(c.Logs))
	for k, logs := range c.Logs {
		cp := make(Logs, len(logs))
		for m, fn := range logs {
			if fn != nil {
				cp[m] = fn
			}
		}
		out[k] = cp
	}
	return out
}

func (c Config) extensions() map[Kind]Extensions {
	out := make(map[Kind]Extensions, len(c.Extensions))
	for k, exts := range c.Extensions {
		cp := make(Extensions, len(exts))
		for m, fn := range exts {
			if fn != nil {
				cp[m] = fn
			}
		}
		out[k] = cp
	}
	return out
}
