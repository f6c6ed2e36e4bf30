package intercept

import (
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/log"
)

// FacadeFunc builds the typed façade handed out for a wrapper of one kind.
type FacadeFunc func(w *Wrapper) Wrapped

// Session holds what every wrapper derived from one root shares by
// reference. It is immutable after NewSession returns.
type Session struct {
	logs       map[Kind]Logs
	extensions map[Kind]Extensions
	chain      bool
	facades    map[Kind]FacadeFunc
	stepper    Stepper
	callSite   func() *Location
	logger     logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithStepper sets the step collaborator. Defaults to Direct.
func WithStepper(s Stepper) Option {
	return func(sess *Session) {
		if s != nil {
			sess.stepper = s
		}
	}
}

// WithFacade registers the façade built for wrappers of kind k.
func WithFacade(k Kind, f FacadeFunc) Option {
	return func(sess *Session) {
		sess.facades[k] = f
	}
}

// WithCallSite replaces CallerLocation as the source of step locations.
func WithCallSite(f func() *Location) Option {
	return func(sess *Session) {
		if f != nil {
			sess.callSite = f
		}
	}
}

// WithLogger sets the logger used for debug output of intercepted calls.
func WithLogger(l logrus.FieldLogger) Option {
	return func(sess *Session) {
		if l != nil {
			sess.logger = l
		}
	}
}

// NewSession copies cfg and returns the session wrappers will share.
func NewSession(cfg Config, opts ...Option) *Session {
	s := &Session{
		logs:       cfg.logs(),
		extensions: cfg.extensions(),
		chain:      cfg.chainLocatorNames(),
		facades:    make(map[Kind]FacadeFunc),
		stepper:    Direct,
		callSite:   CallerLocation,
		logger:     log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChainLocatorNames reports whether derived locator names are composed.
func (s *Session) ChainLocatorNames() bool { return s.chain }

// Stepper returns the step collaborator of the session.
func (s *Session) Stepper() Stepper { return s.stepper }

// CallSite returns the location steps started now are attributed to.
func (s *Session) CallSite() *Location { return s.callSite() }

// Wrap wraps raw if it is a handle of a known kind, and returns the façade
// registered for that kind. Anything else is normalized and returned.
func (s *Session) Wrap(raw any) any {
	return s.normalize(raw, nil)
}

// WrapAs wraps raw as a handle of kind k without classifying it.
// Wrapping a wrapper returns the wrapper unchanged.
func (s *Session) WrapAs(raw any, k Kind) *Wrapper {
	if w := WrapperOf(raw); w != nil {
		return w
	}
	return newWrapper(s, raw, k, nil)
}

func (s *Session) rule(k Kind, method string) LogFunc {
	return s.logs[k][method]
}

func (s *Session) extension(k Kind, method string) Extension {
	return s.extensions[k][method]
}
