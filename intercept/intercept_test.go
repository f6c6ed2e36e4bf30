package intercept_test

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/internal/browsertest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type step struct {
	title string
	loc   *intercept.Location
}

// stepRecorder is a Stepper remembering every step it ran.
type stepRecorder struct {
	mu    sync.Mutex
	steps []step
}

func (r *stepRecorder) Step(title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
	r.mu.Lock()
	r.steps = append(r.steps, step{title: title, loc: loc})
	r.mu.Unlock()
	return body()
}

func (r *stepRecorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.title
	}
	return out
}

type fixture struct {
	engine  *browsertest.Engine
	steps   *stepRecorder
	session *intercept.Session
	browser *intercept.Wrapper
}

func newFixture(t *testing.T, cfg intercept.Config) *fixture {
	t.Helper()

	f := &fixture{
		engine: browsertest.New(),
		steps:  &stepRecorder{},
	}
	f.session = intercept.NewSession(cfg, intercept.WithStepper(f.steps))
	f.browser = f.session.WrapAs(f.engine.Browser("chromium"), intercept.KindBrowser)
	return f
}

// page opens a page through the wrapped browser and returns its wrapper.
func (f *fixture) page(t *testing.T) *intercept.Wrapper {
	t.Helper()

	return wrapperOf(t, callOne(t, f.browser, "NewPage", nil))
}

func callOne(t *testing.T, w *intercept.Wrapper, method string, args ...any) any {
	t.Helper()

	out, err := w.Call(method, args...)
	if err != nil {
		t.Fatalf("%s: %v", method, err)
	}
	if len(out) != 1 {
		t.Fatalf("%s: got %d results", method, len(out))
	}
	return out[0]
}

func wrapperOf(t *testing.T, v any) *intercept.Wrapper {
	t.Helper()

	w, ok := v.(intercept.Wrapped)
	if !ok {
		t.Fatalf("%T is not wrapped", v)
	}
	return w.Interceptor()
}
