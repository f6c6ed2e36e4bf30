package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	null "gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/internal/browsertest"
)

type titles struct {
	mu  sync.Mutex
	got []string
}

func (ts *titles) stepper() intercept.Stepper {
	return intercept.StepperFunc(func(title string, _ *intercept.Location, body func() ([]any, error)) ([]any, error) {
		ts.mu.Lock()
		ts.got = append(ts.got, title)
		ts.mu.Unlock()
		return body()
	})
}

func (ts *titles) all() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.got...)
}

func rules() map[intercept.Kind]intercept.Logs {
	return map[intercept.Kind]intercept.Logs{
		intercept.KindPage: {
			"Goto": func(name string, args ...any) string { return fmt.Sprintf("%s: open %v", name, args[0]) },
		},
		intercept.KindLocator: {
			"Fill":  func(name string, args ...any) string { return fmt.Sprintf("%s: fill in %q", name, args[0]) },
			"Click": func(name string, _ ...any) string { return name + ": click" },
		},
	}
}

func TestTypedChain(t *testing.T) {
	t.Parallel()

	var (
		ts     = &titles{}
		engine = browsertest.New()
		b      = New(engine.Browser("chromium"), Options{
			Config:  intercept.Config{Logs: rules()},
			Stepper: ts.stepper(),
		})
	)
	assert.Equal(t, "chromium", b.Name())

	page, err := b.NewPage(nil)
	require.NoError(t, err)
	require.IsType(t, &Page{}, page)
	require.NoError(t, page.Goto("https://shop.example", nil))

	form := page.Locator("#form", nil).Describe("Formular")
	field := form.GetByLabel("Name").Describe("Textfeld")
	require.NoError(t, field.Fill("Erika"))
	require.NoError(t, form.GetByRole("button", &api.GetByRoleOptions{Name: "Senden"}).Click(nil))

	assert.Equal(t, []string{
		"page: open https://shop.example",
		`Formular > Textfeld: fill in "Erika"`,
		"Formular: click",
	}, ts.all())
	assert.Equal(t, "Formular > Textfeld", field.String())

	value, err := field.InputValue()
	require.NoError(t, err)
	assert.Equal(t, "Erika", value)
}

func TestTypedChainWithoutNameChaining(t *testing.T) {
	t.Parallel()

	ts := &titles{}
	page := NewPage(mustPage(t, browsertest.New()), Options{
		Config: intercept.Config{
			Logs:              rules(),
			ChainLocatorNames: null.BoolFrom(false),
		},
		Stepper: ts.stepper(),
	})

	field := page.Locator("#form", nil).Describe("Formular").Locator("input", nil).Describe("Textfeld")
	require.NoError(t, field.Fill("x"))
	assert.Equal(t, []string{`Textfeld: fill in "x"`}, ts.all())
}

func TestFacadesUnwrapNestedLocators(t *testing.T) {
	t.Parallel()

	engine := browsertest.New()
	page := NewPage(mustPage(t, engine), Options{})
	item := page.GetByText("Milch", nil)
	opts := &api.FilterOptions{Has: item}

	filtered := page.Locator("li", nil).Filter(opts)
	require.IsType(t, &Locator{}, filtered)

	last, ok := engine.Last("Filter")
	require.True(t, ok)
	got, ok := last.Args[0].(*api.FilterOptions)
	require.True(t, ok)
	assert.IsType(t, &browsertest.Locator{}, got.Has)
	assert.Same(t, item, opts.Has)
	assert.Equal(t, `li >> internal:has='getByText(\'Milch\')'`,
		filtered.(*Locator).Raw().(*browsertest.Locator).Selector())
}

func TestFacadesKeepNilLocators(t *testing.T) {
	t.Parallel()

	engine := browsertest.New()
	page := NewPage(mustPage(t, engine), Options{})
	item := page.GetByText("Milch", nil)
	var none *Locator

	assert.Equal(t, intercept.KindNone, intercept.Classify(none))

	var out []any
	require.NotPanics(t, func() {
		out = intercept.Sanitize([]any{&api.FilterOptions{Has: item, HasNot: none}})
	})
	got, ok := out[0].(*api.FilterOptions)
	require.True(t, ok)
	assert.IsType(t, &browsertest.Locator{}, got.Has)
	assert.Equal(t, api.Locator(none), got.HasNot)
}

func TestFacadeLists(t *testing.T) {
	t.Parallel()

	engine := browsertest.New()
	engine.Counts["li"] = 3
	page := NewPage(mustPage(t, engine), Options{})

	all, err := page.Locator("li", nil).All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, l := range all {
		require.IsType(t, &Locator{}, l)
		assert.Equal(t, "li", l.String(), "item %d collapses to the parent name", i)
	}

	ctx := page.Context()
	require.IsType(t, &Context{}, ctx)
	pages := ctx.Pages()
	require.Len(t, pages, 1)
	assert.IsType(t, &Page{}, pages[0])
}

func TestFacadePending(t *testing.T) {
	t.Parallel()

	c, err := browsertest.New().Browser("chromium").NewContext(nil)
	require.NoError(t, err)
	ctx := NewContext(c, Options{})

	waiting := ctx.WaitForPage()
	_, err = ctx.NewPage()
	require.NoError(t, err)

	v, err := waiting.Await(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &Page{}, v)
}

func TestFacadeRequest(t *testing.T) {
	t.Parallel()

	engine := browsertest.New()
	engine.Responses["https://api.example/health"] = &browsertest.Response{StatusCode: 204}
	req := NewRequest(engine.NewRequest(), Options{}).Describe("api")
	assert.Equal(t, "api", req.Name())

	resp, err := req.Get("https://api.example/health", nil)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status())
	assert.IsType(t, &browsertest.Response{}, resp)
}

func TestFacadePanicsWithCallError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	page := NewPage(mustPage(t, browsertest.New()), Options{
		Config: intercept.Config{Extensions: map[intercept.Kind]intercept.Extensions{
			intercept.KindPage: {
				"URL": func(*intercept.Wrapper, ...any) ([]any, error) { return nil, boom },
			},
		}},
	})

	defer func() {
		r := recover()
		cerr, ok := r.(*CallError)
		require.True(t, ok, "recovered %v", r)
		assert.ErrorIs(t, cerr, boom)
		assert.Equal(t, "page.URL: boom", cerr.Error())
	}()
	_ = page.URL()
	t.Fatal("URL did not panic")
}

func TestCallError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "page.Title"},
		{errors.New("closed"), "page.Title: closed"},
		{fmt.Errorf("waiting: %w", context.DeadlineExceeded), "page.Title: waiting: timed out"},
		{context.Canceled, "page.Title: canceled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, (&CallError{Method: "page.Title", Err: tt.err}).Error())
	}
}

func TestRootOfFacade(t *testing.T) {
	t.Parallel()

	page := NewPage(mustPage(t, browsertest.New()), Options{})
	assert.Same(t, page, NewPage(page, Options{}))
}

func mustPage(t *testing.T, e *browsertest.Engine) api.Page {
	t.Helper()

	p, err := e.Browser("chromium").NewPage(nil)
	require.NoError(t, err)
	return p
}
