package intercept_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	null "gopkg.in/guregu/null.v3"

	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/internal/browsertest"
)

func TestDefaultNames(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	ctx := wrapperOf(t, callOne(t, f.browser, "NewContext", nil))
	page := wrapperOf(t, callOne(t, ctx, "NewPage"))
	req := wrapperOf(t, callOne(t, page, "Request"))
	loc := wrapperOf(t, callOne(t, page, "GetByRole", "button", nil))

	assert.Equal(t, "chromium", f.browser.Name())
	assert.Equal(t, "context", ctx.Name())
	assert.Equal(t, "page", page.Name())
	assert.Equal(t, "request", req.Name())
	assert.Equal(t, "getByRole('button')", loc.Name())
	assert.Equal(t, "page", page.String())
}

func TestDefaultBrowserName(t *testing.T) {
	t.Parallel()

	s := intercept.NewSession(intercept.Config{})
	w := s.WrapAs(browsertest.New().Browser(""), intercept.KindBrowser)
	assert.Equal(t, "browser", w.Name())
}

func TestDescribeOverwrites(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	page := f.page(t)

	assert.Same(t, page, page.Describe("Startseite"))
	assert.Equal(t, "Startseite", page.Name())
	page.Describe("")
	assert.Equal(t, "", page.Name())
}

func TestLocatorNameChaining(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	page := f.page(t)

	form := wrapperOf(t, callOne(t, page, "Locator", "#form", nil))
	_, hasParent := form.ParentName()
	assert.False(t, hasParent, "a locator from a page has no parent")
	assert.Equal(t, "#form", form.Name())

	form.Describe("Formular")
	assert.Equal(t, "Formular", form.Name())

	field := wrapperOf(t, callOne(t, form, "Locator", "input", nil))
	parent, hasParent := field.ParentName()
	require.True(t, hasParent)
	assert.Equal(t, "Formular", parent)
	assert.Equal(t, "Formular", field.Name(), "an undescribed child collapses to the parent name")

	field.Describe("Textfeld")
	assert.Equal(t, "Formular > Textfeld", field.Name())

	field.Describe("")
	assert.Equal(t, "Formular", field.Name())
}

func TestLocatorNameChainingPushesIntoRaw(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	form := wrapperOf(t, callOne(t, f.page(t), "Locator", "#form", nil))
	form.Describe("Formular")
	field := wrapperOf(t, callOne(t, form, "GetByLabel", "Name"))
	field.Describe("Textfeld")

	raw, ok := field.Raw().(*browsertest.Locator)
	require.True(t, ok)
	assert.Equal(t, "Formular > Textfeld", raw.Description())
	assert.Equal(t, "#form >> getByLabel('Name')", raw.Selector())

	last, ok := f.engine.Last("Describe")
	require.True(t, ok)
	assert.Equal(t, []any{"Formular > Textfeld"}, last.Args)
}

func TestLocatorParentNameIsCapturedAtDerivation(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	form := wrapperOf(t, callOne(t, f.page(t), "Locator", "#form", nil))
	form.Describe("Formular")
	field := wrapperOf(t, callOne(t, form, "Locator", "input", nil))

	form.Describe("Anmeldung")
	field.Describe("Textfeld")
	assert.Equal(t, "Formular > Textfeld", field.Name())
}

func TestLocatorNoChain(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{ChainLocatorNames: null.BoolFrom(false)})
	form := wrapperOf(t, callOne(t, f.page(t), "Locator", "#form", nil))
	form.Describe("Formular")
	field := wrapperOf(t, callOne(t, form, "Locator", "input", nil))

	assert.Equal(t, "#form >> input", field.Name())
	field.Describe("Textfeld")
	assert.Equal(t, "Textfeld", field.Name())
	field.Describe("")
	assert.Equal(t, "#form >> input", field.Name())

	_, described := f.engine.Last("Describe")
	assert.False(t, described, "names are not pushed into raw locators without chaining")
}

func TestDescribeThroughCall(t *testing.T) {
	t.Parallel()

	f := newFixture(t, intercept.Config{})
	page := f.page(t)

	out, err := page.Call("Describe", "Kasse")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Same(t, page, out[0])

	name, err := page.Call("Name")
	require.NoError(t, err)
	assert.Equal(t, []any{"Kasse"}, name)

	_, err = page.Call("Describe", 1)
	require.ErrorIs(t, err, intercept.ErrArgument)
}

func TestRootLocatorRoundTrip(t *testing.T) {
	t.Parallel()

	e := browsertest.New()
	b := e.Browser("chromium")
	p, err := b.NewPage(nil)
	require.NoError(t, err)
	raw := p.Locator("#a", nil)

	s := intercept.NewSession(intercept.Config{})
	w := s.WrapAs(raw, intercept.KindLocator)
	assert.Same(t, raw, w.Raw())
}
