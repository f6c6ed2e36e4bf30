package chromium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/api"
)

func TestLocatorString(t *testing.T) {
	t.Parallel()

	p := &Page{}
	testCases := []struct {
		name string
		loc  api.Locator
		want string
	}{
		{
			name: "css",
			loc:  p.Locator("#form", nil),
			want: "locator('#form')",
		},
		{
			name: "role with name",
			loc:  p.GetByRole("button", &api.GetByRoleOptions{Name: "click me"}),
			want: "getByRole('button', { name: 'click me' })",
		},
		{
			name: "role exact",
			loc:  p.GetByRole("link", &api.GetByRoleOptions{Name: "Home", Exact: true}),
			want: "getByRole('link', { name: 'Home', exact: true })",
		},
		{
			name: "bare role",
			loc:  p.GetByRole("dialog", nil),
			want: "getByRole('dialog')",
		},
		{
			name: "chain",
			loc:  p.Locator("form", nil).GetByLabel("E-Mail").First(),
			want: "locator('form').getByLabel('E-Mail').first()",
		},
		{
			name: "text and index",
			loc:  p.GetByText("Weiter", &api.GetByTextOptions{Exact: true}).Nth(2).Last(),
			want: "getByText('Weiter', { exact: true }).nth(2).last()",
		},
		{
			name: "quotes",
			loc:  p.GetByTestID(`it's \ here`),
			want: `getByTestId('it\'s \\ here')`,
		},
		{
			name: "filter",
			loc: p.Locator("li", nil).Filter(&api.FilterOptions{
				HasText: "Milch",
				Has:     p.GetByRole("checkbox", nil),
			}),
			want: "locator('li').filter({ hasText: 'Milch', has: getByRole('checkbox') })",
		},
		{
			name: "locator options",
			loc:  p.Locator("li", &api.LocatorOptions{HasText: "Brot"}),
			want: "locator('li').filter({ hasText: 'Brot' })",
		},
		{
			name: "or",
			loc:  p.GetByRole("button", nil).Or(p.GetByRole("link", nil)),
			want: "getByRole('button').or(getByRole('link'))",
		},
		{
			name: "description",
			loc:  p.Locator("#save", nil).Describe("Speichern"),
			want: "Speichern",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.loc.String())
		})
	}
}

func TestLocatorIsImmutable(t *testing.T) {
	t.Parallel()

	p := &Page{}
	base := p.Locator("ul", nil)
	first := base.First()
	described := base.Describe("Liste")

	assert.Equal(t, "locator('ul')", base.String())
	assert.Equal(t, "locator('ul').first()", first.String())
	assert.Equal(t, "Liste", described.String())
	assert.Equal(t, "locator('ul')", described.(*Locator).Selector())
	assert.Same(t, p, described.Page())
}

func TestLocatorCombineErrors(t *testing.T) {
	t.Parallel()

	p, other := &Page{}, &Page{}
	loc := p.Locator("a", nil).And(other.Locator("b", nil))
	require.Error(t, loc.(*Locator).err)

	_, err := loc.Count()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another page")
}

func TestKeyOf(t *testing.T) {
	t.Parallel()

	k, err := keyOf("Enter")
	require.NoError(t, err)
	assert.Equal(t, namedKeys["Enter"], k)

	k, err = keyOf("a")
	require.NoError(t, err)
	assert.Equal(t, 'a', rune(k))

	_, err = keyOf("ä")
	require.Error(t, err)
	_, err = keyOf("Hyper")
	require.Error(t, err)
}
