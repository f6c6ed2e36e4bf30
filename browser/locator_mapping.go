package browser

import (
	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/intercept"
)

// Locator is the intercepted api.Locator. Locators derived from it remember
// its display name, see intercept.Wrapper.Describe.
type Locator struct {
	*intercept.Wrapper
}

var _ api.Locator = &Locator{}

// Describe sets the display name and returns l.
func (l *Locator) Describe(text string) api.Locator {
	l.Wrapper.Describe(text)
	return l
}

// All implements api.Locator.
func (l *Locator) All() ([]api.Locator, error) { return call1[[]api.Locator](l.Wrapper, "All") }

// And implements api.Locator.
func (l *Locator) And(other api.Locator) api.Locator {
	return must1[api.Locator](l.Wrapper, "And", other)
}

// Check implements api.Locator.
func (l *Locator) Check() error { return call(l.Wrapper, "Check") }

// Click implements api.Locator.
func (l *Locator) Click(opts *api.ClickOptions) error { return call(l.Wrapper, "Click", opts) }

// Count implements api.Locator.
func (l *Locator) Count() (int, error) { return call1[int](l.Wrapper, "Count") }

// Dblclick implements api.Locator.
func (l *Locator) Dblclick() error { return call(l.Wrapper, "Dblclick") }

// Fill implements api.Locator.
func (l *Locator) Fill(value string) error { return call(l.Wrapper, "Fill", value) }

// Filter implements api.Locator.
func (l *Locator) Filter(opts *api.FilterOptions) api.Locator {
	return must1[api.Locator](l.Wrapper, "Filter", opts)
}

// First implements api.Locator.
func (l *Locator) First() api.Locator { return must1[api.Locator](l.Wrapper, "First") }

// Focus implements api.Locator.
func (l *Locator) Focus() error { return call(l.Wrapper, "Focus") }

// GetAttribute implements api.Locator.
func (l *Locator) GetAttribute(name string) (string, error) {
	return call1[string](l.Wrapper, "GetAttribute", name)
}

// GetByLabel implements api.Locator.
func (l *Locator) GetByLabel(text string) api.Locator {
	return must1[api.Locator](l.Wrapper, "GetByLabel", text)
}

// GetByRole implements api.Locator.
func (l *Locator) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	return must1[api.Locator](l.Wrapper, "GetByRole", role, opts)
}

// GetByTestID implements api.Locator.
func (l *Locator) GetByTestID(testID string) api.Locator {
	return must1[api.Locator](l.Wrapper, "GetByTestID", testID)
}

// GetByText implements api.Locator.
func (l *Locator) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	return must1[api.Locator](l.Wrapper, "GetByText", text, opts)
}

// Hover implements api.Locator.
func (l *Locator) Hover() error { return call(l.Wrapper, "Hover") }

// InnerText implements api.Locator.
func (l *Locator) InnerText() (string, error) { return call1[string](l.Wrapper, "InnerText") }

// InputValue implements api.Locator.
func (l *Locator) InputValue() (string, error) { return call1[string](l.Wrapper, "InputValue") }

// IsChecked implements api.Locator.
func (l *Locator) IsChecked() (bool, error) { return call1[bool](l.Wrapper, "IsChecked") }

// IsEnabled implements api.Locator.
func (l *Locator) IsEnabled() (bool, error) { return call1[bool](l.Wrapper, "IsEnabled") }

// IsVisible implements api.Locator.
func (l *Locator) IsVisible() (bool, error) { return call1[bool](l.Wrapper, "IsVisible") }

// Last implements api.Locator.
func (l *Locator) Last() api.Locator { return must1[api.Locator](l.Wrapper, "Last") }

// Locator implements api.Locator.
func (l *Locator) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	return must1[api.Locator](l.Wrapper, "Locator", selector, opts)
}

// Nth implements api.Locator.
func (l *Locator) Nth(index int) api.Locator { return must1[api.Locator](l.Wrapper, "Nth", index) }

// Or implements api.Locator.
func (l *Locator) Or(other api.Locator) api.Locator {
	return must1[api.Locator](l.Wrapper, "Or", other)
}

// Page implements api.Locator.
func (l *Locator) Page() api.Page { return must1[api.Page](l.Wrapper, "Page") }

// Press implements api.Locator.
func (l *Locator) Press(key string) error { return call(l.Wrapper, "Press", key) }

// TextContent implements api.Locator.
func (l *Locator) TextContent() (string, error) { return call1[string](l.Wrapper, "TextContent") }

// Uncheck implements api.Locator.
func (l *Locator) Uncheck() error { return call(l.Wrapper, "Uncheck") }
