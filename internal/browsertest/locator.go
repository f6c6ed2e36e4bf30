package browsertest

import (
	"fmt"
	"strings"

	"github.com/liuxd6825/steplog/api"
)

// Locator is an in-memory api.Locator. Its selector doubles as the key into
// the engine's element state.
type Locator struct {
	page        *Page
	selector    string
	description string
}

var _ api.Locator = &Locator{}

// Selector returns the locator's selector chain.
func (l *Locator) Selector() string { return l.selector }

// Description returns the description set through Describe.
func (l *Locator) Description() string { return l.description }

func (l *Locator) record(method string, args ...any) error {
	return l.page.engine.record("locator("+l.selector+")", method, args...)
}

func (l *Locator) child(selector string) *Locator {
	return &Locator{page: l.page, selector: l.selector + " >> " + selector}
}

// All implements api.Locator.
func (l *Locator) All() ([]api.Locator, error) {
	if err := l.record("All"); err != nil {
		return nil, err
	}
	n := l.page.engine.count(l.selector)
	out := make([]api.Locator, n)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

// And implements api.Locator.
func (l *Locator) And(other api.Locator) api.Locator {
	_ = l.record("And", other)
	return &Locator{page: l.page, selector: l.selector + " >> internal:and=" + selectorOf(other)}
}

// Check implements api.Locator.
func (l *Locator) Check() error { return l.record("Check") }

// Click implements api.Locator.
func (l *Locator) Click(opts *api.ClickOptions) error { return l.record("Click", opts) }

// Count implements api.Locator.
func (l *Locator) Count() (int, error) {
	if err := l.record("Count"); err != nil {
		return 0, err
	}
	return l.page.engine.count(l.selector), nil
}

// Dblclick implements api.Locator.
func (l *Locator) Dblclick() error { return l.record("Dblclick") }

// Describe implements api.Locator.
func (l *Locator) Describe(description string) api.Locator {
	_ = l.record("Describe", description)
	return &Locator{page: l.page, selector: l.selector, description: description}
}

// Fill implements api.Locator.
func (l *Locator) Fill(value string) error {
	if err := l.record("Fill", value); err != nil {
		return err
	}
	l.page.setValue(l.selector, value)
	return nil
}

// Filter implements api.Locator.
func (l *Locator) Filter(opts *api.FilterOptions) api.Locator {
	_ = l.record("Filter", opts)
	var parts []string
	if opts != nil {
		if opts.HasText != "" {
			parts = append(parts, "internal:has-text="+quote(opts.HasText))
		}
		if opts.HasNotText != "" {
			parts = append(parts, "internal:has-not-text="+quote(opts.HasNotText))
		}
		if opts.Has != nil {
			parts = append(parts, "internal:has="+quote(selectorOf(opts.Has)))
		}
		if opts.HasNot != nil {
			parts = append(parts, "internal:has-not="+quote(selectorOf(opts.HasNot)))
		}
	}
	if len(parts) == 0 {
		return &Locator{page: l.page, selector: l.selector}
	}
	return l.child(strings.Join(parts, " >> "))
}

// First implements api.Locator.
func (l *Locator) First() api.Locator { return l.child("nth=0") }

// Focus implements api.Locator.
func (l *Locator) Focus() error { return l.record("Focus") }

// GetAttribute implements api.Locator.
func (l *Locator) GetAttribute(name string) (string, error) {
	if err := l.record("GetAttribute", name); err != nil {
		return "", err
	}
	return l.page.engine.attribute(l.selector, name), nil
}

// GetByLabel implements api.Locator.
func (l *Locator) GetByLabel(text string) api.Locator {
	return l.child(GetByLabelSelector(text))
}

// GetByRole implements api.Locator.
func (l *Locator) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	return l.child(GetByRoleSelector(role, opts))
}

// GetByTestID implements api.Locator.
func (l *Locator) GetByTestID(testID string) api.Locator {
	return l.child(GetByTestIDSelector(testID))
}

// GetByText implements api.Locator.
func (l *Locator) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	return l.child(GetByTextSelector(text, opts))
}

// Hover implements api.Locator.
func (l *Locator) Hover() error { return l.record("Hover") }

// InnerText implements api.Locator.
func (l *Locator) InnerText() (string, error) {
	if err := l.record("InnerText"); err != nil {
		return "", err
	}
	return l.page.engine.text(l.selector), nil
}

// InputValue implements api.Locator.
func (l *Locator) InputValue() (string, error) {
	if err := l.record("InputValue"); err != nil {
		return "", err
	}
	return l.page.value(l.selector), nil
}

// IsChecked implements api.Locator.
func (l *Locator) IsChecked() (bool, error) {
	if err := l.record("IsChecked"); err != nil {
		return false, err
	}
	return l.page.engine.attribute(l.selector, "checked") != "", nil
}

// IsEnabled implements api.Locator.
func (l *Locator) IsEnabled() (bool, error) {
	if err := l.record("IsEnabled"); err != nil {
		return false, err
	}
	return l.page.engine.attribute(l.selector, "disabled") == "", nil
}

// IsVisible implements api.Locator.
func (l *Locator) IsVisible() (bool, error) {
	if err := l.record("IsVisible"); err != nil {
		return false, err
	}
	return !l.page.engine.hidden(l.selector), nil
}

// Last implements api.Locator.
func (l *Locator) Last() api.Locator { return l.child("nth=-1") }

// Locator implements api.Locator.
func (l *Locator) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	_ = l.record("Locator", selector, opts)
	return l.child(selector)
}

// Nth implements api.Locator.
func (l *Locator) Nth(index int) api.Locator { return l.child(fmt.Sprintf("nth=%d", index)) }

// Or implements api.Locator.
func (l *Locator) Or(other api.Locator) api.Locator {
	_ = l.record("Or", other)
	return &Locator{page: l.page, selector: l.selector + " >> internal:or=" + selectorOf(other)}
}

// Page implements api.Locator.
func (l *Locator) Page() api.Page { return l.page }

// Press implements api.Locator.
func (l *Locator) Press(key string) error { return l.record("Press", key) }

// String implements api.Locator. A described locator prints as its
// description.
func (l *Locator) String() string {
	if l.description != "" {
		return l.description
	}
	return l.selector
}

// TextContent implements api.Locator.
func (l *Locator) TextContent() (string, error) {
	if err := l.record("TextContent"); err != nil {
		return "", err
	}
	return l.page.engine.text(l.selector), nil
}

// Uncheck implements api.Locator.
func (l *Locator) Uncheck() error { return l.record("Uncheck") }

// GetByLabelSelector is the selector GetByLabel(text) resolves to.
func GetByLabelSelector(text string) string {
	return "getByLabel(" + quote(text) + ")"
}

// GetByRoleSelector is the selector GetByRole(role, opts) resolves to.
func GetByRoleSelector(role string, opts *api.GetByRoleOptions) string {
	if opts == nil || opts.Name == "" {
		return "getByRole(" + quote(role) + ")"
	}
	if opts.Exact {
		return fmt.Sprintf("getByRole(%s, { name: %s, exact: true })", quote(role), quote(opts.Name))
	}
	return fmt.Sprintf("getByRole(%s, { name: %s })", quote(role), quote(opts.Name))
}

// GetByTestIDSelector is the selector GetByTestID(id) resolves to.
func GetByTestIDSelector(id string) string {
	return "getByTestId(" + quote(id) + ")"
}

// GetByTextSelector is the selector GetByText(text, opts) resolves to.
func GetByTextSelector(text string, opts *api.GetByTextOptions) string {
	if opts != nil && opts.Exact {
		return "getByText(" + quote(text) + ", { exact: true })"
	}
	return "getByText(" + quote(text) + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func selectorOf(l api.Locator) string {
	if tl, ok := l.(*Locator); ok {
		return tl.selector
	}
	if l == nil {
		return ""
	}
	return l.String()
}
