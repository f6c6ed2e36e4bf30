package chromium

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/liuxd6825/steplog/api"
)

// Ensure Locator implements the api.Locator interface.
var _ api.Locator = &Locator{}

// pollInterval is how often a locator is re-resolved while waiting for it to
// match exactly one element.
const pollInterval = 100 * time.Millisecond

// Locator is a lazy selector chain. It is resolved against the page each time
// an action runs; building locators never talks to the browser.
type Locator struct {
	page        *Page
	steps       []step
	description string
	// err is a problem found while building the chain, reported by the first
	// action.
	err error
}

func newLocator(p *Page) *Locator {
	return &Locator{page: p}
}

func (l *Locator) with(s step) *Locator {
	steps := make([]step, len(l.steps), len(l.steps)+1)
	copy(steps, l.steps)
	return &Locator{page: l.page, steps: append(steps, s), err: l.err}
}

// chainOf returns the steps of other, which must be a locator of the same
// page.
func (l *Locator) chainOf(other api.Locator) ([]step, error) {
	o, ok := other.(*Locator)
	if !ok {
		return nil, fmt.Errorf("locator %T can't be combined with %s", other, l)
	}
	if o.page != l.page {
		return nil, fmt.Errorf("locator %s belongs to another page than %s", o, l)
	}
	return o.steps, o.err
}

// Selector returns the chain without the description.
func (l *Locator) Selector() string {
	return render(l.steps)
}

// String returns the description set through Describe, or the chain.
func (l *Locator) String() string {
	if l.description != "" {
		return l.description
	}
	return render(l.steps)
}

// Describe returns a copy of l described as description.
func (l *Locator) Describe(description string) api.Locator {
	cp := *l
	cp.description = description
	return &cp
}

// Page returns the page l resolves against.
func (l *Locator) Page() api.Page {
	return l.page
}

// Locator narrows l to descendants matching a CSS selector.
func (l *Locator) Locator(selector string, opts *api.LocatorOptions) api.Locator {
	out := l.with(step{Kind: stepCSS, Value: selector})
	if opts == nil || (opts.HasText == "" && opts.Has == nil && opts.HasNot == nil) {
		return out
	}
	return out.Filter(&api.FilterOptions{HasText: opts.HasText, Has: opts.Has, HasNot: opts.HasNot})
}

// GetByLabel narrows l to form controls labelled text.
func (l *Locator) GetByLabel(text string) api.Locator {
	return l.with(step{Kind: stepLabel, Value: text})
}

// GetByRole narrows l to elements with an ARIA role and accessible name.
func (l *Locator) GetByRole(role string, opts *api.GetByRoleOptions) api.Locator {
	s := step{Kind: stepRole, Value: role}
	if opts != nil {
		s.Name, s.Exact = opts.Name, opts.Exact
	}
	return l.with(s)
}

// GetByTestID narrows l to elements with a data-testid attribute.
func (l *Locator) GetByTestID(testID string) api.Locator {
	return l.with(step{Kind: stepTestID, Value: testID})
}

// GetByText narrows l to the innermost elements containing text.
func (l *Locator) GetByText(text string, opts *api.GetByTextOptions) api.Locator {
	s := step{Kind: stepText, Value: text}
	if opts != nil {
		s.Exact = opts.Exact
	}
	return l.with(s)
}

// Filter keeps the elements of l that satisfy opts.
func (l *Locator) Filter(opts *api.FilterOptions) api.Locator {
	if opts == nil {
		return l.with(step{Kind: stepFilter})
	}
	s := step{Kind: stepFilter, HasText: opts.HasText, HasNotText: opts.HasNotText}
	out := l.with(s)
	var err error
	if opts.Has != nil {
		if s.Has, err = l.chainOf(opts.Has); err != nil && out.err == nil {
			out.err = err
		}
	}
	if opts.HasNot != nil {
		if s.HasNot, err = l.chainOf(opts.HasNot); err != nil && out.err == nil {
			out.err = err
		}
	}
	out.steps[len(out.steps)-1] = s
	return out
}

// And keeps the elements of l that other matches too.
func (l *Locator) And(other api.Locator) api.Locator {
	return l.combine(stepAnd, other)
}

// Or matches the elements of l and those of other.
func (l *Locator) Or(other api.Locator) api.Locator {
	return l.combine(stepOr, other)
}

func (l *Locator) combine(kind string, other api.Locator) *Locator {
	chain, err := l.chainOf(other)
	out := l.with(step{Kind: kind, Other: chain})
	if err != nil && out.err == nil {
		out.err = err
	}
	return out
}

// First narrows l to its first element.
func (l *Locator) First() api.Locator { return l.with(step{Kind: stepNth, Index: 0}) }

// Last narrows l to its last element.
func (l *Locator) Last() api.Locator { return l.with(step{Kind: stepNth, Index: -1}) }

// Nth narrows l to its element at index. Negative indexes count from the end.
func (l *Locator) Nth(index int) api.Locator { return l.with(step{Kind: stepNth, Index: index}) }

// All returns one locator per element currently matched by l.
func (l *Locator) All() ([]api.Locator, error) {
	n, err := l.Count()
	if err != nil {
		return nil, err
	}
	out := make([]api.Locator, n)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

// Count returns the number of elements l matches right now.
func (l *Locator) Count() (int, error) {
	els, err := l.elements(l.page.rod)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Check checks a checkbox or radio button, unless it is checked already.
func (l *Locator) Check() error {
	return l.setChecked(true)
}

// Uncheck unchecks a checkbox, unless it is unchecked already.
func (l *Locator) Uncheck() error {
	return l.setChecked(false)
}

func (l *Locator) setChecked(want bool) error {
	return l.act("setting checked", func(el *rod.Element) error {
		checked, err := isChecked(el)
		if err != nil || checked == want {
			return err
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return err
		}
		if checked, err = isChecked(el); err == nil && checked != want {
			return fmt.Errorf("clicking did not change the checked state of %s", l)
		}
		return err
	})
}

// Click clicks the element.
func (l *Locator) Click(opts *api.ClickOptions) error {
	button, count := proto.InputMouseButtonLeft, 1
	var timeout time.Duration
	if opts != nil {
		if opts.Button != "" {
			button = proto.InputMouseButton(opts.Button)
		}
		if opts.ClickCount > 0 {
			count = opts.ClickCount
		}
		timeout = opts.Timeout
	}
	return l.actWithin(timeout, "clicking", func(el *rod.Element) error {
		return el.Click(button, count)
	})
}

// Dblclick double-clicks the element.
func (l *Locator) Dblclick() error {
	return l.act("double-clicking", func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 2)
	})
}

// Fill replaces the value of an input with value.
func (l *Locator) Fill(value string) error {
	return l.act("filling", func(el *rod.Element) error {
		if err := el.SelectAllText(); err != nil {
			return err
		}
		if value == "" {
			return el.Type(input.Backspace)
		}
		return el.Input(value)
	})
}

// Focus focuses the element.
func (l *Locator) Focus() error {
	return l.act("focusing", func(el *rod.Element) error {
		return el.Focus()
	})
}

// Hover moves the mouse over the element.
func (l *Locator) Hover() error {
	return l.act("hovering", func(el *rod.Element) error {
		return el.Hover()
	})
}

// Press focuses the element and presses key, such as Enter or a.
func (l *Locator) Press(key string) error {
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	return l.act("pressing "+key, func(el *rod.Element) error {
		if err := el.Focus(); err != nil {
			return err
		}
		return el.Type(k)
	})
}

// GetAttribute returns the value of the attribute name, or "" without it.
func (l *Locator) GetAttribute(name string) (string, error) {
	var out string
	err := l.act("getting attribute "+name, func(el *rod.Element) error {
		v, err := el.Attribute(name)
		if v != nil {
			out = *v
		}
		return err
	})
	return out, err
}

// InnerText returns the rendered text of the element.
func (l *Locator) InnerText() (string, error) {
	var out string
	err := l.act("getting inner text", func(el *rod.Element) (err error) {
		out, err = el.Text()
		return err
	})
	return out, err
}

// InputValue returns the value of an input, textarea or select.
func (l *Locator) InputValue() (string, error) {
	var out string
	err := l.act("getting input value", func(el *rod.Element) error {
		v, err := el.Property("value")
		out = v.String()
		return err
	})
	return out, err
}

// TextContent returns the text content of the element.
func (l *Locator) TextContent() (string, error) {
	var out string
	err := l.act("getting text content", func(el *rod.Element) error {
		obj, err := el.Eval(`() => this.textContent`)
		if err != nil {
			return err
		}
		out = obj.Value.String()
		return nil
	})
	return out, err
}

// IsChecked reports whether a checkbox or radio button is checked.
func (l *Locator) IsChecked() (bool, error) {
	var out bool
	err := l.act("getting checked state", func(el *rod.Element) (err error) {
		out, err = isChecked(el)
		return err
	})
	return out, err
}

// IsEnabled reports whether the element is enabled.
func (l *Locator) IsEnabled() (bool, error) {
	var out bool
	err := l.act("getting enabled state", func(el *rod.Element) error {
		disabled, err := el.Disabled()
		out = !disabled
		return err
	})
	return out, err
}

// IsVisible reports whether the element is visible. It does not wait: a
// locator matching nothing is not visible.
func (l *Locator) IsVisible() (bool, error) {
	els, err := l.elements(l.page.rod)
	if err != nil {
		return false, err
	}
	switch len(els) {
	case 0:
		return false, nil
	case 1:
		return els[0].Visible()
	default:
		return false, l.strict(len(els))
	}
}

func isChecked(el *rod.Element) (bool, error) {
	v, err := el.Property("checked")
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

func (l *Locator) act(what string, fn func(el *rod.Element) error) error {
	return l.actWithin(0, what, fn)
}

// actWithin waits up to timeout for l to match exactly one element and runs
// fn on it.
func (l *Locator) actWithin(timeout time.Duration, what string, fn func(el *rod.Element) error) error {
	if timeout <= 0 {
		timeout = l.page.timeout
	}
	ctx, cancel := context.WithTimeout(l.page.ctx.browser.ctx, timeout)
	defer cancel()

	el, err := l.one(ctx)
	if err != nil {
		return fmt.Errorf("%s %s: %w", what, l, err)
	}
	if err := fn(el.Context(ctx)); err != nil {
		return fmt.Errorf("%s %s: %w", what, l, err)
	}
	return nil
}

func (l *Locator) one(ctx context.Context) (*rod.Element, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	rp := l.page.rod.Context(ctx)
	for {
		els, err := l.elements(rp)
		if err != nil {
			return nil, err
		}
		switch len(els) {
		case 1:
			return els[0], nil
		case 0:
		default:
			return nil, l.strict(len(els))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrNotFound, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locator) elements(rp *rod.Page) (rod.Elements, error) {
	if l.err != nil {
		return nil, l.err
	}
	if len(l.steps) == 0 {
		return nil, fmt.Errorf("%w: empty locator", ErrNotFound)
	}
	els, err := rp.ElementsByJS(rod.Eval(resolverJS, l.steps))
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", l, err)
	}
	return els, nil
}

func (l *Locator) strict(n int) error {
	return fmt.Errorf("%w: %s resolved to %d elements", ErrStrictMode, render(l.steps), n)
}
