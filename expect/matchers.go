package expect

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/liuxd6825/steplog/errext"
)

// MatcherOptions configures the built-in matchers.
type MatcherOptions struct {
	// Timeout is how long assertions on locators and pages are retried
	// before they fail. Zero checks once.
	Timeout time.Duration
	// Interval is the pause between retries. Defaults to 100ms.
	Interval time.Duration
}

// Matchers is the built-in matcher factory. It checks every assertion once.
func Matchers(subject any) any {
	return &Matcher{subject: subject}
}

// NewMatchers returns the built-in matcher factory using opts.
func NewMatchers(opts MatcherOptions) Factory {
	if opts.Interval <= 0 {
		opts.Interval = 100 * time.Millisecond
	}
	return func(subject any) any {
		return &Matcher{subject: subject, opts: opts}
	}
}

// Matcher holds the built-in matchers for one subject. Failed expectations are
// returned as *AssertionError.
type Matcher struct {
	subject any
	negated bool
	opts    MatcherOptions
}

// Not returns the negated matcher.
func (m *Matcher) Not() *Matcher {
	return &Matcher{subject: m.subject, negated: !m.negated, opts: m.opts}
}

// collector is the assert.TestingT the checks report to.
type collector struct {
	messages []string
}

func (c *collector) Errorf(format string, args ...any) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func (c *collector) failed() bool { return len(c.messages) > 0 }

// check runs fn once and turns its outcome into the matcher's result.
func (m *Matcher) check(name string, fn func(t *collector) error) error {
	t := &collector{}
	if err := fn(t); err != nil {
		return err
	}
	switch {
	case m.negated && !t.failed():
		return &AssertionError{Matcher: name, Negated: true, Message: "the expectation unexpectedly holds"}
	case !m.negated && t.failed():
		return &AssertionError{Matcher: name, Message: strings.Join(t.messages, "\n")}
	default:
		return nil
	}
}

// poll is check retried until it passes or the timeout elapses.
func (m *Matcher) poll(name string, fn func(t *collector) error) error {
	deadline := time.Now().Add(m.opts.Timeout)
	for {
		err := m.check(name, fn)
		if err == nil || time.Now().After(deadline) {
			return err
		}
		if _, failed := err.(*AssertionError); !failed { //nolint:errorlint
			return err
		}
		time.Sleep(m.opts.Interval)
	}
}

// ToBe checks that the subject is expected. Pointers are compared by
// identity, other values by equality.
func (m *Matcher) ToBe(expected any) error {
	return m.check("ToBe", func(t *collector) error {
		if isPointer(m.subject) && isPointer(expected) {
			assert.Same(t, expected, m.subject)
			return nil
		}
		assert.Equal(t, expected, m.subject)
		return nil
	})
}

// ToEqual checks that the subject deeply equals expected, converting numbers
// between types.
func (m *Matcher) ToEqual(expected any) error {
	return m.check("ToEqual", func(t *collector) error {
		assert.EqualValues(t, expected, m.subject)
		return nil
	})
}

// ToContain checks that a string, slice, array or map subject contains item.
func (m *Matcher) ToContain(item any) error {
	return m.check("ToContain", func(t *collector) error {
		assert.Contains(t, m.subject, item)
		return nil
	})
}

// ToBeTruthy checks that the subject is neither nil nor a zero value.
func (m *Matcher) ToBeTruthy() error {
	return m.check("ToBeTruthy", func(t *collector) error {
		assert.Truef(t, truthy(m.subject), "%#v is not truthy", m.subject)
		return nil
	})
}

// ToBeNil checks that the subject is nil.
func (m *Matcher) ToBeNil() error {
	return m.check("ToBeNil", func(t *collector) error {
		assert.Nil(t, m.subject)
		return nil
	})
}

// ToHaveText checks the text content of a locator, ignoring surrounding
// whitespace.
func (m *Matcher) ToHaveText(expected string) error {
	return m.poll("ToHaveText", func(t *collector) error {
		text, err := textOf(m.subject)
		if err != nil {
			return err
		}
		assert.Equal(t, strings.TrimSpace(expected), strings.TrimSpace(text))
		return nil
	})
}

// ToContainText checks that the text content of a locator contains expected.
func (m *Matcher) ToContainText(expected string) error {
	return m.poll("ToContainText", func(t *collector) error {
		text, err := textOf(m.subject)
		if err != nil {
			return err
		}
		assert.Contains(t, text, expected)
		return nil
	})
}

// ToBeVisible checks that a locator's element is visible.
func (m *Matcher) ToBeVisible() error {
	return m.poll("ToBeVisible", func(t *collector) error {
		s, ok := m.subject.(interface{ IsVisible() (bool, error) })
		if !ok {
			return unsupported("ToBeVisible", m.subject, "IsVisible")
		}
		visible, err := s.IsVisible()
		if err != nil {
			return err //nolint:wrapcheck
		}
		assert.True(t, visible, "element is not visible")
		return nil
	})
}

// ToBeChecked checks that a locator's checkbox is checked.
func (m *Matcher) ToBeChecked() error {
	return m.poll("ToBeChecked", func(t *collector) error {
		s, ok := m.subject.(interface{ IsChecked() (bool, error) })
		if !ok {
			return unsupported("ToBeChecked", m.subject, "IsChecked")
		}
		checked, err := s.IsChecked()
		if err != nil {
			return err //nolint:wrapcheck
		}
		assert.True(t, checked, "element is not checked")
		return nil
	})
}

// ToHaveAttribute checks an attribute of a locator's element.
func (m *Matcher) ToHaveAttribute(name, value string) error {
	return m.poll("ToHaveAttribute", func(t *collector) error {
		s, ok := m.subject.(interface{ GetAttribute(string) (string, error) })
		if !ok {
			return unsupported("ToHaveAttribute", m.subject, "GetAttribute")
		}
		got, err := s.GetAttribute(name)
		if err != nil {
			return err //nolint:wrapcheck
		}
		assert.Equalf(t, value, got, "attribute %q", name)
		return nil
	})
}

// ToHaveValue checks the value of a locator's input element.
func (m *Matcher) ToHaveValue(value string) error {
	return m.poll("ToHaveValue", func(t *collector) error {
		s, ok := m.subject.(interface{ InputValue() (string, error) })
		if !ok {
			return unsupported("ToHaveValue", m.subject, "InputValue")
		}
		got, err := s.InputValue()
		if err != nil {
			return err //nolint:wrapcheck
		}
		assert.Equal(t, value, got)
		return nil
	})
}

// ToHaveCount checks how many elements a locator matches.
func (m *Matcher) ToHaveCount(n int) error {
	return m.poll("ToHaveCount", func(t *collector) error {
		s, ok := m.subject.(interface{ Count() (int, error) })
		if !ok {
			return unsupported("ToHaveCount", m.subject, "Count")
		}
		got, err := s.Count()
		if err != nil {
			return err //nolint:wrapcheck
		}
		assert.Equal(t, n, got)
		return nil
	})
}

// ToHaveURL checks a page's URL. A pattern between slashes, e.g.
// "/checkout$/", is matched as a regular expression.
func (m *Matcher) ToHaveURL(url string) error {
	return m.poll("ToHaveURL", func(t *collector) error {
		s, ok := m.subject.(interface{ URL() string })
		if !ok {
			return unsupported("ToHaveURL", m.subject, "URL")
		}
		return matchString(t, url, s.URL())
	})
}

// ToHaveTitle checks a page's title. Patterns work as in ToHaveURL.
func (m *Matcher) ToHaveTitle(title string) error {
	return m.poll("ToHaveTitle", func(t *collector) error {
		s, ok := m.subject.(interface{ Title() (string, error) })
		if !ok {
			return unsupported("ToHaveTitle", m.subject, "Title")
		}
		got, err := s.Title()
		if err != nil {
			return err //nolint:wrapcheck
		}
		return matchString(t, title, got)
	})
}

// ToHaveStatus checks a response's status code.
func (m *Matcher) ToHaveStatus(code int) error {
	return m.check("ToHaveStatus", func(t *collector) error {
		s, ok := m.subject.(interface{ Status() int })
		if !ok {
			return unsupported("ToHaveStatus", m.subject, "Status")
		}
		assert.Equal(t, code, s.Status())
		return nil
	})
}

// ToBeOK checks that a response's status is in the 2xx range.
func (m *Matcher) ToBeOK() error {
	return m.check("ToBeOK", func(t *collector) error {
		s, ok := m.subject.(interface{ OK() bool })
		if !ok {
			return unsupported("ToBeOK", m.subject, "OK")
		}
		assert.True(t, s.OK(), "response status is not 2xx")
		return nil
	})
}

// ToHaveJSON checks the value at a gjson path of a JSON subject: a response,
// a string or a byte slice. Without expected it only checks that the path
// exists.
func (m *Matcher) ToHaveJSON(path string, expected ...any) error {
	return m.check("ToHaveJSON", func(t *collector) error {
		body, err := jsonOf(m.subject)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(body) {
			assert.Fail(t, "body is not valid JSON")
			return nil
		}
		res := gjson.GetBytes(body, path)
		if !assert.Truef(t, res.Exists(), "path %q does not exist", path) || len(expected) == 0 {
			return nil
		}
		assert.EqualValues(t, expected[0], res.Value(), "value at %q", path)
		return nil
	})
}

func matchString(t *collector, pattern, got string) error {
	if len(pattern) > 1 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return errext.WithHint(fmt.Errorf("expect: invalid pattern %q: %w", pattern, err),
				"patterns between slashes are Go regular expressions")
		}
		assert.Regexp(t, re, got)
		return nil
	}
	assert.Equal(t, pattern, got)
	return nil
}

func textOf(subject any) (string, error) {
	switch s := subject.(type) {
	case interface{ TextContent() (string, error) }:
		return s.TextContent() //nolint:wrapcheck
	case interface{ InnerText() (string, error) }:
		return s.InnerText() //nolint:wrapcheck
	case string:
		return s, nil
	default:
		return "", unsupported("ToHaveText", subject, "TextContent")
	}
}

func jsonOf(subject any) ([]byte, error) {
	switch s := subject.(type) {
	case interface{ Body() ([]byte, error) }:
		return s.Body() //nolint:wrapcheck
	case []byte:
		return s, nil
	case string:
		return []byte(s), nil
	default:
		return nil, unsupported("ToHaveJSON", subject, "Body")
	}
}

func unsupported(matcher string, subject any, method string) error {
	return errext.WithHint(
		fmt.Errorf("expect: %s does not apply to %T", matcher, subject),
		fmt.Sprintf("the subject needs a %s method", method),
	)
}

func isPointer(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Ptr
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Map:
		return !rv.IsNil()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == f && f != 0 //nolint:gocritic
	default:
		return !rv.IsZero()
	}
}
