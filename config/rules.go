package config

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/serenize/snaker"
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/api"
	"github.com/liuxd6825/steplog/expect"
	"github.com/liuxd6825/steplog/intercept"
	"github.com/liuxd6825/steplog/log"
)

// Rule is one step title template, as listed by the rules command.
type Rule struct {
	Scope    string // handle kind, or "expect"
	Method   string
	Template string
}

// Rules returns every rule of c sorted by scope and method, with method names
// in their canonical form.
func (c Config) Rules() []Rule {
	var rules []Rule
	for kindName, methods := range c.Logs {
		kind, _ := intercept.ParseKind(kindName)
		for method, text := range methods {
			rules = append(rules, Rule{
				Scope:    strings.ToLower(kindName),
				Method:   methodName(handleTypes[kind], method),
				Template: text,
			})
		}
	}
	for matcher, text := range c.Expect {
		rules = append(rules, Rule{Scope: "expect", Method: methodName(matcherType, matcher), Template: text})
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Scope != rules[j].Scope {
			return rules[i].Scope < rules[j].Scope
		}
		return rules[i].Method < rules[j].Method
	})
	return rules
}

// handleData is what a handle rule template is executed with.
type handleData struct {
	Kind   string
	Method string
	Name   string
	Args   []any
}

// matcherData is what an expect rule template is executed with.
type matcherData struct {
	Matcher string
	Subject any
	Not     bool
	Args    []any
}

// Intercept compiles the handle rules into an intercept.Config. Templates
// that fail while a title is rendered are reported to logger; nil discards
// them.
func (c Config) Intercept(logger logrus.FieldLogger) (intercept.Config, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	conf := intercept.Config{
		Logs:              make(map[intercept.Kind]intercept.Logs, len(c.Logs)),
		ChainLocatorNames: c.ChainLocatorNames,
	}
	for kindName, methods := range c.Logs {
		kind, err := intercept.ParseKind(kindName)
		if err != nil {
			return intercept.Config{}, invalid(err, fmt.Sprintf("check the rules under logs.%s", kindName))
		}
		logs := conf.Logs[kind]
		if logs == nil {
			logs = make(intercept.Logs, len(methods))
			conf.Logs[kind] = logs
		}
		for method, text := range methods {
			tmpl, err := compile("logs."+kindName+"."+method, text)
			if err != nil {
				return intercept.Config{}, err
			}
			m := methodName(handleTypes[kind], method)
			logs[m] = handleLog(tmpl, kind, m, logger)
		}
	}
	return conf, nil
}

// ExpectLogs compiles the expect rules. Rendering errors go to logger like
// in Intercept.
func (c Config) ExpectLogs(logger logrus.FieldLogger) (expect.Logs, error) {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	logs := make(expect.Logs, len(c.Expect))
	for matcher, text := range c.Expect {
		tmpl, err := compile("expect."+matcher, text)
		if err != nil {
			return nil, err
		}
		m := methodName(matcherType, matcher)
		logs[m] = matcherLog(tmpl, m, logger)
	}
	return logs, nil
}

// handleLog renders the step title of a handle rule. A template failing at
// render time is logged and the title falls back to "<name>.<method>".
func handleLog(tmpl *template.Template, kind intercept.Kind, method string, logger logrus.FieldLogger) intercept.LogFunc {
	return func(name string, args ...any) string {
		data := handleData{Kind: kind.String(), Method: method, Name: name, Args: args}
		title, err := execute(tmpl, args, data)
		if err != nil {
			fallback := name + "." + method
			logger.WithError(err).WithField("rule", tmpl.Name()).
				Warnf("couldn't render the step title, using %q", fallback)
			return fallback
		}
		return title
	}
}

func matcherLog(tmpl *template.Template, matcher string, logger logrus.FieldLogger) expect.LogFunc {
	return func(subject any, negated bool, args ...any) string {
		data := matcherData{Matcher: matcher, Subject: subject, Not: negated, Args: args}
		title, err := execute(tmpl, args, data)
		if err != nil {
			logger.WithError(err).WithField("rule", tmpl.Name()).
				Warnf("couldn't render the step title, using %q", matcher)
			return matcher
		}
		return title
	}
}

func compile(rule, text string) (*template.Template, error) {
	tmpl, err := template.New(rule).Option("missingkey=zero").Funcs(funcs(nil)).Parse(text)
	if err != nil {
		return nil, invalid(fmt.Errorf("invalid step title template: %w", err),
			fmt.Sprintf("check the rule %s", rule))
	}
	return tmpl, nil
}

// execute runs tmpl with arg bound to args. Templates are cloned so that
// concurrent calls don't share the bound function.
func execute(tmpl *template.Template, args []any, data any) (string, error) {
	t, err := tmpl.Clone()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Funcs(funcs(args)).Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func funcs(args []any) template.FuncMap {
	return template.FuncMap{
		"arg": func(i int) any {
			if i < 0 || i >= len(args) {
				return ""
			}
			return args[i]
		},
		"quote": func(v any) string {
			return strconv.Quote(fmt.Sprint(v))
		},
	}
}

// Method sets rule keys are resolved against.
var (
	handleTypes = map[intercept.Kind]reflect.Type{ //nolint:gochecknoglobals
		intercept.KindBrowser: reflect.TypeOf((*api.Browser)(nil)).Elem(),
		intercept.KindContext: reflect.TypeOf((*api.BrowserContext)(nil)).Elem(),
		intercept.KindPage:    reflect.TypeOf((*api.Page)(nil)).Elem(),
		intercept.KindLocator: reflect.TypeOf((*api.Locator)(nil)).Elem(),
		intercept.KindRequest: reflect.TypeOf((*api.APIRequestContext)(nil)).Elem(),
	}
	matcherType = reflect.TypeOf(&expect.Matcher{}) //nolint:gochecknoglobals
)

// methodName resolves a rule key to the Go method of t it names. goto,
// getByTestId, get_by_test_id and GetByTestID all name GetByTestID: keys are
// compared ignoring case and underscores. Keys naming no method of t, such
// as custom matchers, keep their CamelCase form.
func methodName(t reflect.Type, key string) string {
	if t != nil {
		want := foldName(key)
		for i := 0; i < t.NumMethod(); i++ {
			if name := t.Method(i).Name; foldName(name) == want {
				return name
			}
		}
	}
	return snaker.SnakeToCamel(key)
}

func foldName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}
