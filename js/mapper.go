package js

import (
	"reflect"
	"strings"
	"unicode"
)

// methodNameExceptions are Go names whose JS spelling doesn't follow from
// lower-casing the leading capitals.
var methodNameExceptions = map[string]string{ //nolint:gochecknoglobals
	"GetByTestID": "getByTestId",
}

// FieldNameMapper maps exported Go names to JS names for
// goja.Runtime.SetFieldNameMapper: GetByRole becomes getByRole, URL becomes
// url and HTMLContent becomes htmlContent.
type FieldNameMapper struct{}

// FieldName is part of the goja.FieldNameMapper interface. A `js` tag, then
// the name of a `json` tag, override the default.
func (FieldNameMapper) FieldName(_ reflect.Type, f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	if name, ok := taggedName(f); ok {
		return name
	}
	return jsName(f.Name)
}

// MethodName is part of the goja.FieldNameMapper interface.
func (FieldNameMapper) MethodName(_ reflect.Type, m reflect.Method) string {
	if !m.IsExported() {
		return ""
	}
	return jsName(m.Name)
}

func taggedName(f reflect.StructField) (string, bool) {
	for _, key := range []string{"js", "json"} {
		tag, ok := f.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, true
		}
	}
	return "", false
}

// jsName lower-cases the leading run of capitals of a Go name, keeping the
// last one when it starts the next word.
func jsName(name string) string {
	if exception, ok := methodNameExceptions[name]; ok {
		return exception
	}
	r := []rune(name)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) && unicode.IsLower(r[n]) {
		n--
	}
	for i := 0; i < n; i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// goName returns the Go name among names whose JS name is key.
func goName(key string, names []string) (string, bool) {
	for _, name := range names {
		if jsName(name) == key {
			return name, true
		}
	}
	return "", false
}
