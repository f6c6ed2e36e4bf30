package js

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/api"
)

func TestJSName(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"Goto":        "goto",
		"GetByRole":   "getByRole",
		"GetByTestID": "getByTestId",
		"URL":         "url",
		"OK":          "ok",
		"JSON":        "json",
		"HTMLContent": "htmlContent",
		"BaseURL":     "baseURL",
		"X":           "x",
	}
	for in, want := range testCases {
		assert.Equal(t, want, jsName(in), in)
	}
}

func TestFieldName(t *testing.T) {
	t.Parallel()

	type sample struct {
		Plain    string
		Tagged   string `json:"tagged,omitempty"`
		Override string `js:"other" json:"ignored"`
		Skipped  string `json:"-"`
		hidden   string //nolint:unused
	}
	st := reflect.TypeOf(sample{})
	var m FieldNameMapper
	got := make([]string, st.NumField())
	for i := range got {
		got[i] = m.FieldName(st, st.Field(i))
	}
	assert.Equal(t, []string{"plain", "tagged", "other", "", ""}, got)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	v, err := convert(map[string]any{
		"button":     "middle",
		"clickCount": int64(3),
		"timeout":    float64(250),
	}, reflect.TypeOf(&api.ClickOptions{}))
	require.NoError(t, err)
	assert.Equal(t, &api.ClickOptions{Button: "middle", ClickCount: 3, Timeout: 250 * time.Millisecond}, v.Interface())

	v, err = convert(map[string]any{"headers": map[string]any{"X-Id": "7"}}, reflect.TypeOf(api.RequestOptions{}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-Id": "7"}, v.Interface().(api.RequestOptions).Headers) //nolint:forcetypeassert

	v, err = convert([]any{"a", "b"}, reflect.TypeOf([]string(nil)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v.Interface())

	_, err = convert("zwei", reflect.TypeOf(0))
	require.Error(t, err)
}
