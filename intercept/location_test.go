package intercept_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/intercept"
)

func TestCallerLocation(t *testing.T) {
	t.Parallel()

	loc := intercept.CallerLocation()
	require.NotNil(t, loc)
	assert.Contains(t, loc.File, "location_test.go")
	assert.Contains(t, loc.Function, "TestCallerLocation")
	assert.Positive(t, loc.Line)
	assert.Contains(t, loc.String(), "location_test.go:")
}

func TestLocationString(t *testing.T) {
	t.Parallel()

	var nilLoc *intercept.Location
	assert.Equal(t, "", nilLoc.String())
	assert.Equal(t, "a.js:3", (&intercept.Location{File: "a.js", Line: 3}).String())
	assert.Equal(t, "a.js:3 (login)", (&intercept.Location{File: "a.js", Line: 3, Function: "login"}).String())
}

func TestDirectStepper(t *testing.T) {
	t.Parallel()

	calls := 0
	out, err := intercept.Direct.Step("title", nil, func() ([]any, error) {
		calls++
		return []any{1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, out)
	assert.Equal(t, 1, calls)
}
