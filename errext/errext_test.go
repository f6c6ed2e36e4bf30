package errext

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/errext/exitcodes"
)

type scriptErr struct{ stack string }

func (e scriptErr) Error() string      { return "boom" }
func (e scriptErr) StackTrace() string { return e.stack }

func TestWithHint(t *testing.T) {
	t.Parallel()

	require.NoError(t, WithHint(nil, "nothing"))

	err := WithHint(errors.New("unknown member"), "check the method name")
	assert.Equal(t, "check the method name", HintOf(err))

	wrapped := WithHint(fmt.Errorf("calling Click: %w", err), "outer")
	assert.Equal(t, "outer (check the method name)", HintOf(wrapped))
	assert.Empty(t, HintOf(errors.New("plain")))
}

func TestWithExitCodeIfNone(t *testing.T) {
	t.Parallel()

	require.NoError(t, WithExitCodeIfNone(nil, exitcodes.InvalidConfig))

	err := WithExitCodeIfNone(errors.New("bad rule"), exitcodes.InvalidConfig)
	again := WithExitCodeIfNone(err, exitcodes.GenericEngine)

	code, ok := ExitCodeOf(again)
	require.True(t, ok)
	assert.Equal(t, exitcodes.InvalidConfig, code)

	_, ok = ExitCodeOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	msg, fields := Format(nil)
	assert.Empty(t, msg)
	assert.Nil(t, fields)

	err := WithExitCodeIfNone(WithHint(scriptErr{stack: "at main.js:3"}, "see docs"), exitcodes.ScriptException)
	msg, fields = Format(err)
	assert.Equal(t, "at main.js:3", msg)
	assert.Equal(t, "see docs", fields["hint"])
	assert.Equal(t, int(exitcodes.ScriptException), fields["exit_code"])

	msg, fields = Format(errors.New("plain"))
	assert.Equal(t, "plain", msg)
	assert.Empty(t, fields)
}
