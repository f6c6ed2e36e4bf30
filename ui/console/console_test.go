package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferFile struct {
	bytes.Buffer
}

// Fd returns an invalid descriptor, so the buffer is never a terminal.
func (*bufferFile) Fd() uintptr { return ^uintptr(0) }

func TestConsoleWithoutTTY(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bufferFile{}, &bufferFile{}
	c := New(stdout, stderr, true, "xterm")

	assert.False(t, c.IsTTY)
	assert.Equal(t, "ok", c.Passed("ok"))
	assert.Equal(t, "no", c.Failed("no"))
	assert.Equal(t, "dim", c.Faint("dim"))

	width, err := c.TermWidth()
	require.NoError(t, err)
	assert.Equal(t, defaultTermWidth, width)

	c.Printf("%d steps\n", 3)
	assert.Equal(t, "3 steps\n", stdout.String())

	c.GetLogger().Info("hello")
	assert.Contains(t, stderr.String(), "hello")
}

func TestConsoleNoColorStripsEscapes(t *testing.T) {
	t.Parallel()

	stdout := &bufferFile{}
	c := New(stdout, &bufferFile{}, false, "")
	c.Print("\x1b[31mred\x1b[0m\n")
	assert.Equal(t, "red\n", stdout.String())
}

func TestPrintYAML(t *testing.T) {
	t.Parallel()

	stdout := &bufferFile{}
	c := New(stdout, &bufferFile{}, false, "")
	require.NoError(t, c.PrintYAML(map[string]map[string]string{"page": {"Goto": "open {{arg 0}}"}}))
	assert.Equal(t, "page:\n    Goto: open {{arg 0}}\n", stdout.String())
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"Prüfe, ob die Überschrift sichtbar ist", 25, "Prüfe, ob die Überschrif…"},
		{"ein ziemlich langer Schritttitel", 5, "ein ziemlich langer…"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Truncate(tc.in, tc.width))
	}
}
