package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, level, format string
		wantErr             bool
		contains            string
	}{
		{name: "defaults", contains: "level=info"},
		{name: "json", format: FormatJSON, contains: `"msg":"hello"`},
		{name: "raw", format: FormatRaw, contains: "hello\n"},
		{name: "bad level", level: "loud", wantErr: true},
		{name: "bad format", format: "xml", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger, err := New(&buf, tt.level, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			logger.Info("hello")
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestLevelsFrom(t *testing.T) {
	t.Parallel()

	levels, err := levelsFrom("warning")
	require.NoError(t, err)
	assert.Equal(t, []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}, levels)

	_, err = levelsFrom("nope")
	require.Error(t, err)
}

func TestFileHookFromConfigLine(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/logs", 0o755))

	_, err := FileHookFromConfigLine(fs, "loki=http://x")
	require.Error(t, err)
	_, err = FileHookFromConfigLine(fs, "file=")
	require.Error(t, err)
	_, err = FileHookFromConfigLine(fs, "file=/missing/steps.log")
	require.Error(t, err)
	_, err = FileHookFromConfigLine(fs, "file=/logs/steps.log,color=red")
	require.Error(t, err)

	hook, err := FileHookFromConfigLine(fs, "file=/logs/steps.log,level=info")
	require.NoError(t, err)
	assert.NotContains(t, hook.Levels(), logrus.DebugLevel)

	logger := NewNullLogger()
	logger.SetFormatter(RawFormatter{})
	logger.AddHook(hook)
	logger.Info("Klicke Element 'Button'.")
	logger.Debug("dropped")
	require.NoError(t, hook.Close())

	data, err := afero.ReadFile(fs, "/logs/steps.log")
	require.NoError(t, err)
	assert.Equal(t, "Klicke Element 'Button'.\n", string(data))
}
