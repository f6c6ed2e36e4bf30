// Package log builds the logrus loggers and hooks used by steplog.
package log

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Supported values of the log format option.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatRaw  = "raw"
)

// New returns a logger writing to w at the given level and format.
// Empty level and format mean info and text.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	logger := &logrus.Logger{
		Out:       w,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("unknown log level %s", level)
		}
		logger.SetLevel(lvl)
	}
	formatter, err := Formatter(format)
	if err != nil {
		return nil, err
	}
	logger.SetFormatter(formatter)

	return logger, nil
}

// Formatter returns the logrus formatter for a log format option value.
func Formatter(format string) (logrus.Formatter, error) {
	switch format {
	case "", FormatText:
		return &logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true}, nil
	case FormatJSON:
		return new(logrus.JSONFormatter), nil
	case FormatRaw:
		return RawFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q, expected one of text, json, raw", format)
	}
}

// NewNullLogger will create a logger where log lines will
// be discarded and not logged anywhere.
func NewNullLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}
