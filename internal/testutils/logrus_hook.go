// Package testutils contains helpers shared by the package tests.
package testutils

import (
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

// SimpleLogrusHook is a logrus.Hook keeping every entry it fires for, so tests
// can check what was logged.
type SimpleLogrusHook struct {
	HookedLevels []logrus.Level

	mutex   sync.Mutex
	entries []logrus.Entry
}

var _ logrus.Hook = &SimpleLogrusHook{}

// NewLogHook returns a hook for levels, or for every level when none are
// given.
func NewLogHook(levels ...logrus.Level) *SimpleLogrusHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &SimpleLogrusHook{HookedLevels: levels}
}

// NewLogger returns a debug level logger that writes nowhere and reports to
// the returned hook.
func NewLogger(tb testing.TB) (*logrus.Logger, *SimpleLogrusHook) {
	tb.Helper()

	hook := NewLogHook()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(hook)
	return logger, hook
}

// Levels implements logrus.Hook.
func (h *SimpleLogrusHook) Levels() []logrus.Level {
	return h.HookedLevels
}

// Fire implements logrus.Hook.
func (h *SimpleLogrusHook) Fire(e *logrus.Entry) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.entries = append(h.entries, *e)
	return nil
}

// Drain returns the kept entries and forgets them.
func (h *SimpleLogrusHook) Drain() []logrus.Entry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	res := h.entries
	h.entries = nil
	return res
}

// Lines drains the hook and returns the messages.
func (h *SimpleLogrusHook) Lines() []string {
	entries := h.Drain()
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.Message
	}
	return lines
}

// LastEntry returns the last kept entry, or nil.
func (h *SimpleLogrusHook) LastEntry() *logrus.Entry {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	e := h.entries[len(h.entries)-1]
	return &e
}

// LogContains reports whether entries hold a message at level containing
// contents.
func LogContains(entries []logrus.Entry, level logrus.Level, contents string) bool {
	return len(FilterEntries(entries, level, contents)) > 0
}

// FilterEntries returns the entries at level whose message contains contents.
func FilterEntries(entries []logrus.Entry, level logrus.Level, contents string) []logrus.Entry {
	var filtered []logrus.Entry
	for _, entry := range entries {
		if entry.Level == level && strings.Contains(entry.Message, contents) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
