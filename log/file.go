/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2020 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FileHook writes every fired entry to a local file.
type FileHook struct {
	mu     sync.Mutex
	path   string
	w      io.WriteCloser
	levels []logrus.Level
}

var _ logrus.Hook = &FileHook{}

// FileHookFromConfigLine returns a FileHook for a line such as
// `file=./steps.log,level=info`.
func FileHookFromConfigLine(fs afero.Fs, line string) (*FileHook, error) {
	hook := &FileHook{levels: logrus.AllLevels}

	if !strings.HasPrefix(line, "file=") {
		return nil, fmt.Errorf("logfile configuration should be in the form `file=path-to-local-file` but is `%s`", line)
	}
	if err := hook.parseArgs(line); err != nil {
		return nil, err
	}
	if err := hook.openFile(fs); err != nil {
		return nil, err
	}

	return hook, nil
}

func (h *FileHook) parseArgs(line string) error {
	for _, token := range strings.Split(line, ",") {
		key, value, _ := strings.Cut(token, "=")
		switch key {
		case "file":
			if value == "" {
				return fmt.Errorf("filepath must not be empty")
			}
			h.path = value
		case "level":
			levels, err := levelsFrom(value)
			if err != nil {
				return err
			}
			h.levels = levels
		default:
			return fmt.Errorf("unknown logfile config key %s", key)
		}
	}

	return nil
}

func (h *FileHook) openFile(fs afero.Fs) error {
	if _, err := fs.Stat(filepath.Dir(h.path)); os.IsNotExist(err) {
		return fmt.Errorf("provided directory '%s' does not exist", filepath.Dir(h.path))
	}

	file, err := fs.OpenFile(h.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open logfile %s: %w", h.path, err)
	}
	h.w = file

	return nil
}

// Fire writes the log file to defined path.
func (h *FileHook) Fire(entry *logrus.Entry) error {
	message, err := entry.Bytes()
	if err != nil {
		return fmt.Errorf("failed to get a log entry bytes: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(message)
	return err
}

// Levels returns configured log levels.
func (h *FileHook) Levels() []logrus.Level {
	return h.levels
}

// Close closes the underlying file.
func (h *FileHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w.Close()
}
