package intercept

import (
	"runtime"
	"strings"
)

const modulePrefix = "github.com/liuxd6825/steplog/"

// CallerLocation returns the first frame on the stack outside this module,
// the reflect package and the runtime. Frames in test files count as outside.
// It returns nil when no such frame exists.
func CallerLocation() *Location {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !internalFrame(f) {
			return &Location{File: f.File, Line: f.Line, Function: f.Function}
		}
		if !more {
			return nil
		}
	}
}

func internalFrame(f runtime.Frame) bool {
	switch {
	case f.Function == "":
		return true
	case strings.HasPrefix(f.Function, "runtime."), strings.HasPrefix(f.Function, "reflect."):
		return true
	case strings.HasPrefix(f.Function, modulePrefix):
		return !strings.HasSuffix(f.File, "_test.go")
	default:
		return false
	}
}
