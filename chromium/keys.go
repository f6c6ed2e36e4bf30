package chromium

import (
	"fmt"

	"github.com/go-rod/rod/lib/input"
)

var namedKeys = map[string]input.Key{ //nolint:gochecknoglobals
	"Enter":      input.Enter,
	"Tab":        input.Tab,
	"Escape":     input.Escape,
	"Backspace":  input.Backspace,
	"Delete":     input.Delete,
	"Space":      input.Space,
	"ArrowUp":    input.ArrowUp,
	"ArrowDown":  input.ArrowDown,
	"ArrowLeft":  input.ArrowLeft,
	"ArrowRight": input.ArrowRight,
	"Home":       input.Home,
	"End":        input.End,
	"PageUp":     input.PageUp,
	"PageDown":   input.PageDown,
}

// keyOf maps a key name as accepted by Press to a keyboard key. Single
// printable ASCII characters stand for themselves.
func keyOf(key string) (input.Key, error) {
	if k, ok := namedKeys[key]; ok {
		return k, nil
	}
	if r := []rune(key); len(r) == 1 && r[0] >= ' ' && r[0] <= '~' {
		return input.Key(r[0]), nil
	}
	return 0, fmt.Errorf("unknown key %q", key)
}
