// Package console writes the command line output of steplog.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/liuxd6825/steplog/log"
)

// Console enables synced writing to stdout and stderr ...
type Console struct {
	IsTTY          bool
	outMx          *sync.Mutex
	Stdout, Stderr io.Writer
	rawStdout      OSFileW
	stdout, stderr *consoleWriter
	theme          *theme
	logger         *logrus.Logger
}

// New returns the pointer to a new Console value. Colors are used only when
// colorize is set and both outputs are terminals.
func New(stdout, stderr OSFileW, colorize bool, termType string) *Console {
	outMx := &sync.Mutex{}
	outCW := newConsoleWriter(stdout, outMx, termType, colorize)
	errCW := newConsoleWriter(stderr, outMx, termType, colorize)
	isTTY := outCW.isTTY && errCW.isTTY

	// Default logger without any formatting
	logger, _ := log.New(errCW, "", log.FormatText)

	var th *theme
	// Only enable themes and a fancy logger if we're in a TTY
	if isTTY && colorize {
		th = &theme{
			foreground: newColor(color.FgCyan),
			passed:     newColor(color.FgGreen),
			failed:     newColor(color.FgRed, color.Bold),
			faint:      newColor(color.Faint),
		}
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			DisableColors: false,
		})
	}

	return &Console{
		IsTTY:     isTTY,
		outMx:     outMx,
		Stdout:    outCW,
		Stderr:    errCW,
		rawStdout: stdout,
		stdout:    outCW,
		stderr:    errCW,
		theme:     th,
		logger:    logger,
	}
}

// DisableColors turns the theme off and strips escape sequences from
// everything written afterwards.
func (c *Console) DisableColors() {
	c.theme = nil
	c.outMx.Lock()
	defer c.outMx.Unlock()
	for _, w := range []*consoleWriter{c.stdout, c.stderr} {
		w.out = colorable.NewNonColorable(w.raw)
	}
	if f, ok := c.logger.Formatter.(*logrus.TextFormatter); ok {
		f.ForceColors = false
		f.DisableColors = true
	}
}

// ApplyTheme adds ANSI color escape sequences to s if themes are enabled;
// otherwise it returns s unchanged.
func (c *Console) ApplyTheme(s string) string {
	if c.colorized() {
		return c.theme.foreground.Sprint(s)
	}

	return s
}

// Passed colors s as a success.
func (c *Console) Passed(s string) string {
	if c.colorized() {
		return c.theme.passed.Sprint(s)
	}
	return s
}

// Failed colors s as a failure.
func (c *Console) Failed(s string) string {
	if c.colorized() {
		return c.theme.failed.Sprint(s)
	}
	return s
}

// Faint dims s.
func (c *Console) Faint(s string) string {
	if c.colorized() {
		return c.theme.faint.Sprint(s)
	}
	return s
}

// Banner returns the steplog banner, optionally with ANSI color escape
// sequences if themes are enabled.
func (c *Console) Banner() string {
	return c.ApplyTheme(`  ┌─┐┌┬┐┌─┐┌─┐┬  ┌─┐┌─┐
  └─┐ │ ├┤ ├─┘│  │ ││ ┬
  └─┘ ┴ └─┘┴  ┴─┘└─┘└─┘`)
}

// GetLogger returns the preconfigured plain-text logger. It will be configured
// to output colors if themes are enabled.
func (c *Console) GetLogger() *logrus.Logger {
	return c.logger
}

// Print writes s to stdout.
func (c *Console) Print(s string) {
	if _, err := fmt.Fprint(c.Stdout, s); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// Printf writes s to stdout, formatted with optional arguments.
func (c *Console) Printf(s string, a ...interface{}) {
	if _, err := fmt.Fprintf(c.Stdout, s, a...); err != nil {
		c.logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// PrintYAML marshals v to YAML, and writes the result to stdout. It returns an
// error if marshalling fails.
func (c *Console) PrintYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not marshal YAML: %w", err)
	}
	c.Print(string(data))
	return nil
}

// TermWidth returns the terminal window width in characters. If the window size
// lookup fails, or if we're not running in a TTY (interactive terminal), the
// default value of 80 will be returned. err will be non-nil if the lookup fails.
func (c *Console) TermWidth() (int, error) {
	if !c.IsTTY {
		return defaultTermWidth, nil
	}

	width, _, err := term.GetSize(int(c.rawStdout.Fd()))
	if !(width > 0) || err != nil {
		return defaultTermWidth, err
	}

	return width, nil
}

// Truncate cuts s to fit in width characters, never below a readable
// minimum.
func Truncate(s string, width int) string {
	width = max(width, minTitleWidth)
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func (c *Console) colorized() bool {
	return c.theme != nil
}

// OSFile is a subset of the functionality implemented by os.File.
type OSFile interface {
	Fd() uintptr
}

// OSFileW is the writer variant of OSFile, typically representing os.Stdout and
// os.Stderr.
type OSFileW interface {
	io.Writer
	OSFile
}

// theme is a collection of colors supported by the console output.
type theme struct {
	foreground *color.Color
	passed     *color.Color
	failed     *color.Color
	faint      *color.Color
}

// A writer that syncs writes with a mutex and, if the output is a TTY, clears
// before newlines.
type consoleWriter struct {
	raw   OSFileW
	out   io.Writer
	isTTY bool
	mutex *sync.Mutex
}

func newConsoleWriter(out OSFileW, mx *sync.Mutex, termType string, colorize bool) *consoleWriter {
	isTTY := termType != "dumb" && (isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()))
	var w io.Writer = out
	if f, ok := out.(*os.File); ok && colorize && isTTY {
		w = colorable.NewColorable(f)
	} else if !colorize {
		w = colorable.NewNonColorable(out)
	}
	return &consoleWriter{raw: out, out: w, isTTY: isTTY, mutex: mx}
}

func (w *consoleWriter) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.isTTY {
		// Add a TTY code to erase till the end of line with each new line
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.mutex.Lock()
	n, err = w.out.Write(p)
	w.mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// newColor returns the requested color with the given attributes.
func newColor(attributes ...color.Attribute) *color.Color {
	c := color.New(attributes...)
	c.EnableColor()
	return c
}
