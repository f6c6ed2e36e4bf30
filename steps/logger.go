package steps

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/steplog/intercept"
)

// Logger writes a line for every finished step. Failed steps are logged at
// error level together with the error.
type Logger struct {
	logger logrus.FieldLogger
	now    func() time.Time
}

var _ intercept.Stepper = &Logger{}

// NewLogger returns a stepper logging to logger under the "step" category.
func NewLogger(logger logrus.FieldLogger) *Logger {
	return &Logger{
		logger: logger.WithField("category", "step"),
		now:    time.Now,
	}
}

// Step implements intercept.Stepper.
func (l *Logger) Step(title string, loc *intercept.Location, body func() ([]any, error)) ([]any, error) {
	start := l.now()
	out, err := body()

	entry := l.logger.WithField("elapsed", l.now().Sub(start).String())
	if loc != nil {
		entry = entry.WithField("source", loc.String())
	}
	if err != nil {
		entry.WithError(err).Error(title)
	} else {
		entry.Info(title)
	}
	return out, err
}
