package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// levelsFrom returns the levels a hook fires for when its threshold is
// level: level itself and every more severe one.
func levelsFrom(level string) ([]logrus.Level, error) {
	threshold, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %s", level)
	}
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= threshold {
			levels = append(levels, l)
		}
	}
	return levels, nil
}
