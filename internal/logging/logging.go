// Package logging configures the logrus logger shared by the hook's commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w. Hook output is read by humans in a
// pre-commit run, so timestamps are omitted; verbose enables debug entries.
func New(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
