package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds the logger shared by every component of a command.
// Logs go to w, keeping stdout free for reports.
func newLogger(level string, json bool, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return l, nil
}
