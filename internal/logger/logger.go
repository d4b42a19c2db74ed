// Package logger configures the process-wide logrus logger.
package logger

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Init sets the level and output format of the standard logrus logger.
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid verbosity %q", level)
	}

	var formatter logrus.Formatter
	switch format {
	case FormatText:
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case FormatJSON:
		formatter = &logrus.JSONFormatter{}
	default:
		return errors.Errorf("unsupported log format %q, use text or json", format)
	}

	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(formatter)
	return nil
}
