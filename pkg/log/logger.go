package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New builds the crawler's root logger. An unknown level falls back to info and the
// problem is reported through the new logger itself.
func New(level string, out io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	logger.SetLevel(logrus.InfoLevel)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
	} else {
		logger.SetLevel(parsed)
	}
	return logrus.NewEntry(logger)
}

// Component returns a child entry tagged with the component name
func Component(base *logrus.Entry, name string) *logrus.Entry {
	return base.WithField("component", name)
}
