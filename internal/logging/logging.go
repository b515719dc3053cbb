package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging builds the process logger writing JSON lines to stdout.
func SetupLogging() *logrus.Logger {
	return NewLogger(os.Stdout)
}

// SetLevel applies a level name such as "debug" or "warn". An empty name
// keeps the current level.
func SetLevel(logger *logrus.Logger, name string) error {
	if name == "" {
		return nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("logrus.ParseLevel: %w", err)
	}
	logger.SetLevel(level)
	return nil
}

func NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}

	return &logger
}
