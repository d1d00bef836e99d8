package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// PlainFormatter formats log messages as "timestamp - LEVEL - message"
type PlainFormatter struct{}

// Format renders a logrus entry in the plain line format
func (f *PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05,000")

	level := entry.Level.String()
	switch entry.Level {
	case logrus.DebugLevel:
		level = "DEBUG"
	case logrus.InfoLevel:
		level = "INFO"
	case logrus.WarnLevel:
		level = "WARNING"
	case logrus.ErrorLevel:
		level = "ERROR"
	case logrus.FatalLevel, logrus.PanicLevel:
		level = "CRITICAL"
	}

	formatted := fmt.Sprintf("%s - %s - %s\n", timestamp, level, entry.Message)
	return []byte(formatted), nil
}

// Setup configures the logger for the requested level
func Setup(logLevel string, dryRun bool) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&PlainFormatter{})
	logger.SetOutput(os.Stdout)

	if dryRun {
		logger.Info("DRY RUN ENABLED - No changes will be made")
	}

	return logger
}
