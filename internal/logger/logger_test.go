package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter(t *testing.T) {
	formatter := &PlainFormatter{}

	entry := &logrus.Entry{
		Time:    time.Date(2025, 5, 30, 12, 21, 53, 426_000_000, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Starting sync process",
	}

	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "2025-05-30 12:21:53,426 - INFO - Starting sync process\n"
	if string(output) != expected {
		t.Errorf("Expected %q, got %q", expected, string(output))
	}
}

func TestPlainFormatter_Levels(t *testing.T) {
	tests := []struct {
		level    logrus.Level
		expected string
	}{
		{logrus.DebugLevel, "DEBUG"},
		{logrus.InfoLevel, "INFO"},
		{logrus.WarnLevel, "WARNING"},
		{logrus.ErrorLevel, "ERROR"},
		{logrus.FatalLevel, "CRITICAL"},
	}

	formatter := &PlainFormatter{}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			entry := &logrus.Entry{
				Time:    time.Now(),
				Level:   tt.level,
				Message: "msg",
			}

			output, err := formatter.Format(entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if !strings.Contains(string(output), " - "+tt.expected+" - ") {
				t.Errorf("Expected level %s in output, got %q", tt.expected, string(output))
			}
		})
	}
}

func TestSetup(t *testing.T) {
	log := Setup("debug", false)

	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %v", log.GetLevel())
	}
}

func TestSetup_InvalidLevelFallsBack(t *testing.T) {
	log := Setup("nonsense", false)

	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level fallback, got %v", log.GetLevel())
	}
}
