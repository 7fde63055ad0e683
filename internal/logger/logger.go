package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. The TUI owns the terminal, so log
// output goes to a file; when the file cannot be opened the logger
// stays silent rather than corrupting the screen.
func New(level, path string) *logrus.Entry {
	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})

	base.SetOutput(io.Discard)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				base.SetOutput(f)
			}
		}
	}

	switch level {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return logrus.NewEntry(base)
}

// Discard is a logger for tests and for callers that have nowhere to
// write.
func Discard() *logrus.Entry {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return logrus.NewEntry(base)
}
