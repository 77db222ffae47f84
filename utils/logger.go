package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var (
	// InfoLogger logs informational messages
	InfoLogger *logrus.Logger
	// ErrorLogger logs error messages
	ErrorLogger *logrus.Logger
	// DebugLogger logs debug messages
	DebugLogger *logrus.Logger

	logMu    sync.Mutex
	logsDir  string
	logFiles []*os.File
)

// InitLogger opens the daily info, error and debug log files under dir.
// jsonFormat switches the entries from text to JSON lines.
func InitLogger(dir string, jsonFormat bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
		DisableColors:   true,
	}
	if jsonFormat {
		formatter = &logrus.JSONFormatter{}
	}

	InfoLogger = newLogger(formatter, logrus.InfoLevel)
	ErrorLogger = newLogger(formatter, logrus.ErrorLevel)
	DebugLogger = newLogger(formatter, logrus.DebugLevel)

	logMu.Lock()
	logsDir = dir
	logMu.Unlock()

	return RotateLogs(time.Now())
}

func newLogger(formatter logrus.Formatter, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(formatter)
	l.SetLevel(level)
	l.SetOutput(io.Discard)
	return l
}

// RotateLogs points the loggers at the files for day, closing the previous ones
func RotateLogs(day time.Time) error {
	logMu.Lock()
	defer logMu.Unlock()

	if InfoLogger == nil {
		return fmt.Errorf("logger not initialised")
	}

	stamp := day.Format("2006-01-02")
	names := []string{"info", "error", "debug"}
	opened := make([]*os.File, 0, len(names))
	for _, name := range names {
		f, err := os.OpenFile(
			filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", name, stamp)),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
		if err != nil {
			for _, o := range opened {
				o.Close()
			}
			return fmt.Errorf("failed to open %s log file: %v", name, err)
		}
		opened = append(opened, f)
	}

	InfoLogger.SetOutput(opened[0])
	ErrorLogger.SetOutput(opened[1])
	DebugLogger.SetOutput(opened[2])

	for _, f := range logFiles {
		f.Close()
	}
	logFiles = opened
	return nil
}

// StartLogRotation schedules a midnight switch to the next day's files
func StartLogRotation(c *cron.Cron) (cron.EntryID, error) {
	return c.AddFunc("@daily", func() {
		if err := RotateLogs(time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	})
}

// CloseLogger flushes nothing but releases the open log files
func CloseLogger() {
	logMu.Lock()
	defer logMu.Unlock()
	for _, f := range logFiles {
		f.Close()
	}
	logFiles = nil
	for _, l := range []*logrus.Logger{InfoLogger, ErrorLogger, DebugLogger} {
		if l != nil {
			l.SetOutput(io.Discard)
		}
	}
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Infof(format, v...)
	}
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf(format, v...)
	}
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Debugf(format, v...)
	}
}

// LogFields returns an info entry carrying structured fields. It is safe to
// call before InitLogger; the entry then writes nowhere.
func LogFields(fields logrus.Fields) *logrus.Entry {
	if InfoLogger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		return l.WithFields(fields)
	}
	return InfoLogger.WithFields(fields)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration, requestID string) {
	LogFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"ip":         ip,
		"status":     status,
		"duration":   duration.String(),
		"request_id": requestID,
	}).Infof("Request: %s %s from %s - Status: %d", method, path, ip, status)
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Errorf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
