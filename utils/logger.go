// Package utils holds the ambient pieces shared by every layer: the
// application logger, configuration loading, and panic recovery.
package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger provides logging functionality
type Logger struct {
	file   *os.File
	logger *log.Logger
	echo   bool
}

// NewLogger creates a file-backed logger that also echoes to stdout
func NewLogger(logPath string) (*Logger, error) {
	// Ensure directory exists
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open log file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		file:   file,
		logger: log.New(file, "", log.LstdFlags),
		echo:   true,
	}, nil
}

// New creates a logger writing to an arbitrary destination, without the
// stdout echo. Tests use this with a buffer or io.Discard.
func New(w io.Writer) *Logger {
	return &Logger{logger: log.New(w, "", log.LstdFlags)}
}

// Close closes the logger
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.print("[INFO] ", format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.print("[ERROR] ", format, v...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.print("[DEBUG] ", format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.print("[WARN] ", format, v...)
}

func (l *Logger) print(prefix, format string, v ...interface{}) {
	msg := fmt.Sprintf(prefix+format, v...)
	l.logger.Println(msg)
	if l.echo {
		fmt.Println(msg)
	}
}

// GetLogPath returns the dated log file path under dir
func GetLogPath(dir string) string {
	if dir == "" {
		dir = "./logs"
	}
	return filepath.Join(dir, fmt.Sprintf("moltstore-%s.log", time.Now().Format("2006-01-02")))
}
