package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	defaultLogger *log.Logger
	once          sync.Once
)

// Default returns the process-wide logger. Output always goes to stderr:
// stdout is reserved for results and, in mcp-serve mode, the MCP protocol.
func Default() *log.Logger {
	once.Do(func() {
		defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "pr-agent",
		})
		if os.Getenv("DEBUG") != "" {
			defaultLogger.SetLevel(log.DebugLevel)
		} else {
			defaultLogger.SetLevel(log.InfoLevel)
		}
	})
	return defaultLogger
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	Default().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	Default().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	Default().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	Default().Debug(msg, keyvals...)
}
