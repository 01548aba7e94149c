package logging

import (
	"github.com/pion/logging"
)

var loggerFactory = logging.NewDefaultLoggerFactory()

// NewLogger returns a leveled logger for scope. Levels can be tuned per scope
// through the PION_LOG_* environment variables.
func NewLogger(scope string) logging.LeveledLogger {
	return loggerFactory.NewLogger(scope)
}

// SetDefaultLevel changes the level of loggers created after the call.
func SetDefaultLevel(level logging.LogLevel) {
	loggerFactory.DefaultLogLevel = level
}
