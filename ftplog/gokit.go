package ftplog

import (
	"fmt"

	gklog "github.com/go-kit/kit/log"
	gklevel "github.com/go-kit/kit/log/level"
)

type gKLogger struct {
	logger gklog.Logger
}

func (logger *gKLogger) checkError(err error) {
	if err != nil {
		fmt.Println("logging faced this error:", err)
	}
}

func (logger *gKLogger) log(gklogger gklog.Logger, event string, keyvals ...interface{}) {
	kv := make([]interface{}, 0, len(keyvals)+2)
	kv = append(kv, "event", event)
	kv = append(kv, keyvals...)
	logger.checkError(gklogger.Log(kv...))
}

// Debug logs key-values at debug level.
func (logger *gKLogger) Debug(event string, keyvals ...interface{}) {
	logger.log(gklevel.Debug(logger.logger), event, keyvals...)
}

// Info logs key-values at info level.
func (logger *gKLogger) Info(event string, keyvals ...interface{}) {
	logger.log(gklevel.Info(logger.logger), event, keyvals...)
}

// Warn logs key-values at warn level.
func (logger *gKLogger) Warn(event string, keyvals ...interface{}) {
	logger.log(gklevel.Warn(logger.logger), event, keyvals...)
}

// Error logs key-values at error level.
func (logger *gKLogger) Error(event string, keyvals ...interface{}) {
	logger.log(gklevel.Error(logger.logger), event, keyvals...)
}

// With returns a derived logger carrying the given key-values on every
// subsequent call.
func (logger *gKLogger) With(keyvals ...interface{}) Logger {
	return NewGKLogger(gklog.With(logger.logger, keyvals...))
}

// NewGKLogger wraps a go-kit logger as a Logger.
func NewGKLogger(logger gklog.Logger) Logger {
	return &gKLogger{logger: logger}
}

// NewNopGKLogger returns a go-kit backed logger that discards everything.
func NewNopGKLogger() Logger {
	return NewGKLogger(gklog.NewNopLogger())
}

var (
	// defaultCaller adds a "caller" property.
	defaultCaller = gklog.Caller(5)
	// defaultTimestampUTC adds a "ts" property.
	defaultTimestampUTC = gklog.DefaultTimestampUTC
)
