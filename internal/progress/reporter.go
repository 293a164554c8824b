package progress

import (
	"go.uber.org/zap"
)

const (
	progressMessageConstant      = "audit progress"
	progressCurrentFieldConstant = "current"
	progressTotalFieldConstant   = "total"
)

// Reporter receives human-facing audit events.
type Reporter interface {
	Info(message string)
	Warn(message string)
	Progress(current int, total int)
}

// NopReporter discards every event.
type NopReporter struct{}

// Info discards the message.
func (NopReporter) Info(message string) {}

// Warn discards the message.
func (NopReporter) Warn(message string) {}

// Progress discards the update.
func (NopReporter) Progress(current int, total int) {}

// ZapReporter forwards events to a structured logger.
type ZapReporter struct {
	logger *zap.Logger
}

// NewZapReporter constructs a ZapReporter; a nil logger discards events.
func NewZapReporter(logger *zap.Logger) *ZapReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapReporter{logger: logger}
}

// Info logs the message at info level.
func (reporter *ZapReporter) Info(message string) {
	reporter.logger.Info(message)
}

// Warn logs the message at warn level.
func (reporter *ZapReporter) Warn(message string) {
	reporter.logger.Warn(message)
}

// Progress logs the position at debug level.
func (reporter *ZapReporter) Progress(current int, total int) {
	reporter.logger.Debug(
		progressMessageConstant,
		zap.Int(progressCurrentFieldConstant, current),
		zap.Int(progressTotalFieldConstant, total),
	)
}
