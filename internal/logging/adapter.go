package logging

import (
	"fmt"
	"log/slog"
)

// SlogAdapter adapts an slog.Logger to the Println/Printf style logger
// interface expected by the Telegram Bot API library (tgbotapi.BotLogger).
// All output is emitted at debug level since the library only logs
// wire-level detail.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter wrapping the given slog.Logger.
// If logger is nil, slog.Default() is used.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Println logs the arguments as a single debug message.
func (a *SlogAdapter) Println(v ...interface{}) {
	a.logger.Debug(fmt.Sprintln(v...))
}

// Printf formats and logs a debug message.
func (a *SlogAdapter) Printf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// Logger returns the underlying slog.Logger for direct access when needed.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}
