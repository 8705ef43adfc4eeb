// Package logging provides structured logging utilities for the calbot
// application.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard
// library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (attendee email anonymization)
//   - Consistent attribute naming across the codebase
//   - An adapter that routes the Telegram library's internal log output
//     through slog
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithWorkflow(slog.Default(), "create")
//	logger.Info("event inserted",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("attendee added",
//	    logging.UserHash(email))
package logging
