// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import "log/slog"

// ComponentLogger tags every record with the component that wrote it.
type ComponentLogger struct {
	*slog.Logger
}

// NewLogger returns a logger for component, bound to the process logger as
// configured at the time of the call.
func NewLogger(component string) *ComponentLogger {
	return &ComponentLogger{Logger().With("component", component)}
}

// WithOperation adds the operation being served, such as "parse_url_key".
func (l *ComponentLogger) WithOperation(name string) *ComponentLogger {
	return l.WithFields("operation", name)
}

// WithFields adds alternating key-value pairs to every record.
func (l *ComponentLogger) WithFields(fields ...any) *ComponentLogger {
	return &ComponentLogger{l.Logger.With(fields...)}
}

// Slog returns the scoped logger for the WithLogger options of urlparse and
// urlpack.
func (l *ComponentLogger) Slog() *slog.Logger {
	return l.Logger
}
