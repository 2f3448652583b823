// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil provides the process logger used by the parseurl host
// packages and CLI.
//
// The parsing core (urlparse, urlpack) never logs on its own; callers hand it
// a *slog.Logger through WithLogger. This package owns that logger.
//
// # Basic Usage
//
//	// Initialize logging (typically in main.go)
//	logutil.SetupLogger(debug, structured)
//
//	log := logutil.NewLogger("pgfunc").WithOperation("parse_url_key")
//	u, err := urlparse.Parse(raw, urlparse.WithLogger(log.Slog()))
//
// # Debug Mode
//
// Debug logging can be enabled in two ways:
//   - Pass debug=true to SetupLogger
//   - Set PARSEURL_DEBUG=true
//
// # Formats
//
// FormatJSON writes one object per line:
//
//	{"time":"2024-01-15T10:30:00Z","level":"INFO","msg":"served","tool":"parse_url"}
//
// FormatText writes logfmt lines:
//
//	time=2024-01-15T10:30:00Z level=INFO msg=served tool=parse_url
package logutil
