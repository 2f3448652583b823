// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the log line encoding.
type Format string

const (
	// FormatText writes logfmt-style key=value lines.
	FormatText Format = "text"
	// FormatJSON writes one JSON object per line.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid log format %q (valid options: text, json)", s)
	}
}

// EnvDebug enables debug logging when set to "true".
const EnvDebug = "PARSEURL_DEBUG"

var (
	mu      sync.RWMutex
	process *slog.Logger
)

func init() {
	SetupLogger(false, false)
}

// SetupLogger points the process logger at stderr. debug lowers the level
// to slog.LevelDebug, and so does PARSEURL_DEBUG=true. structured selects
// FormatJSON. It also becomes slog's default logger.
func SetupLogger(debug, structured bool) {
	SetupLoggerWithWriter(os.Stderr, debug, structured)
}

// SetupLoggerWithWriter is SetupLogger with a custom destination.
func SetupLoggerWithWriter(w io.Writer, debug, structured bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug || os.Getenv(EnvDebug) == "true" {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if structured {
		h = slog.NewJSONHandler(w, opts)
	}

	mu.Lock()
	defer mu.Unlock()
	process = slog.New(h)
	slog.SetDefault(process)
}

// Logger returns the process logger. Component loggers made by NewLogger
// are derived from it.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return process
}
