// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	t.Setenv(EnvDebug, "")
	defer SetupLogger(false, false)

	SetupLogger(true, false)
	if !Logger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be enabled")
	}

	SetupLogger(false, false)
	if Logger().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug to be disabled")
	}
	if !Logger().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be enabled")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" json ", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDebugEnvVar(t *testing.T) {
	t.Setenv(EnvDebug, "true")
	defer SetupLogger(false, false)

	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)

	Logger().Debug("phase complete", "phase", "scheme")
	if !strings.Contains(buf.String(), "phase complete") {
		t.Errorf("expected debug record to be written, got: %s", buf.String())
	}

	t.Setenv(EnvDebug, "")
	buf.Reset()
	SetupLoggerWithWriter(&buf, false, false)
	Logger().Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug message should not appear when disabled, got: %s", buf.String())
	}
}

func TestLogOutputText(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, true, false)
	defer SetupLogger(false, false)

	Logger().Info("test message", "key", "value")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected output to contain 'key=value', got: %s", output)
	}
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, true, true)
	defer SetupLogger(false, false)

	Logger().Info("structured test", "input", "http://h/p")

	output := buf.String()
	if !strings.Contains(output, `"msg":"structured test"`) {
		t.Errorf("expected JSON msg field, got: %s", output)
	}
	if !strings.Contains(output, `"input":"http://h/p"`) {
		t.Errorf("expected JSON input field, got: %s", output)
	}
}

func TestSetupReplacesDefault(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)
	defer SetupLogger(false, false)

	slog.Info("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("expected slog default to write to the configured writer, got: %s", buf.String())
	}
}
