// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package logutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)
	defer SetupLogger(false, false)

	NewLogger("pgfunc").Info("hello")
	if !strings.Contains(buf.String(), "component=pgfunc") {
		t.Errorf("expected output to contain component=pgfunc, got: %s", buf.String())
	}
}

func TestWithOperationAddsContext(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)
	defer SetupLogger(false, false)

	NewLogger("pgfunc").WithOperation("parse_url_key").Info("test")

	output := buf.String()
	for _, want := range []string{"component=pgfunc", "operation=parse_url_key"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestWithFieldsAddsArbitraryFields(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)
	defer SetupLogger(false, false)

	NewLogger("urlcache").WithFields("dir", "/tmp/c", "entries", 3).Warn("opened")

	output := buf.String()
	for _, want := range []string{"component=urlcache", "dir=/tmp/c", "entries=3"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestSlogCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, true, false)
	defer SetupLogger(false, false)

	NewLogger("cli").WithOperation("encode").Slog().Debug("phase complete", "phase", "path")

	output := buf.String()
	for _, want := range []string{"component=cli", "operation=encode", "phase=path"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestComponentLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, false)
	defer SetupLogger(false, false)

	logger := NewLogger("lvl")
	logger.Debug("debug-msg")
	logger.Info("info-msg")
	logger.Warn("warn-msg")
	logger.Error("error-msg")

	output := buf.String()
	if strings.Contains(output, "debug-msg") {
		t.Errorf("debug message should be filtered at info level, got: %s", output)
	}
	for _, want := range []string{"info-msg", "warn-msg", "error-msg"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestComponentLoggerStructured(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, false, true)
	defer SetupLogger(false, false)

	NewLogger("mcp").Warn("careful", "key", "host+port")

	output := buf.String()
	if !strings.Contains(output, `"component":"mcp"`) {
		t.Errorf("expected JSON component field, got: %s", output)
	}
	if !strings.Contains(output, `"key":"host+port"`) {
		t.Errorf("expected JSON key field, got: %s", output)
	}
}
