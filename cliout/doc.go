// Package cliout provides structured output formatting for the parseurl CLI.
//
// # Basic Usage
//
//	cliout.Success("wrote %d entries", n)
//	cliout.Error("parse failed: %v", err)
//	cliout.Label("host", "example.com", 8)
//
// # Output Formats
//
// Three formats are supported:
//   - default: human-readable text, styled when stdout is a terminal
//   - json: indented JSON, encoded with github.com/goccy/go-json
//   - yaml: YAML, encoded with gopkg.in/yaml.v3
//
// Commands pass both the value and a formatter to Print; the formatter runs
// only for the default format:
//
//	err := cliout.Print(record, func() {
//		for _, name := range pgfunc.Columns() {
//			cliout.Label(name, value(name), 8)
//		}
//	})
//
// # Color
//
// Styling is enabled when stdout is a terminal (golang.org/x/term) and the
// NO_COLOR environment variable is unset. ForceColor and NoColor override the
// detection. When disabled, no escape sequences are written at all.
//
// # Testing
//
// SetOutput redirects everything the package writes, which is simpler than
// swapping os.Stdout in tests:
//
//	var buf bytes.Buffer
//	cliout.SetOutput(&buf)
//	defer cliout.SetOutput(nil)
package cliout
