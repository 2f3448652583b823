// Package cliout provides structured output formatting for the parseurl CLI.
// It supports human-readable text, JSON and YAML, with ANSI styling that is
// switched off when stdout is not a terminal or NO_COLOR is set.
package cliout

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// ANSI codes for consistent styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red          = "\033[31m"
	Green        = "\033[32m"
	Yellow       = "\033[33m"
	Cyan         = "\033[36m"
	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols and their ASCII fallbacks.
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolDash    = "─"

	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
	ASCIIDash    = "-"
)

var (
	mu           sync.RWMutex
	globalFormat = FormatDefault
	colorEnabled = detectColor()
	output       io.Writer // nil means os.Stdout at call time
)

var supportsUnicode = detectUnicodeSupport()

// detectColor enables styling only for an interactive stdout without
// NO_COLOR (https://no-color.org).
func detectColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	return os.Getenv("WT_SESSION") != "" ||
		os.Getenv("TERM_PROGRAM") == "vscode" ||
		os.Getenv("PSModulePath") != "" ||
		os.Getenv("TERM") != ""
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	colorEnabled = true
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	colorEnabled = false
	mu.Unlock()
}

// ColorEnabled reports whether ANSI styling is written.
func ColorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return colorEnabled
}

// SetOutput redirects all output. Passing nil restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

func out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	if output == nil {
		return os.Stdout
	}
	return output
}

// style wraps s in code when color is enabled.
func style(code, s string) string {
	if !ColorEnabled() {
		return s
	}
	return code + s + Reset
}

// ParseFormat validates a format name. An empty name selects FormatDefault.
func ParseFormat(format string) (Format, error) {
	switch format {
	case "default", "":
		return FormatDefault, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid options: default, json, yaml)", format)
	}
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	mu.Lock()
	globalFormat = f
	mu.Unlock()
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// IsStructured returns true for the machine-readable formats.
func IsStructured() bool {
	return GetFormat() != FormatDefault
}

// PrintJSON prints data as indented JSON.
func PrintJSON(data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	_, err = fmt.Fprintf(out(), "%s\n", b)
	return err
}

// PrintYAML prints data as YAML.
func PrintYAML(data interface{}) error {
	enc := yaml.NewEncoder(out())
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// Print outputs data in the configured format. For the default format the
// formatter function is called instead.
func Print(data interface{}, formatter func()) error {
	switch GetFormat() {
	case FormatJSON:
		return PrintJSON(data)
	case FormatYAML:
		return PrintYAML(data)
	}
	formatter()
	return nil
}

// Header prints a bold header with a divider.
func Header(text string) {
	w := out()
	fmt.Fprintf(w, "%s\n", style(Bold, text))
	fmt.Fprintln(w, strings.Repeat(getIcon(SymbolDash, ASCIIDash), len(text)))
}

// Success prints a success message with a green checkmark.
func Success(format string, args ...interface{}) {
	fmt.Fprintf(out(), "%s %s\n", style(BrightGreen, getIcon(SymbolCheck, ASCIICheck)), fmt.Sprintf(format, args...))
}

// Error prints an error message with a red cross.
func Error(format string, args ...interface{}) {
	fmt.Fprintf(out(), "%s %s\n", style(BrightRed, getIcon(SymbolCross, ASCIICross)), fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func Warning(format string, args ...interface{}) {
	fmt.Fprintf(out(), "%s  %s\n", style(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), fmt.Sprintf(format, args...))
}

// Info prints an info message.
func Info(format string, args ...interface{}) {
	fmt.Fprintf(out(), "%s  %s\n", style(BrightBlue, getIcon(SymbolInfo, ASCIIInfo)), fmt.Sprintf(format, args...))
}

// Plain prints plain text followed by a newline.
func Plain(format string, args ...interface{}) {
	fmt.Fprintf(out(), format+"\n", args...)
}

// Newline prints a blank line.
func Newline() {
	fmt.Fprintln(out())
}

// Label prints a label and value pair. Labels are padded to width.
func Label(label, value string, width int) {
	fmt.Fprintf(out(), "%s %s\n", style(Dim, fmt.Sprintf("%-*s", width+1, label+":")), value)
}

// Muted returns dim text.
func Muted(format string, args ...interface{}) string {
	return style(Dim, fmt.Sprintf(format, args...))
}

// Highlight returns bold cyan text.
func Highlight(format string, args ...interface{}) string {
	return style(Bold+Cyan, fmt.Sprintf(format, args...))
}

// Hint prints hints on a single line with bullet separators.
func Hint(hints ...string) {
	if len(hints) == 0 {
		return
	}
	fmt.Fprintln(out(), style(Dim, strings.Join(hints, " • ")))
}

// TableRow represents a row in a table as a map of column header to value.
type TableRow map[string]string

// Table prints a simple table with the given headers and rows.
func Table(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}
	w := out()

	widths := make(map[string]int)
	for _, header := range headers {
		widths[header] = len(header)
	}
	for _, row := range rows {
		for _, header := range headers {
			if len(row[header]) > widths[header] {
				widths[header] = len(row[header])
			}
		}
	}

	var line strings.Builder
	for _, header := range headers {
		line.WriteString(style(Bold, fmt.Sprintf("%-*s", widths[header], header)) + "  ")
	}
	fmt.Fprintln(w, strings.TrimRight(line.String(), " "))

	line.Reset()
	for _, header := range headers {
		line.WriteString(strings.Repeat(getIcon(SymbolDash, ASCIIDash), widths[header]) + "  ")
	}
	fmt.Fprintln(w, strings.TrimRight(line.String(), " "))

	for _, row := range rows {
		line.Reset()
		for _, header := range headers {
			fmt.Fprintf(&line, "%-*s  ", widths[header], row[header])
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}
