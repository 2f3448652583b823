// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package browser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/urlparse"
	pkgbrowser "github.com/pkg/browser"
)

// Target represents the browser target for launching URLs.
type Target string

const (
	// TargetDefault uses the system default browser
	TargetDefault Target = "default"
	// TargetSystem uses the system default browser (alias for TargetDefault)
	TargetSystem Target = "system"
	// TargetNone disables browser launching
	TargetNone Target = "none"
)

// DefaultTimeout bounds how long Launch waits for the opener command.
const DefaultTimeout = 5 * time.Second

// ErrUnsupportedURL is returned for URLs that are not safe to hand to the
// system opener.
var ErrUnsupportedURL = errors.New("unsupported URL")

// openURL is replaced in tests.
var openURL = pkgbrowser.OpenURL

func init() {
	// The opener's own chatter would corrupt structured output.
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// ValidTargets returns all valid browser target values.
func ValidTargets() []Target {
	return []Target{TargetDefault, TargetSystem, TargetNone}
}

// IsValid checks if a target string is valid.
func IsValid(target string) bool {
	t := Target(target)
	for _, valid := range ValidTargets() {
		if t == valid {
			return true
		}
	}
	return false
}

// ResolveTarget converts "default" to "system" and respects "none".
func ResolveTarget(target Target) Target {
	if target == TargetNone {
		return TargetNone
	}
	return TargetSystem
}

// LaunchOptions contains options for launching a browser.
type LaunchOptions struct {
	// URL to open
	URL string
	// Target browser to use
	Target Target
	// Timeout for the opener (default 5 seconds)
	Timeout time.Duration
}

// Validate parses raw and returns its canonical form if it is an absolute
// http or https URL with a host.
func Validate(raw string) (string, error) {
	u, err := urlparse.Parse(raw)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("%w: scheme must be http or https", ErrUnsupportedURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrUnsupportedURL)
	}
	return u.String(), nil
}

// Launch opens the canonical form of opts.URL in the browser selected by the
// target. It returns the canonical URL. The opener is waited on for at most
// the timeout; an opener still running after that is left alone.
func Launch(opts LaunchOptions) (string, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	canonical, err := Validate(opts.URL)
	if err != nil {
		return "", err
	}

	if ResolveTarget(opts.Target) == TargetNone {
		return canonical, nil
	}

	log := logutil.NewLogger("browser")
	done := make(chan error, 1)
	go func() { done <- openURL(canonical) }()

	select {
	case err := <-done:
		if err != nil {
			return canonical, fmt.Errorf("could not open browser: %w", err)
		}
		log.Debug("opened browser", "url", canonical)
	case <-time.After(opts.Timeout):
		log.Warn("browser opener did not finish", "timeout", opts.Timeout)
	}
	return canonical, nil
}

// GetTargetDisplayName returns a human-readable name for the browser target.
func GetTargetDisplayName(target Target) string {
	switch ResolveTarget(target) {
	case TargetNone:
		return "none"
	default:
		return "default browser"
	}
}

// FormatValidTargets returns a comma-separated list of valid targets.
func FormatValidTargets() string {
	targets := ValidTargets()
	strs := make([]string, len(targets))
	for i, t := range targets {
		strs[i] = string(t)
	}
	return strings.Join(strs, ", ")
}
