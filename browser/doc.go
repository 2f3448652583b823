// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package browser opens parsed URLs in the user's web browser.
//
// URLs are run through the parseurl scanner first and only absolute http or
// https URLs with a host are accepted; the canonical rendering, not the raw
// input, is what reaches the system opener. Launching itself is delegated
// to github.com/pkg/browser.
//
// # Browser Targets
//
//   - TargetDefault: Uses the system default browser (alias for TargetSystem)
//   - TargetSystem: Uses the system default browser
//   - TargetNone: Validates and canonicalizes but does not launch
//
// # Example Usage
//
//	canonical, err := browser.Launch(browser.LaunchOptions{
//	    URL:    "HTTPS://Example.com:443/docs?#",
//	    Target: browser.TargetDefault,
//	})
//	// canonical == "HTTPS://Example.com:443/docs"
package browser
