// Package testutil provides helpers shared by the parseurl test suites.
//
// This package includes helpers for:
//   - Capturing stdout during test execution (CaptureOutput, CaptureOutputErr)
//   - Writing fixture files into a test directory (WriteFile)
//
// All functions use t.Helper() for proper test line reporting.
//
// Example usage:
//
//	func TestParseCommand(t *testing.T) {
//	    output := testutil.CaptureOutput(t, func() error {
//	        cmd := newRootCmd()
//	        cmd.SetArgs([]string{"parse", "-o", "json", "http://h/p"})
//	        return cmd.Execute()
//	    })
//	    if !strings.Contains(output, `"host": "h"`) {
//	        t.Errorf("unexpected output: %s", output)
//	    }
//	}
package testutil
