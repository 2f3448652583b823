package version

import (
	"runtime"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/jongio/parseurl/cliout"
	"github.com/jongio/parseurl/testutil"
)

func TestNew_Defaults(t *testing.T) {
	info := New("parseurl")
	if info.Name != "parseurl" {
		t.Errorf("expected name 'parseurl', got %q", info.Name)
	}
	if info.Version != "0.0.0-dev" {
		t.Errorf("expected default version '0.0.0-dev', got %q", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("expected go version %q, got %q", runtime.Version(), info.GoVersion)
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("unexpected platform %q", info.Platform)
	}
}

func TestInfo_String(t *testing.T) {
	info := &Info{Name: "parseurl", Version: "1.2.3", GitCommit: "abc123", BuildDate: "2024-01-15"}
	want := "parseurl version 1.2.3 (commit: abc123, built: 2024-01-15)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCacheVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "1.2.3", "unknown"
	if got := CacheVersion(); got != "1.2.3" {
		t.Errorf("CacheVersion() = %q, want 1.2.3", got)
	}

	GitCommit = "abc123"
	if got := CacheVersion(); got != "1.2.3+abc123" {
		t.Errorf("CacheVersion() = %q, want 1.2.3+abc123", got)
	}
}

func TestNewCommand_HumanReadable(t *testing.T) {
	cliout.NoColor()
	cmd := NewCommand(New("parseurl"))
	cmd.SetArgs([]string{})

	output := testutil.CaptureOutput(t, cmd.Execute)
	for _, want := range []string{"parseurl version", "Version:", "Build Date:", "Git Commit:", "Platform:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestNewCommand_JSON(t *testing.T) {
	if err := cliout.SetFormat("json"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = cliout.SetFormat("default") }()

	cmd := NewCommand(New("parseurl"))
	cmd.SetArgs([]string{"--quiet"})

	output := testutil.CaptureOutput(t, cmd.Execute)
	var parsed Info
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got error: %v\noutput: %s", err, output)
	}
	if parsed.Version != "0.0.0-dev" {
		t.Errorf("expected version '0.0.0-dev', got %q", parsed.Version)
	}
}

func TestNewCommand_Quiet(t *testing.T) {
	cmd := NewCommand(New("parseurl"))
	cmd.SetArgs([]string{"--quiet"})

	output := testutil.CaptureOutput(t, cmd.Execute)
	if trimmed := strings.TrimSpace(output); trimmed != "0.0.0-dev" {
		t.Errorf("expected '0.0.0-dev', got %q", trimmed)
	}
}

func TestNewCommand_RejectsArgs(t *testing.T) {
	cmd := NewCommand(New("parseurl"))
	cmd.SetArgs([]string{"extra"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for unexpected arguments")
	}
}
