package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunVersionFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--version"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	out := stdout.String()
	if !strings.Contains(out, "traypulse v") {
		t.Errorf("version output = %q, want traypulse v prefix", out)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output = %q, missing %q", out, Version)
	}
	if !strings.Contains(out, BuildDate) {
		t.Errorf("version output = %q, missing build date %q", out, BuildDate)
	}
}

func TestRunMutuallyExclusiveModes(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--tray-only", "--profile-only"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "mutually exclusive") {
		t.Errorf("stderr = %q, want mutual exclusion message", stderr.String())
	}
}

func TestRunUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"--no-such-flag"}, &stdout, &stderr)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if stderr.Len() == 0 {
		t.Error("stderr empty, want flag usage output")
	}
}

func TestBuildLogger(t *testing.T) {
	tests := []struct {
		name    string
		debug   bool
		jsonLog bool
	}{
		{"default", false, false},
		{"debug", true, false},
		{"json", false, true},
		{"json debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if logger := buildLogger(tt.debug, tt.jsonLog); logger == nil {
				t.Error("buildLogger returned nil")
			}
		})
	}
}
