package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestProbe(t *testing.T) {
	found := func(string) (string, error) { return "/usr/bin/notify-send", nil }
	missing := func(string) (string, error) { return "", errors.New("not in PATH") }

	cases := []struct {
		name    string
		enabled bool
		exec    Exec
		granted bool
		reason  string
	}{
		{"disabled", false, Exec{GOOS: "linux", LookPath: found}, false, "disabled"},
		{"linux ok", true, Exec{GOOS: "linux", LookPath: found}, true, ""},
		{"linux missing", true, Exec{GOOS: "linux", LookPath: missing}, false, "notify-send not found"},
		{"darwin ok", true, Exec{GOOS: "darwin", LookPath: found}, true, ""},
		{"windows", true, Exec{GOOS: "windows", LookPath: found}, false, "not supported"},
	}
	for _, tc := range cases {
		got := Probe(t.Context(), tc.enabled, tc.exec)
		if got.Granted != tc.granted {
			t.Fatalf("%s: granted=%v want %v (%s)", tc.name, got.Granted, tc.granted, got.Reason)
		}
		if !strings.Contains(got.Reason, tc.reason) {
			t.Fatalf("%s: reason %q does not mention %q", tc.name, got.Reason, tc.reason)
		}
	}
}

func TestProbeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if Probe(ctx, true, Exec{GOOS: "linux"}).Granted {
		t.Fatal("canceled probe must not grant")
	}
}

func TestEscapeAppleScript(t *testing.T) {
	if got := escapeAppleScript(`say "hi"`); got != `say \"hi\"` {
		t.Fatalf("unexpected escape: %s", got)
	}
}

func TestRecorderKeepsOrder(t *testing.T) {
	var r Recorder
	_ = r.Send(t.Context(), Notification{Title: "a"})
	_ = r.Send(t.Context(), Notification{Title: "b"})
	sent := r.Sent()
	if len(sent) != 2 || sent[0].Title != "a" || sent[1].Title != "b" {
		t.Fatalf("unexpected recorded notifications: %+v", sent)
	}
	if (Noop{}).Send(t.Context(), Notification{}) != nil {
		t.Fatal("noop must not fail")
	}
}
