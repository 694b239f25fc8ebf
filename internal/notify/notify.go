// Package notify delivers desktop notifications and resolves whether the
// host can deliver them at all.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

type Notification struct {
	Title string
	Body  string
}

// Notifier sends one notification. Callers treat delivery as best effort.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type Noop struct{}

func (Noop) Send(context.Context, Notification) error { return nil }

// Exec shells out to notify-send on linux and osascript on darwin.
type Exec struct {
	GOOS     string
	LookPath func(string) (string, error)
}

func NewExec() Exec {
	return Exec{GOOS: runtime.GOOS, LookPath: exec.LookPath}
}

func (e Exec) Send(ctx context.Context, n Notification) error {
	switch e.goos() {
	case "linux":
		return exec.CommandContext(ctx, "notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.CommandContext(ctx, "osascript", "-e", script).Run()
	default:
		return nil
	}
}

// Binary names the helper Send runs on this platform, or "" when there is none.
func (e Exec) Binary() string {
	switch e.goos() {
	case "linux":
		return "notify-send"
	case "darwin":
		return "osascript"
	default:
		return ""
	}
}

func (e Exec) goos() string {
	if e.GOOS == "" {
		return runtime.GOOS
	}
	return e.GOOS
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Recorder keeps every notification it is asked to send.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
	Err  error
}

func (r *Recorder) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.Err
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
