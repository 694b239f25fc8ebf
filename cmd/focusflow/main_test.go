package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, t.Context(), dir, args...)
}

func runCLIContext(t *testing.T, ctx context.Context, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FOCUSFLOW_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "error")
	base := []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--data-dir", dir,
		"--backend", "file",
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(base, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestDoPersistsBetweenInvocations(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "do", "note", "stretch", "at", "lunch")
	if err != nil {
		t.Fatalf("do note: %v", err)
	}
	if strings.TrimSpace(out) != "Noted" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = runCLI(t, dir, "do", "spend", "20", "coffee")
	if err != nil {
		t.Fatalf("do spend: %v", err)
	}
	if !strings.Contains(out, "bank 100") {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = runCLI(t, dir, "ledger", "-n", "1")
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if !strings.Contains(out, "Bank: 100 coins") || !strings.Contains(out, "coffee") {
		t.Fatalf("unexpected ledger:\n%s", out)
	}
}

func TestDoRejectsUnknownCommand(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "do", "fly", "away"); err == nil {
		t.Fatal("expected an error for an unknown palette command")
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "reset"); err == nil {
		t.Fatal("expected reset without --yes to fail")
	}
	out, err := runCLI(t, dir, "reset", "--yes")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "bank 120") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestConfigInitWritesOnce(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "backend: file") {
		t.Fatalf("flags must be baked into the written config:\n%s", data)
	}
	if _, err := runCLI(t, dir, "config", "init"); err == nil {
		t.Fatal("expected a second init without --force to fail")
	}
}

func TestInvalidBackendFlag(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "tasks", "--backend", "postgres"); err == nil {
		t.Fatal("expected invalid backend to be rejected")
	}
}

func TestWatchDoesNotRewriteState(t *testing.T) {
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "do", "note", "before watching"); err != nil {
		t.Fatalf("do note: %v", err)
	}
	statePath := filepath.Join(dir, "state.json")
	before, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()
	if _, err := runCLIContext(t, ctx, dir, "watch"); err != nil {
		t.Fatalf("watch: %v", err)
	}

	after, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("watch must only read the snapshot")
	}
}
