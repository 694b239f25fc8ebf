// Package logger owns the component loggers shared by every focusflow package.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Component loggers; rebuilt by Init.
var (
	Main      *slog.Logger
	State     *slog.Logger
	Store     *slog.Logger
	Scheduler *slog.Logger
	Notify    *slog.Logger
	UI        *slog.Logger
)

func init() {
	Init("text", "info", os.Stderr)
}

// Init configures the component loggers.
// format is "text" (colored, human-friendly) or "json" (structured JSON).
func Init(format, level string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = newPrettyHandler(w, opts)
	}
	base := slog.New(h)
	Main = base.With("component", "main")
	State = base.With("component", "state")
	Store = base.With("component", "store")
	Scheduler = base.With("component", "watcher")
	Notify = base.With("component", "notify")
	UI = base.With("component", "ui")
}

// Discard silences every component logger.
func Discard() {
	Init("json", "error", io.Discard)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at error level and exits with code 1.
func Fatal(l *slog.Logger, msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
	ansiGray   = "\033[90m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

// prettyHandler prints aligned, optionally colored lines for terminals and log files.
type prettyHandler struct {
	w        io.Writer
	opts     *slog.HandlerOptions
	mu       *sync.Mutex
	preAttrs []slog.Attr
	color    bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		w:     w,
		opts:  opts,
		mu:    &sync.Mutex{},
		color: isColorEnabled(w),
	}
}

// isColorEnabled respects NO_COLOR and TERM=dumb and only colors real terminals.
func isColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.preAttrs = append(h.preAttrs[:len(h.preAttrs):len(h.preAttrs)], attrs...)
	return &cp
}

func (h *prettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	all := make([]slog.Attr, 0, len(h.preAttrs)+r.NumAttrs())
	all = append(all, h.preAttrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)
		return true
	})

	component := ""
	extra := make([]slog.Attr, 0, len(all))
	for _, a := range all {
		if a.Key == "component" {
			component = a.Value.String()
		} else {
			extra = append(extra, a)
		}
	}

	col := func(code, s string) string {
		if h.color {
			return code + s + ansiReset
		}
		return s
	}

	var b strings.Builder
	b.WriteString(col(ansiDim+ansiGray, r.Time.Format("15:04:05.000")))
	b.WriteString("  ")

	switch {
	case r.Level < slog.LevelInfo:
		b.WriteString(col(ansiGray, "DBG"))
	case r.Level < slog.LevelWarn:
		b.WriteString(col(ansiGreen+ansiBold, "INF"))
	case r.Level < slog.LevelError:
		b.WriteString(col(ansiYellow+ansiBold, "WRN"))
	default:
		b.WriteString(col(ansiRed+ansiBold, "ERR"))
	}
	b.WriteString("  ")

	b.WriteString(col(ansiCyan, fmt.Sprintf("%-8s", component)))
	b.WriteString("  ")
	b.WriteString(r.Message)

	for _, a := range extra {
		b.WriteString("  ")
		b.WriteString(col(ansiDim, a.Key))
		b.WriteByte('=')
		v := fmt.Sprintf("%v", a.Value.Resolve().Any())
		if a.Key == "error" {
			b.WriteString(col(ansiRed, v))
		} else {
			b.WriteString(v)
		}
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
