package extensions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/evinism/supplier"
)

// BindingDebugExtension logs what was bound when a source turns out to be
// unbound at call time.
//
// Usage:
//
//	// Human-readable formatted output (with line breaks)
//	handler := extensions.NewHumanHandler(os.Stderr, slog.LevelError)
//	ext := extensions.NewBindingDebugExtension(handler)
//
//	// Structured JSON logging (compact, machine-readable)
//	handler := slog.NewJSONHandler(os.Stderr, nil)
//	ext := extensions.NewBindingDebugExtension(handler)
//
//	// Silent (for testing)
//	ext := extensions.NewBindingDebugExtension(extensions.NewSilentHandler())
//
// The extension logs at ERROR level.
type BindingDebugExtension struct {
	supplier.BaseExtension

	mu       sync.Mutex
	failures map[string]int
	logger   *slog.Logger
}

// NewBindingDebugExtension creates a new binding debug extension.
func NewBindingDebugExtension(logHandler slog.Handler) *BindingDebugExtension {
	return &BindingDebugExtension{
		BaseExtension: supplier.NewBaseExtension("binding-debug"),
		failures:      make(map[string]int),
		logger:        slog.New(logHandler),
	}
}

// Order runs the extension before default-ordered ones.
func (e *BindingDebugExtension) Order() int {
	return 10
}

// OnError logs the visible bindings when a resolve fails because a source is
// unbound. Other errors are left to other extensions.
func (e *BindingDebugExtension) OnError(ctx context.Context, err error, op *supplier.Operation) {
	if op.Kind != supplier.OpResolve || !errors.Is(err, supplier.ErrUnbound) {
		return
	}

	e.mu.Lock()
	e.failures[op.Source]++
	e.mu.Unlock()

	e.logger.ErrorContext(ctx, "Unbound Source",
		"source", op.Source,
		"target", op.Target,
		"error", err.Error(),
		"execution", supplier.ExecutionID(ctx),
		"parent_execution", supplier.ParentExecutionID(ctx),
		"bindings", formatBindings(supplier.Snapshot(ctx)),
	)
}

// Failures returns how often each source was found unbound.
func (e *BindingDebugExtension) Failures() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]int, len(e.failures))
	for k, v := range e.failures {
		out[k] = v
	}
	return out
}

func formatBindings(bound []supplier.BoundValue) string {
	var sb strings.Builder

	if len(bound) == 0 {
		sb.WriteString("\n  (none - nothing is bound in this execution)")
		return sb.String()
	}

	sb.WriteString("\n")
	for i, b := range bound {
		origin := "bound here"
		if b.Inherited {
			origin = "inherited"
		}
		branch := "├─>"
		if i == len(bound)-1 {
			branch = "└─>"
		}
		sb.WriteString(fmt.Sprintf("  %s %s = %v (%s)\n", branch, b.Cell, b.Value, origin))
	}
	return sb.String()
}

// SilentHandler is a slog.Handler that discards all log output
// Useful for testing when you don't want log output
type SilentHandler struct{}

// NewSilentHandler creates a new silent log handler
func NewSilentHandler() *SilentHandler {
	return &SilentHandler{}
}

func (h *SilentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return false
}

func (h *SilentHandler) Handle(ctx context.Context, record slog.Record) error {
	return nil
}

func (h *SilentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SilentHandler) WithGroup(name string) slog.Handler {
	return h
}

// HumanHandler is a slog.Handler that formats logs for human readability,
// framing unbound-source reports with their binding list
type HumanHandler struct {
	writer io.Writer
	level  slog.Level
}

// NewHumanHandler creates a new human-readable log handler
func NewHumanHandler(writer io.Writer, level slog.Level) *HumanHandler {
	return &HumanHandler{
		writer: writer,
		level:  level,
	}
}

func (h *HumanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *HumanHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Message == "Unbound Source" {
		return h.handleUnbound(record)
	}

	if _, err := fmt.Fprintf(h.writer, "[%s] %s\n", record.Level, record.Message); err != nil {
		return err
	}
	var writeErr error
	record.Attrs(func(a slog.Attr) bool {
		if _, err := fmt.Fprintf(h.writer, "  %s: %v\n", a.Key, a.Value); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	return writeErr
}

func (h *HumanHandler) handleUnbound(record slog.Record) error {
	var source, target, errorMsg, execution, parent, bindings string

	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "source":
			source = a.Value.String()
		case "target":
			target = a.Value.String()
		case "error":
			errorMsg = a.Value.String()
		case "execution":
			execution = a.Value.String()
		case "parent_execution":
			parent = a.Value.String()
		case "bindings":
			bindings = a.Value.String()
		}
		return true
	})

	rule := strings.Repeat("=", 70)
	writes := []func() error{
		func() error { _, err := fmt.Fprintln(h.writer); return err },
		func() error { _, err := fmt.Fprintln(h.writer, rule); return err },
		func() error { _, err := fmt.Fprintln(h.writer, "[BindingDebug] Unbound Source"); return err },
		func() error { _, err := fmt.Fprintln(h.writer, rule); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "\nSource: %s\n", source); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Target: %s\n", target); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Error: %s\n", errorMsg); return err },
		func() error { _, err := fmt.Fprintf(h.writer, "Execution: %s\n", orNone(execution)); return err },
	}
	if parent != "" {
		writes = append(writes, func() error { _, err := fmt.Fprintf(h.writer, "Forked From: %s\n", parent); return err })
	}
	writes = append(writes,
		func() error { _, err := fmt.Fprintf(h.writer, "\nVisible Bindings:%s\n", bindings); return err },
		func() error { _, err := fmt.Fprintln(h.writer, rule); return err },
		func() error { _, err := fmt.Fprintln(h.writer); return err },
	)

	for _, write := range writes {
		if err := write(); err != nil {
			return err
		}
	}

	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *HumanHandler) WithGroup(name string) slog.Handler {
	return h
}
