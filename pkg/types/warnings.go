package types

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// -----------------------------------------------------------------------------
// Warning Channel - Non-Fatal Diagnostics
// -----------------------------------------------------------------------------
//
// Warnings report conditions the engine recovers from with a documented
// fallback: truncate, ignore, zero-fill, discard. The triggering operation
// always completes. Routing is synchronous and follows the single-threaded
// access model; handlers must not assume concurrent delivery.
//
// Usage:
//   1. Default: warnings land on slog at Warn level.
//   2. Tests/tooling: install a Report to collect and assert on them.

// WarnKind classifies a non-fatal warning.
type WarnKind int

const (
	WarnTruncation     WarnKind = iota // value truncated to fit a field's width
	WarnWriteIgnored                   // write touches bits that are not hardware-writable
	WarnPartialWrite                   // writable field omitted from a mapping write (zero-filled)
	WarnStalePending                   // uncommitted desired value discarded by a read
	WarnWordTruncation                 // value wider than the device word, truncated
	WarnInvalidSpec                    // declarative map fault found by validation
)

// String implements the Stringer interface for WarnKind.
func (k WarnKind) String() string {
	switch k {
	case WarnTruncation:
		return "truncation"
	case WarnWriteIgnored:
		return "write-ignored"
	case WarnPartialWrite:
		return "partial-write"
	case WarnStalePending:
		return "stale-pending"
	case WarnWordTruncation:
		return "word-truncation"
	case WarnInvalidSpec:
		return "invalid-spec"
	default:
		return fmt.Sprintf("UNKNOWN_WARNING_%d", int(k))
	}
}

// Warning is a single non-fatal condition raised by the engine.
type Warning struct {
	Kind     WarnKind `json:"kind"`
	Regfile  string   `json:"regfile,omitempty"`
	Register string   `json:"register,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// String renders a warning as a single line for logs and test failures.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(w.Kind.String())
	b.WriteString("]")
	if w.Register != "" {
		b.WriteString(" ")
		b.WriteString(w.Register)
		if w.Field != "" {
			b.WriteString(".")
			b.WriteString(w.Field)
		}
	} else if w.Field != "" {
		b.WriteString(" ")
		b.WriteString(w.Field)
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// MarshalJSON emits the kind as its string form so reports stay readable.
func (w Warning) MarshalJSON() ([]byte, error) {
	type alias Warning
	return json.Marshal(struct {
		Kind string `json:"kind"`
		alias
	}{Kind: w.Kind.String(), alias: alias(w)})
}

// Handler receives warnings as they are raised.
type Handler interface {
	HandleWarning(Warning)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Warning)

// HandleWarning implements Handler.
func (f HandlerFunc) HandleWarning(w Warning) { f(w) }

// NopHandler discards all warnings.
type NopHandler struct{}

// HandleWarning implements Handler.
func (NopHandler) HandleWarning(Warning) {}

// LogHandler routes warnings to a slog logger at Warn level. A nil logger
// resolves slog.Default at delivery time, so late logger configuration still
// takes effect.
func LogHandler(l *slog.Logger) Handler {
	return logHandler{l: l}
}

type logHandler struct {
	l *slog.Logger
}

func (h logHandler) HandleWarning(w Warning) {
	l := h.l
	if l == nil {
		l = slog.Default()
	}
	l.Warn(w.Message,
		"kind", w.Kind.String(),
		"regfile", w.Regfile,
		"register", w.Register,
		"field", w.Field,
	)
}

// Compile-time interface satisfaction checks.
var (
	_ Handler = HandlerFunc(nil)
	_ Handler = NopHandler{}
	_ Handler = logHandler{}
	_ Handler = (*Report)(nil)
)

// -----------------------------------------------------------------------------
// Report - collecting handler
// -----------------------------------------------------------------------------

// Report collects warnings for later inspection. It implements Handler and is
// the standard way for tests and tooling to observe the warning channel.
type Report struct {
	// Warnings in delivery order.
	Warnings []Warning `json:"warnings"`

	// ByKind groups warnings for efficient querying.
	ByKind map[WarnKind][]Warning `json:"-"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{ByKind: make(map[WarnKind][]Warning)}
}

// HandleWarning implements Handler, recording the warning and updating indices.
func (r *Report) HandleWarning(w Warning) {
	r.Warnings = append(r.Warnings, w)
	if r.ByKind == nil {
		r.ByKind = make(map[WarnKind][]Warning)
	}
	r.ByKind[w.Kind] = append(r.ByKind[w.Kind], w)
}

// Len returns the number of collected warnings.
func (r *Report) Len() int { return len(r.Warnings) }

// Count returns the number of collected warnings of the given kind.
func (r *Report) Count(kind WarnKind) int { return len(r.ByKind[kind]) }

// Has reports whether any warning of the given kind was collected.
func (r *Report) Has(kind WarnKind) bool { return r.Count(kind) > 0 }

// HasAny reports whether anything was collected.
func (r *Report) HasAny() bool { return len(r.Warnings) > 0 }

// Reset discards all collected warnings, keeping the report installable.
func (r *Report) Reset() {
	r.Warnings = nil
	r.ByKind = make(map[WarnKind][]Warning)
}

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report, one warning per line,
// grouped by kind in taxonomy order.
func (r *Report) FormatText() string {
	if len(r.Warnings) == 0 {
		return "No warnings.\n"
	}

	var b strings.Builder
	for _, kind := range []WarnKind{
		WarnTruncation, WarnWriteIgnored, WarnPartialWrite,
		WarnStalePending, WarnWordTruncation, WarnInvalidSpec,
	} {
		warns := r.ByKind[kind]
		if len(warns) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n", kind, len(warns))
		for _, w := range warns {
			fmt.Fprintf(&b, "  %s\n", w)
		}
	}
	return b.String()
}
