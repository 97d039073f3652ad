package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnKind_String(t *testing.T) {
	tests := []struct {
		name     string
		kind     WarnKind
		expected string
	}{
		{"truncation", WarnTruncation, "truncation"},
		{"write-ignored", WarnWriteIgnored, "write-ignored"},
		{"partial-write", WarnPartialWrite, "partial-write"},
		{"stale-pending", WarnStalePending, "stale-pending"},
		{"word-truncation", WarnWordTruncation, "word-truncation"},
		{"unknown kind", WarnKind(42), "UNKNOWN_WARNING_42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("WarnKind(%d).String() = %q, expected %q", int(tt.kind), got, tt.expected)
			}
		})
	}
}

func TestWarning_String_RegisterAndFieldAttribution(t *testing.T) {
	w := Warning{
		Kind:     WarnTruncation,
		Register: "ctrl",
		Field:    "cfg",
		Message:  "value 0x2f is truncated to 0xf",
	}
	require.Equal(t, "[truncation] ctrl.cfg: value 0x2f is truncated to 0xf", w.String())

	// No field: register only.
	w = Warning{Kind: WarnStalePending, Register: "ctrl", Message: "pending value discarded"}
	require.Equal(t, "[stale-pending] ctrl: pending value discarded", w.String())

	// Neither: bare message.
	w = Warning{Kind: WarnWordTruncation, Message: "value too wide"}
	require.Equal(t, "[word-truncation]: value too wide", w.String())
}

func TestReport_CollectsAndGroupsByKind(t *testing.T) {
	r := NewReport()
	require.False(t, r.HasAny())

	r.HandleWarning(Warning{Kind: WarnTruncation, Register: "r0", Field: "a", Message: "m1"})
	r.HandleWarning(Warning{Kind: WarnTruncation, Register: "r0", Field: "b", Message: "m2"})
	r.HandleWarning(Warning{Kind: WarnPartialWrite, Register: "r0", Message: "m3"})

	require.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.Count(WarnTruncation))
	assert.Equal(t, 1, r.Count(WarnPartialWrite))
	assert.Equal(t, 0, r.Count(WarnStalePending))
	assert.True(t, r.Has(WarnPartialWrite))
	assert.False(t, r.Has(WarnWriteIgnored))

	r.Reset()
	require.False(t, r.HasAny())
	require.Equal(t, 0, r.Count(WarnTruncation))
}

func TestReport_ZeroValueIsUsable(t *testing.T) {
	// A Report declared without NewReport must still collect.
	var r Report
	r.HandleWarning(Warning{Kind: WarnWriteIgnored, Register: "r0", Message: "m"})
	require.Equal(t, 1, r.Len())
	require.True(t, r.Has(WarnWriteIgnored))
}

func TestReport_FormatText_GroupsInTaxonomyOrder(t *testing.T) {
	r := NewReport()
	r.HandleWarning(Warning{Kind: WarnStalePending, Register: "r1", Message: "late"})
	r.HandleWarning(Warning{Kind: WarnTruncation, Register: "r0", Field: "f", Message: "cut"})

	text := r.FormatText()
	assert.Contains(t, text, "truncation (1)")
	assert.Contains(t, text, "stale-pending (1)")
	assert.Contains(t, text, "[truncation] r0.f: cut")
	// Truncation group renders before stale-pending regardless of delivery order.
	assert.Less(t, strings.Index(text, "truncation (1)"), strings.Index(text, "stale-pending (1)"))

	empty := NewReport()
	require.Equal(t, "No warnings.\n", empty.FormatText())
}

func TestReport_FormatJSON_KindAsString(t *testing.T) {
	r := NewReport()
	r.HandleWarning(Warning{Kind: WarnPartialWrite, Register: "r0", Message: "zero-filled"})

	out, err := r.FormatJSON()
	require.NoError(t, err)

	var decoded struct {
		Warnings []map[string]any `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Warnings, 1)
	assert.Equal(t, "partial-write", decoded.Warnings[0]["kind"])
	assert.Equal(t, "r0", decoded.Warnings[0]["register"])
}

func TestHandlerFunc_Delivers(t *testing.T) {
	var got []Warning
	h := HandlerFunc(func(w Warning) { got = append(got, w) })
	h.HandleWarning(Warning{Kind: WarnTruncation, Message: "m"})
	require.Len(t, got, 1)
	require.Equal(t, WarnTruncation, got[0].Kind)
}

func TestError_KindMatchingWithErrorsIs(t *testing.T) {
	wrapped := &Error{Kind: ErrKindUnknownField, Msg: `field "cfg" does not exist`, Err: nil}
	require.True(t, errors.Is(wrapped, ErrUnknownField))
	require.False(t, errors.Is(wrapped, ErrUnknownRegister))

	// fmt %w chains resolve through Unwrap.
	chained := fmt.Errorf("lookup: %w", wrapped)
	require.True(t, errors.Is(chained, ErrUnknownField))
}

func TestError_MessageRendering(t *testing.T) {
	cause := errors.New("backend refused")
	e := &Error{Kind: ErrKindRange, Msg: "index 9 is out of bounds", Err: cause}
	require.Equal(t, "index 9 is out of bounds: backend refused", e.Error())
	require.Equal(t, cause, errors.Unwrap(e))

	bare := &Error{Kind: ErrKindSealed, Msg: "register file is sealed"}
	require.Equal(t, "register file is sealed", bare.Error())
}
