package regfile

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icglue/regfile-generics/pkg/types"
)

// devCall records one device access.
type devCall struct {
	op        string // "read", "write", "block-read", "block-write"
	addr      uint64
	value     uint64
	mask      uint64
	writeMask uint64
	words     int
}

// fakeDevice is a word-granular in-memory device recording every access. Its
// backing store merges masked writes the way a read-modify-write backend
// would, so end-state assertions work alongside call assertions.
type fakeDevice struct {
	wordBytes int
	mem       map[uint64]uint64
	calls     []devCall
	failWith  error // next access returns this error once
}

func newFakeDevice(wordBytes int) *fakeDevice {
	return &fakeDevice{wordBytes: wordBytes, mem: make(map[uint64]uint64)}
}

func (d *fakeDevice) WordBytes() int { return d.wordBytes }

func (d *fakeDevice) Read(addr uint64) (uint64, error) {
	if err := d.takeErr(); err != nil {
		return 0, err
	}
	d.calls = append(d.calls, devCall{op: "read", addr: addr})
	return d.mem[addr], nil
}

func (d *fakeDevice) Write(addr uint64, value, mask, writeMask uint64) error {
	if err := d.takeErr(); err != nil {
		return err
	}
	d.calls = append(d.calls, devCall{
		op: "write", addr: addr, value: value, mask: mask, writeMask: writeMask,
	})
	d.mem[addr] = (d.mem[addr] &^ mask) | (value & mask)
	return nil
}

func (d *fakeDevice) BlockRead(addr uint64, n int) ([]uint64, error) {
	if err := d.takeErr(); err != nil {
		return nil, err
	}
	d.calls = append(d.calls, devCall{op: "block-read", addr: addr, words: n})
	out := make([]uint64, n)
	w := uint64(d.wordBytes)
	for i := range out {
		out[i] = d.mem[addr+uint64(i)*w]
	}
	return out, nil
}

func (d *fakeDevice) BlockWrite(addr uint64, values []uint64) error {
	if err := d.takeErr(); err != nil {
		return err
	}
	d.calls = append(d.calls, devCall{op: "block-write", addr: addr, words: len(values)})
	w := uint64(d.wordBytes)
	for i, v := range values {
		d.mem[addr+uint64(i)*w] = v
	}
	return nil
}

func (d *fakeDevice) takeErr() error {
	err := d.failWith
	d.failWith = nil
	return err
}

func (d *fakeDevice) clearCalls() { d.calls = nil }

var _ types.Device = (*fakeDevice)(nil)

// buildCtrlFile builds the fixture shared across the engine tests: a 32-bit
// register "config" at offset 0x10 with writable cfg/en fields, a read-only
// status field and write mask 0x1ff, plus a fully writable "scratch" register
// at offset 0x14.
func buildCtrlFile(t *testing.T, dev types.Device, h types.Handler) *Regfile {
	t.Helper()
	opts := []Option{WithName("ctrl")}
	if h != nil {
		opts = append(opts, WithWarningHandler(h))
	}
	rf := New(dev, 0, opts...)
	b := rf.Open()

	e, err := b.Add("config", 0x10, 0x1ff)
	require.NoError(t, err)
	require.NoError(t, e.AddField(FieldDesc{Name: "cfg", Bits: "4:0", Access: "RW"}))
	require.NoError(t, e.AddField(FieldDesc{Name: "en", Bits: "8", Access: "RW"}))
	require.NoError(t, e.AddField(FieldDesc{Name: "status", Bits: "31:16", Access: "RO"}))

	s, err := b.Entry("scratch")
	require.NoError(t, err)
	require.NoError(t, s.SetAddr(0x14))
	require.NoError(t, s.AddField(FieldDesc{Name: "value", Bits: "31:0", Access: "RW"}))

	b.Close()
	return rf
}

func mustRegister(t *testing.T, rf *Regfile, name string) *Register {
	t.Helper()
	r, err := rf.Register(name)
	require.NoError(t, err)
	return r
}

// recordingSlogHandler captures Warn-level messages, for asserting on the
// default warning path.
type recordingSlogHandler struct {
	warnMessages []string
}

func (h *recordingSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (h *recordingSlogHandler) Handle(_ context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.warnMessages = append(h.warnMessages, r.Message)
	}
	return nil
}

func (h *recordingSlogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingSlogHandler) WithGroup(string) slog.Handler { return h }
