package trace

import (
	"sync/atomic"
	"time"

	"github.com/icglue/regfile-generics/pkg/types"
)

// Wrap returns a device that records every access to sink and delegates to
// dev. Failed accesses are recorded with their error string; the error still
// propagates to the caller unchanged. A nil sink records nothing.
func Wrap(dev types.Device, sink Sink) types.Device {
	if sink == nil {
		sink = NopSink{}
	}
	return &traced{dev: dev, sink: sink}
}

type traced struct {
	dev  types.Device
	sink Sink
	seq  atomic.Uint64
}

var _ types.Device = (*traced)(nil)

// WordBytes returns the wrapped device's word size.
func (t *traced) WordBytes() int { return t.dev.WordBytes() }

// Read delegates and records the observed value.
func (t *traced) Read(addr uint64) (uint64, error) {
	v, err := t.dev.Read(addr)
	t.record(Event{Op: OpRead, Addr: addr, Value: v, Err: errString(err)})
	return v, err
}

// Write delegates and records the full transaction including both masks.
func (t *traced) Write(addr uint64, value, mask, writeMask uint64) error {
	err := t.dev.Write(addr, value, mask, writeMask)
	t.record(Event{
		Op:        OpWrite,
		Addr:      addr,
		Value:     value,
		Mask:      mask,
		WriteMask: writeMask,
		Err:       errString(err),
	})
	return err
}

// BlockRead delegates and records the word count and observed values.
func (t *traced) BlockRead(addr uint64, n int) ([]uint64, error) {
	values, err := t.dev.BlockRead(addr, n)
	t.record(Event{Op: OpBlockRead, Addr: addr, Words: n, Block: values, Err: errString(err)})
	return values, err
}

// BlockWrite delegates and records the written values.
func (t *traced) BlockWrite(addr uint64, values []uint64) error {
	err := t.dev.BlockWrite(addr, values)
	t.record(Event{Op: OpBlockWrite, Addr: addr, Words: len(values), Block: values, Err: errString(err)})
	return err
}

func (t *traced) record(e Event) {
	e.Seq = t.seq.Add(1)
	e.Time = time.Now()
	t.sink.Record(e)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
