// Package trace records register accesses as a compact CBOR event stream.
//
// Wrap turns any device into a tracing middleware; sinks receive one Event
// per access. The encoding uses integer keys and canonical ordering, so a
// trace of the same access sequence is byte-for-byte reproducible (modulo
// timestamps) and cheap to store for long soak runs.
package trace

import (
	"encoding/json"
	"fmt"
	"time"
)

// Op identifies the access type of an event.
type Op uint8

const (
	OpRead Op = iota + 1
	OpWrite
	OpBlockRead
	OpBlockWrite
)

// MarshalJSON renders the op as its string name. CBOR encoding is unaffected
// and keeps the compact numeric form.
func (o Op) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// String implements the Stringer interface for Op.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpBlockRead:
		return "block-read"
	case OpBlockWrite:
		return "block-write"
	default:
		return fmt.Sprintf("UNKNOWN_OP_%d", int(o))
	}
}

// Event is one recorded device access.
//
// Integer keys keep encoded events small; fields that do not apply to the
// operation are omitted (a read carries no masks, a block access carries a
// word count and values instead of a single value). The JSON tags serve
// tooling that re-exports decoded traces, not the wire format.
type Event struct {
	// Seq is the position of the event in its trace, starting at 1.
	Seq uint64 `cbor:"1,keyasint" json:"seq"`

	// Time is the wall-clock time the access completed.
	Time time.Time `cbor:"2,keyasint" json:"time"`

	// Op is the access type.
	Op Op `cbor:"3,keyasint" json:"op"`

	// Addr is the absolute address of the access.
	Addr uint64 `cbor:"4,keyasint" json:"addr"`

	// Value is the single-word value read or written.
	Value uint64 `cbor:"5,keyasint,omitempty" json:"value,omitempty"`

	// Mask covers the bits the write intends to change.
	Mask uint64 `cbor:"6,keyasint,omitempty" json:"mask,omitempty"`

	// WriteMask covers the hardware-writable bits of the target.
	WriteMask uint64 `cbor:"7,keyasint,omitempty" json:"write_mask,omitempty"`

	// Words is the word count of a block access.
	Words int `cbor:"8,keyasint,omitempty" json:"words,omitempty"`

	// Block holds the values of a block access.
	Block []uint64 `cbor:"9,keyasint,omitempty" json:"block,omitempty"`

	// Err is the error string of a failed access.
	Err string `cbor:"10,keyasint,omitempty" json:"err,omitempty"`
}

// String renders the event as a single line for debugging and dumps.
func (e Event) String() string {
	switch e.Op {
	case OpRead:
		s := fmt.Sprintf("#%d read 0x%x -> 0x%x", e.Seq, e.Addr, e.Value)
		return s + errSuffix(e.Err)
	case OpWrite:
		s := fmt.Sprintf("#%d write 0x%x <- 0x%x mask 0x%x wmask 0x%x",
			e.Seq, e.Addr, e.Value, e.Mask, e.WriteMask)
		return s + errSuffix(e.Err)
	case OpBlockRead, OpBlockWrite:
		s := fmt.Sprintf("#%d %s 0x%x words %d", e.Seq, e.Op, e.Addr, e.Words)
		return s + errSuffix(e.Err)
	default:
		return fmt.Sprintf("#%d %s 0x%x", e.Seq, e.Op, e.Addr)
	}
}

func errSuffix(err string) string {
	if err == "" {
		return ""
	}
	return " !" + err
}
