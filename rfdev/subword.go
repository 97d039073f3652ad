package rfdev

import (
	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Subword is a device over a connection that can store less than a full
// word. When an aligned sub-word slot covers every changed bit without
// touching a protected writable bit, the narrower store is issued; otherwise
// it degrades to read-modify-write like Simple.
type Subword struct {
	base
	conn types.SubwordConn
}

// NewSubword creates a Subword device over a raw sub-word connection.
func NewSubword(conn types.SubwordConn, opts ...Option) (*Subword, error) {
	if conn == nil {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "rfdev: nil connection"}
	}
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Subword{base: b, conn: conn}, nil
}

// PickSubword selects the sub-word store slot for a masked write, if one
// exists: the returned byte offset and size describe an aligned slot that
// contains every bit of mask and no bit of ^mask & writeMask (the writable
// bits the write must preserve).
//
// Slots are scanned from the full word size halving down to single bytes,
// lowest slot first, and the first qualifying slot wins. The scan order is a
// deterministic heuristic; any returned slot is safe. ok is false when no
// slot qualifies and the caller must fall back to read-modify-write.
func PickSubword(mask, writeMask uint64, wordBytes int) (offset, size int, ok bool) {
	wm := word.Mask(wordBytes)
	mask &= wm
	keep := ^mask & writeMask & wm
	for size = wordBytes; size >= 1; size >>= 1 {
		for i := 0; i < wordBytes/size; i++ {
			slotMask := word.Mask(size) << uint(8*size*i)
			if keep&slotMask == 0 && mask&^slotMask == 0 {
				return i * size, size, true
			}
		}
	}
	return 0, 0, false
}

// Read returns the word at addr.
func (d *Subword) Read(addr uint64) (uint64, error) {
	v, err := d.conn.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	d.logger.Debug("subword read", "addr", word.Hex(addr), "value", word.Hex(v))
	return v, nil
}

// Write transfers value through the store slot chosen by PickSubword. The
// connection receives the full word value; the sub-address selects the lane.
// Without a qualifying slot the word is read back, merged and rewritten
// whole.
func (d *Subword) Write(addr uint64, value, mask, writeMask uint64) error {
	if offset, size, ok := PickSubword(mask, writeMask, d.wordBytes); ok {
		d.logger.Debug("subword write",
			"addr", word.Hex(addr+uint64(offset)), "value", word.Hex(value), "size", size)
		return d.conn.WriteSubword(addr+uint64(offset), value, size)
	}
	old, err := d.conn.ReadWord(addr)
	if err != nil {
		return err
	}
	merged := (old &^ mask) | (value & mask)
	d.logger.Debug("subword read-modify-write",
		"addr", word.Hex(addr), "old", word.Hex(old), "value", word.Hex(merged))
	return d.conn.WriteSubword(addr, merged, d.wordBytes)
}

// BlockRead returns n consecutive words starting at addr.
func (d *Subword) BlockRead(addr uint64, n int) ([]uint64, error) {
	if d.blockRead != nil {
		return d.blockRead(addr, n)
	}
	return blockReadLoop(d, addr, n)
}

// BlockWrite stores consecutive words starting at addr.
func (d *Subword) BlockWrite(addr uint64, values []uint64) error {
	if d.blockWrite != nil {
		return d.blockWrite(addr, values)
	}
	return blockWriteLoop(d, addr, values)
}
