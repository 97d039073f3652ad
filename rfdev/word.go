package rfdev

import (
	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Word is a device whose writes are always full-word stores. Masks are
// ignored: the caller guarantees the value is complete, which is exactly what
// the register engine provides for fully writable registers.
type Word struct {
	base
	conn types.WordConn
}

// NewWord creates a Word device over a raw word connection.
func NewWord(conn types.WordConn, opts ...Option) (*Word, error) {
	if conn == nil {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "rfdev: nil connection"}
	}
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Word{base: b, conn: conn}, nil
}

// Read returns the word at addr.
func (d *Word) Read(addr uint64) (uint64, error) {
	v, err := d.conn.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	d.logger.Debug("word read", "addr", word.Hex(addr), "value", word.Hex(v))
	return v, nil
}

// Write stores the full word regardless of mask and writeMask.
func (d *Word) Write(addr uint64, value, mask, writeMask uint64) error {
	d.logger.Debug("word write", "addr", word.Hex(addr), "value", word.Hex(value))
	return d.conn.WriteWord(addr, value)
}

// BlockRead returns n consecutive words starting at addr.
func (d *Word) BlockRead(addr uint64, n int) ([]uint64, error) {
	if d.blockRead != nil {
		return d.blockRead(addr, n)
	}
	return blockReadLoop(d, addr, n)
}

// BlockWrite stores consecutive words starting at addr.
func (d *Word) BlockWrite(addr uint64, values []uint64) error {
	if d.blockWrite != nil {
		return d.blockWrite(addr, values)
	}
	return blockWriteLoop(d, addr, values)
}
