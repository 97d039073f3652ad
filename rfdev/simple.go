package rfdev

import (
	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Simple is a device over a raw word connection that preserves protected
// writable bits. A write whose mask covers every writable bit is a direct
// store; anything else reads the word back first and merges.
type Simple struct {
	base
	conn types.WordConn
}

// NewSimple creates a Simple device over a raw word connection.
func NewSimple(conn types.WordConn, opts ...Option) (*Simple, error) {
	if conn == nil {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "rfdev: nil connection"}
	}
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	return &Simple{base: b, conn: conn}, nil
}

// Read returns the word at addr.
func (d *Simple) Read(addr uint64) (uint64, error) {
	v, err := d.conn.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	d.logger.Debug("simple read", "addr", word.Hex(addr), "value", word.Hex(v))
	return v, nil
}

// Write transfers value. keep = ^mask & writeMask are the writable bits this
// transaction must not change; when none exist the raw value is stored
// directly, otherwise the word is read back and merged first.
func (d *Simple) Write(addr uint64, value, mask, writeMask uint64) error {
	keep := ^mask & writeMask & d.wordMask()
	if keep == 0 {
		d.logger.Debug("simple write",
			"addr", word.Hex(addr), "value", word.Hex(value))
		return d.conn.WriteWord(addr, value)
	}
	old, err := d.conn.ReadWord(addr)
	if err != nil {
		return err
	}
	merged := (old &^ mask) | (value & mask)
	d.logger.Debug("simple read-modify-write",
		"addr", word.Hex(addr), "old", word.Hex(old), "value", word.Hex(merged))
	return d.conn.WriteWord(addr, merged)
}

// BlockRead returns n consecutive words starting at addr.
func (d *Simple) BlockRead(addr uint64, n int) ([]uint64, error) {
	if d.blockRead != nil {
		return d.blockRead(addr, n)
	}
	return blockReadLoop(d, addr, n)
}

// BlockWrite stores consecutive words starting at addr.
func (d *Simple) BlockWrite(addr uint64, values []uint64) error {
	if d.blockWrite != nil {
		return d.blockWrite(addr, values)
	}
	return blockWriteLoop(d, addr, values)
}
