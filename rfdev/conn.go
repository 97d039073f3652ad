package rfdev

import "github.com/icglue/regfile-generics/pkg/types"

// WordConnFuncs adapts plain functions to the types.WordConn contract, for
// collaborators that do not want to define a type.
type WordConnFuncs struct {
	ReadWordFn  func(addr uint64) (uint64, error)
	WriteWordFn func(addr uint64, value uint64) error
}

// ReadWord implements types.WordConn.
func (c WordConnFuncs) ReadWord(addr uint64) (uint64, error) { return c.ReadWordFn(addr) }

// WriteWord implements types.WordConn.
func (c WordConnFuncs) WriteWord(addr uint64, value uint64) error {
	return c.WriteWordFn(addr, value)
}

// SubwordConnFuncs adapts plain functions to the types.SubwordConn contract.
type SubwordConnFuncs struct {
	ReadWordFn     func(addr uint64) (uint64, error)
	WriteSubwordFn func(addr uint64, value uint64, size int) error
}

// ReadWord implements types.SubwordConn.
func (c SubwordConnFuncs) ReadWord(addr uint64) (uint64, error) { return c.ReadWordFn(addr) }

// WriteSubword implements types.SubwordConn.
func (c SubwordConnFuncs) WriteSubword(addr uint64, value uint64, size int) error {
	return c.WriteSubwordFn(addr, value, size)
}

var (
	_ types.WordConn    = WordConnFuncs{}
	_ types.SubwordConn = SubwordConnFuncs{}
)
