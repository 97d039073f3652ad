// Package regfile is the single-import surface of the register file toolkit.
//
// It re-exports the core engine types, the shared error and warning
// vocabulary, and one-call loaders that combine map parsing with building:
//
//	dev, _ := rfdev.NewSimpleMem()
//	rf, err := regfile.LoadYAML("submodctrl.yaml", dev)
//	...
//	err = rf.Write("config", regfile.FieldValues{"cfg": 0x16, "en": 1})
//
// Programs that define registers in code use New and the builder; programs
// with declarative maps use the loaders. Both end up with the same sealed
// Regfile.
package regfile

import (
	"github.com/icglue/regfile-generics/pkg/types"
	core "github.com/icglue/regfile-generics/regfile"
	"github.com/icglue/regfile-generics/regmap"
)

// Core engine types.
type (
	Regfile         = core.Regfile
	Register        = core.Register
	Field           = core.Field
	FieldDesc       = core.FieldDesc
	FieldHandle     = core.FieldHandle
	FieldValues     = core.FieldValues
	Snapshot        = core.Snapshot
	Builder         = core.Builder
	RegisterBuilder = core.RegisterBuilder
	Mem             = core.Mem
	Option          = core.Option
	MemOption       = core.MemOption
)

// Shared contracts.
type (
	Device      = types.Device
	WordConn    = types.WordConn
	SubwordConn = types.SubwordConn
	Warning     = types.Warning
	WarnKind    = types.WarnKind
	Handler     = types.Handler
	Report      = types.Report
)

// Warning kinds.
const (
	WarnTruncation     = types.WarnTruncation
	WarnWriteIgnored   = types.WarnWriteIgnored
	WarnPartialWrite   = types.WarnPartialWrite
	WarnStalePending   = types.WarnStalePending
	WarnWordTruncation = types.WarnWordTruncation
	WarnInvalidSpec    = types.WarnInvalidSpec
)

// Error sentinels.
var (
	ErrUnknownRegister = types.ErrUnknownRegister
	ErrUnknownField    = types.ErrUnknownField
	ErrInvalidArgument = types.ErrInvalidArgument
	ErrSealed          = types.ErrSealed
	ErrIndexOutOfRange = types.ErrIndexOutOfRange
	ErrBadWordSize     = types.ErrBadWordSize
)

// Options.
var (
	WithName           = core.WithName
	WithLogger         = core.WithLogger
	WithWarningHandler = core.WithWarningHandler
	WithSize           = core.WithSize
	NewReport          = types.NewReport
)

// New creates an empty register file over dev; registers arrive through a
// building phase (Open/Entry/Close).
func New(dev Device, base uint64, opts ...Option) *Regfile {
	return core.New(dev, base, opts...)
}

// NewMem views dev as a word-indexed memory window at base.
func NewMem(dev Device, base uint64, opts ...MemOption) *Mem {
	return core.NewMem(dev, base, opts...)
}

// LoadYAML builds a register file over dev from the YAML map at path.
func LoadYAML(path string, dev Device, opts ...Option) (*Regfile, error) {
	m, err := regmap.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return m.Build(dev, opts...)
}

// LoadText builds a register file over dev from the vendor listing at path.
func LoadText(path string, dev Device, opts ...Option) (*Regfile, error) {
	m, err := regmap.LoadTextFile(path)
	if err != nil {
		return nil, err
	}
	return m.Build(dev, opts...)
}
