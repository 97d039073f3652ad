package regfile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Regfile is a named, ordered collection of registers sharing one base
// address and one device. Registers are added through a builder obtained from
// Open; afterwards the file is sealed and only value state changes.
//
// The device reference is replaceable via SetDevice but must not be swapped
// while a transaction is in flight. A Regfile is not safe for concurrent use.
type Regfile struct {
	name    string
	base    uint64
	dev     types.Device
	handler types.Handler
	logger  *slog.Logger

	entries   []*Register
	index     map[string]int
	valueMask uint64
	sealed    bool
}

// Option configures a Regfile.
type Option func(*Regfile)

// WithName sets the file name used in renderings, warnings and logs. The
// default is "Regfile@0x<base>".
func WithName(name string) Option {
	return func(rf *Regfile) { rf.name = name }
}

// WithWarningHandler routes warnings to h instead of the default slog-backed
// handler.
func WithWarningHandler(h types.Handler) Option {
	return func(rf *Regfile) { rf.handler = h }
}

// WithLogger sets the logger for transaction debug logs and, unless a warning
// handler is configured, for warnings.
func WithLogger(l *slog.Logger) Option {
	return func(rf *Regfile) { rf.logger = l }
}

// New creates an empty, sealed register file over dev. Registers are added
// through Open. New panics on a nil device; everything else about the device
// is trusted, including its word size.
func New(dev types.Device, base uint64, opts ...Option) *Regfile {
	if dev == nil {
		panic("regfile: nil device")
	}
	rf := &Regfile{
		base:   base,
		dev:    dev,
		index:  make(map[string]int),
		sealed: true,
	}
	for _, opt := range opts {
		opt(rf)
	}
	if rf.name == "" {
		rf.name = fmt.Sprintf("Regfile@0x%x", base)
	}
	if rf.logger == nil {
		rf.logger = slog.Default()
	}
	if rf.handler == nil {
		rf.handler = types.LogHandler(rf.logger)
	}
	rf.valueMask = word.Mask(dev.WordBytes())
	return rf
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Name returns the file name.
func (rf *Regfile) Name() string { return rf.name }

// BaseAddr returns the base address all register offsets are relative to.
func (rf *Regfile) BaseAddr() uint64 { return rf.base }

// Device returns the current device.
func (rf *Regfile) Device() types.Device { return rf.dev }

// SetDevice replaces the device. The word size may change; register offsets
// and write masks are taken as is. Panics on nil.
func (rf *Regfile) SetDevice(dev types.Device) {
	if dev == nil {
		panic("regfile: nil device")
	}
	rf.dev = dev
	rf.valueMask = word.Mask(dev.WordBytes())
}

// Sealed reports whether the file is outside a building phase.
func (rf *Regfile) Sealed() bool { return rf.sealed }

// Names returns the register names in insertion order.
func (rf *Regfile) Names() []string {
	out := make([]string, len(rf.entries))
	for i, r := range rf.entries {
		out[i] = r.name
	}
	return out
}

// Registers returns the registers in insertion order.
func (rf *Regfile) Registers() []*Register {
	out := make([]*Register, len(rf.entries))
	copy(out, rf.entries)
	return out
}

// Register returns the named register.
func (rf *Regfile) Register(name string) (*Register, error) {
	i, ok := rf.index[name]
	if !ok {
		return nil, &types.Error{Kind: types.ErrKindUnknownRegister,
			Msg: fmt.Sprintf("%s has no register %q", rf.name, name)}
	}
	return rf.entries[i], nil
}

// -----------------------------------------------------------------------------
// Bulk and sugar operations
// -----------------------------------------------------------------------------

// ResetAll restores every register to its reset value. No device
// transactions are issued.
func (rf *Regfile) ResetAll() {
	for _, r := range rf.entries {
		r.Reset()
	}
}

// Write looks up a register and writes value to it, accepting the same
// integer, mapping and snapshot forms as Register.Write.
func (rf *Regfile) Write(name string, value any) error {
	r, err := rf.Register(name)
	if err != nil {
		return err
	}
	return r.Write(value)
}

// Read looks up a register and reads it from the device.
func (rf *Regfile) Read(name string) (uint64, error) {
	r, err := rf.Register(name)
	if err != nil {
		return 0, err
	}
	return r.Read()
}

// String renders the file header and every register from its mirrored value.
// No device access.
func (rf *Regfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ 0x%x", rf.name, rf.base)
	for _, r := range rf.entries {
		b.WriteString("\n  ")
		b.WriteString(r.String())
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// Device choke points
// -----------------------------------------------------------------------------

// write is the single path register writes take to the device. Values wider
// than the device word are truncated with a warning before the transfer.
func (rf *Regfile) write(r *Register, value, mask uint64) error {
	if value&^rf.valueMask != 0 {
		truncated := value & rf.valueMask
		rf.warn(types.Warning{
			Kind:     types.WarnWordTruncation,
			Regfile:  rf.name,
			Register: r.name,
			Message: fmt.Sprintf("value 0x%x exceeds the %d-byte word, truncated to 0x%x",
				value, rf.dev.WordBytes(), truncated),
		})
		value = truncated
	}
	mask &= rf.valueMask
	writeMask := r.writeMask & rf.valueMask
	addr := rf.base + r.addr
	rf.logger.Debug("register write",
		"regfile", rf.name,
		"register", r.name,
		"addr", word.Hex(addr),
		"value", word.Hex(value),
		"mask", word.Hex(mask),
		"write_mask", word.Hex(writeMask),
	)
	return rf.dev.Write(addr, value, mask, writeMask)
}

// read is the single path register reads take to the device.
func (rf *Regfile) read(r *Register) (uint64, error) {
	addr := rf.base + r.addr
	v, err := rf.dev.Read(addr)
	if err != nil {
		return 0, err
	}
	v &= rf.valueMask
	rf.logger.Debug("register read",
		"regfile", rf.name,
		"register", r.name,
		"addr", word.Hex(addr),
		"value", word.Hex(v),
	)
	return v, nil
}

func (rf *Regfile) warn(w types.Warning) {
	rf.handler.HandleWarning(w)
}

func (rf *Regfile) wordMask() uint64 { return rf.valueMask }

func (rf *Regfile) wordBits() int { return rf.dev.WordBytes() * 8 }

