package regfile

import (
	"fmt"

	"github.com/icglue/regfile-generics/pkg/types"
)

// Builder is the structural mutation surface of a Regfile. It exists between
// Open and Close; afterwards every method returns a sealed error. The sealed
// types themselves expose no structural mutators, so holding on to a Builder
// or RegisterBuilder is the only way to even attempt a late mutation.
type Builder struct {
	rf     *Regfile
	closed bool
}

// Open starts (or re-enters) a building phase and returns the builder for it.
func (rf *Regfile) Open() *Builder {
	rf.sealed = false
	return &Builder{rf: rf}
}

// Entry returns the builder for the named register, creating the register on
// first use. The register participates in lookups from this point on; its
// offset, write mask and fields arrive through the returned handle.
func (b *Builder) Entry(name string) (*RegisterBuilder, error) {
	if b.closed {
		return nil, &types.Error{Kind: types.ErrKindSealed,
			Msg: fmt.Sprintf("%s is sealed, cannot add register %q", b.rf.name, name)}
	}
	if name == "" {
		return nil, &types.Error{Kind: types.ErrKindArgument,
			Msg: "register name must not be empty"}
	}
	rf := b.rf
	if i, ok := rf.index[name]; ok {
		return &RegisterBuilder{b: b, r: rf.entries[i]}, nil
	}
	r := &Register{
		rf:        rf,
		name:      name,
		writeMask: rf.valueMask,
		index:     make(map[string]int),
	}
	rf.index[name] = len(rf.entries)
	rf.entries = append(rf.entries, r)
	return &RegisterBuilder{b: b, r: r}, nil
}

// Add creates-or-returns the named register and sets its offset and write
// mask in one call.
func (b *Builder) Add(name string, addr, writeMask uint64) (*RegisterBuilder, error) {
	e, err := b.Entry(name)
	if err != nil {
		return nil, err
	}
	if err := e.SetAddr(addr); err != nil {
		return nil, err
	}
	if err := e.SetWriteMask(writeMask); err != nil {
		return nil, err
	}
	return e, nil
}

// Close seals the file and recomputes every register's writable field set.
// Closing a closed builder is a no-op.
func (b *Builder) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.rf.sealed = true
	for _, r := range b.rf.entries {
		r.recomputeWritable()
	}
}

// RegisterBuilder configures one register during a building phase.
type RegisterBuilder struct {
	b *Builder
	r *Register
}

func (e *RegisterBuilder) checkOpen() error {
	if e.b.closed {
		return &types.Error{Kind: types.ErrKindSealed,
			Msg: fmt.Sprintf("%s is sealed, cannot modify register %q", e.r.rf.name, e.r.name)}
	}
	return nil
}

// Name returns the name of the register under construction.
func (e *RegisterBuilder) Name() string { return e.r.name }

// SetAddr sets the register offset relative to the file base.
func (e *RegisterBuilder) SetAddr(addr uint64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.r.addr = addr
	return nil
}

// SetWriteMask sets the hardware-writable bit set, masked to the word width.
// The default is all word bits writable.
func (e *RegisterBuilder) SetWriteMask(mask uint64) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	e.r.writeMask = mask & e.r.rf.valueMask
	return nil
}

// SetName renames the register. The new name must be unused in the file.
func (e *RegisterBuilder) SetName(name string) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if name == "" {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: "register name must not be empty"}
	}
	rf := e.r.rf
	if name == e.r.name {
		return nil
	}
	if _, taken := rf.index[name]; taken {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("%s already has a register %q", rf.name, name)}
	}
	rf.index[name] = rf.index[e.r.name]
	delete(rf.index, e.r.name)
	e.r.name = name
	return nil
}

// AddField adds a field to the register. The field reset value, if given, is
// folded into the register reset word, and both the mirrored and the desired
// value are set to the accumulated reset. A reset literal wider than the
// field raises a truncation warning.
func (e *RegisterBuilder) AddField(d FieldDesc) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	r := e.r
	f, rawReset, err := newField(d, r.rf.wordBits())
	if err != nil {
		return err
	}
	if _, dup := r.index[f.name]; dup {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("register %q: duplicate field %q", r.name, f.name)}
	}
	if f.hasRst {
		if f.reset != rawReset {
			r.warn(types.WarnTruncation, f.name,
				"reset literal 0x%x does not fit the %d-bit field, truncated to 0x%x",
				rawReset, f.Width(), f.reset)
		}
		r.reset |= f.reset << uint(f.lsb)
	}
	r.index[f.name] = len(r.fields)
	r.fields = append(r.fields, f)
	r.mirrored = r.reset
	r.desired = r.reset
	return nil
}
