package regfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Field is an immutable description of one bit-field within a register word.
// The covered bits are msb..lsb inclusive; the derived mask selects them in
// the full word.
type Field struct {
	name   string
	msb    int
	lsb    int
	mask   uint64
	access string
	desc   string
	reset  uint64 // field-width reset value, already truncated
	hasRst bool
}

// FieldDesc describes a field to add to a register under construction.
// Bits is a bit range written as "msb" (single bit) or "msb:lsb". Reset, if
// set, is an integer literal with standard prefix rules ("0x1f", "12", ...).
// Access is a free-form tag (for example "RW" or "RO") kept for documentation
// and map round-trips; writability is enforced solely by the register's write
// mask.
type FieldDesc struct {
	Name   string
	Bits   string
	Access string
	Reset  string
	Desc   string
}

// newField validates a FieldDesc against the word width and builds the
// immutable Field. The parsed (pre-truncation) reset literal is returned so
// the caller can report lossy reset values.
func newField(d FieldDesc, wordBits int) (f Field, rawReset uint64, err error) {
	if d.Name == "" {
		return Field{}, 0, &types.Error{Kind: types.ErrKindArgument, Msg: "field name must not be empty"}
	}
	msb, lsb, err := word.ParseRange(d.Bits)
	if err != nil {
		return Field{}, 0, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("field %q: invalid bit range %q", d.Name, d.Bits), Err: err}
	}
	if lsb < 0 || msb < lsb {
		return Field{}, 0, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("field %q: bit range %d:%d is reversed or negative", d.Name, msb, lsb)}
	}
	if msb >= wordBits {
		return Field{}, 0, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("field %q: bit %d exceeds the %d-bit word", d.Name, msb, wordBits)}
	}

	f = Field{
		name:   d.Name,
		msb:    msb,
		lsb:    lsb,
		mask:   word.BitMask(msb, lsb),
		access: d.Access,
		desc:   d.Desc,
	}
	if d.Reset != "" {
		v, err := word.ParseUint(d.Reset)
		if err != nil {
			return Field{}, 0, &types.Error{Kind: types.ErrKindArgument,
				Msg: fmt.Sprintf("field %q: invalid reset literal %q", d.Name, d.Reset), Err: err}
		}
		rawReset = v
		f.reset = v & (f.mask >> uint(lsb))
		f.hasRst = true
	}
	return f, rawReset, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// MSB returns the most significant covered bit position.
func (f Field) MSB() int { return f.msb }

// LSB returns the least significant covered bit position.
func (f Field) LSB() int { return f.lsb }

// Width returns the field width in bits.
func (f Field) Width() int { return f.msb - f.lsb + 1 }

// Mask returns the field mask within the full register word.
func (f Field) Mask() uint64 { return f.mask }

// Access returns the free-form access tag ("" if none was given).
func (f Field) Access() string { return f.access }

// Desc returns the description ("" if none was given).
func (f Field) Desc() string { return f.desc }

// Reset returns the field-width reset value and whether one was configured.
func (f Field) Reset() (uint64, bool) { return f.reset, f.hasRst }

// Extract returns the field value contained in a full register word.
func (f Field) Extract(wordValue uint64) uint64 {
	return (wordValue & f.mask) >> uint(f.lsb)
}

// String returns the field name.
func (f Field) String() string { return f.name }

// FieldValues maps field names to field-width values. It is the mapping form
// accepted by value-setting operations and produced by decomposition.
type FieldValues map[string]uint64

// String renders the mapping in sorted name order, in the same style as a
// register rendering.
func (fv FieldValues) String() string {
	names := make([]string, 0, len(fv))
	for name := range fv {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: 0x%x", name, fv[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FieldHandle is a typed handle to one field of a live register, pairing the
// field spec with desired-value access on the owning register.
type FieldHandle struct {
	reg *Register
	f   Field
}

// Spec returns the immutable field description.
func (h FieldHandle) Spec() Field { return h.f }

// Name returns the field name.
func (h FieldHandle) Name() string { return h.f.name }

// Get extracts the field from the register's mirrored value. No device
// access happens.
func (h FieldHandle) Get() uint64 { return h.f.Extract(h.reg.mirrored) }

// Set updates the register's desired value for this field, truncating to the
// field width. Warnings fire for truncation and for fields outside the write
// mask; no device access happens until Update.
func (h FieldHandle) Set(value uint64) {
	truncated := h.reg.fitForWrite(h.f, value)
	h.reg.desired = (h.reg.desired &^ h.f.mask) | (truncated << uint(h.f.lsb))
}
