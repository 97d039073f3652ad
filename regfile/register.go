package regfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/icglue/regfile-generics/pkg/types"
)

// Register is one addressable register of a Regfile: an ordered set of named
// fields, a hardware write mask, and the software-side view of the register
// value. Two words are tracked: the mirrored value (last value observed from
// or committed to hardware) and the desired value (pending, staged by SetField
// and friends until Update transfers it).
//
// Registers are created through the builder (see Regfile.Open) and are
// structurally immutable once the file is sealed; only the value state mutates
// afterwards. A Register is not safe for concurrent use.
type Register struct {
	rf *Regfile

	name      string
	addr      uint64 // offset from the file base
	writeMask uint64

	fields   []Field
	index    map[string]int
	writable []string // names of fully write-mask-covered fields, insertion order

	reset    uint64
	mirrored uint64
	desired  uint64
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Offset returns the register address relative to the file base.
func (r *Register) Offset() uint64 { return r.addr }

// Address returns the absolute register address (file base plus offset).
func (r *Register) Address() uint64 { return r.rf.base + r.addr }

// WriteMask returns the hardware-writable bit set.
func (r *Register) WriteMask() uint64 { return r.writeMask }

// ResetValue returns the composed reset word.
func (r *Register) ResetValue() uint64 { return r.reset }

// Mirrored returns the last value observed from or committed to hardware.
func (r *Register) Mirrored() uint64 { return r.mirrored }

// Desired returns the pending value staged for the next Update.
func (r *Register) Desired() uint64 { return r.desired }

// NeedsUpdate reports whether a staged desired value differs from the
// mirrored value.
func (r *Register) NeedsUpdate() bool { return r.desired != r.mirrored }

// Fields returns the fields in declaration order.
func (r *Register) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// FieldNames returns the field names in declaration order.
func (r *Register) FieldNames() []string {
	out := make([]string, len(r.fields))
	for i, f := range r.fields {
		out[i] = f.name
	}
	return out
}

// WritableFieldNames returns the names of the fields fully covered by the
// write mask, in declaration order. Partially covered fields are excluded.
func (r *Register) WritableFieldNames() []string {
	out := make([]string, len(r.writable))
	copy(out, r.writable)
	return out
}

// Field returns a typed handle to one field.
func (r *Register) Field(name string) (FieldHandle, error) {
	f, err := r.lookup(name)
	if err != nil {
		return FieldHandle{}, err
	}
	return FieldHandle{reg: r, f: f}, nil
}

// -----------------------------------------------------------------------------
// Mirrored/desired engine (device-free unless noted)
// -----------------------------------------------------------------------------

// GetField extracts a field from the mirrored value. No device access.
func (r *Register) GetField(name string) (uint64, error) {
	f, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	return f.Extract(r.mirrored), nil
}

// ReadField reads the register from the device and extracts a field. The read
// follows full Read semantics, including the stale-pending warning and the
// mirrored/desired overwrite.
func (r *Register) ReadField(name string) (uint64, error) {
	f, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	v, err := r.Read()
	if err != nil {
		return 0, err
	}
	return f.Extract(v), nil
}

// SetField stages a field in the desired value, truncating to the field
// width. Truncation and fields outside the write mask raise warnings; no
// device access happens until Update.
func (r *Register) SetField(name string, value uint64) error {
	f, err := r.lookup(name)
	if err != nil {
		return err
	}
	truncated := r.fitForWrite(f, value)
	r.desired = (r.desired &^ f.mask) | (truncated << uint(f.lsb))
	return nil
}

// Set replaces the whole desired value. No device access.
func (r *Register) Set(value uint64) {
	r.desired = value & r.rf.wordMask()
}

// Update writes the desired value through the device using the register write
// mask. On success the mirrored value follows the desired value.
func (r *Register) Update() error {
	if err := r.rf.write(r, r.desired, r.writeMask); err != nil {
		return err
	}
	r.mirrored = r.desired
	return nil
}

// Read reads the register from the device and returns the observed word. Both
// the mirrored and the desired value are set to it; a pending desired value is
// discarded with a warning.
func (r *Register) Read() (uint64, error) {
	v, err := r.rf.read(r)
	if err != nil {
		return 0, err
	}
	if r.NeedsUpdate() {
		r.warn(types.WarnStalePending, "",
			"read discards pending desired value 0x%x", r.desired)
	}
	r.mirrored = v
	r.desired = v
	return v, nil
}

// Reset restores the mirrored and desired value to the reset word. No device
// transaction is issued.
func (r *Register) Reset() {
	r.mirrored = r.reset
	r.desired = r.reset
}

// -----------------------------------------------------------------------------
// Device-transacting writes
// -----------------------------------------------------------------------------

// Write performs one device transaction for value, which may be an integer
// (any signed or unsigned width, written with the register write mask as the
// change mask), a FieldValues mapping, or a Snapshot.
//
// The mapping form composes one word from the supplied fields. Supplied names
// that do not exist or are not fully writable are dropped with a warning.
// Writable fields that are not supplied raise a warning and their bits are
// written as zero; see the package documentation for this zero-fill policy.
func (r *Register) Write(value any) error {
	switch v := value.(type) {
	case uint64:
		return r.setValue(v, r.writeMask)
	case uint:
		return r.setValue(uint64(v), r.writeMask)
	case uint32:
		return r.setValue(uint64(v), r.writeMask)
	case uint16:
		return r.setValue(uint64(v), r.writeMask)
	case uint8:
		return r.setValue(uint64(v), r.writeMask)
	case int:
		return r.setValue(uint64(v), r.writeMask)
	case int64:
		return r.setValue(uint64(v), r.writeMask)
	case int32:
		return r.setValue(uint64(v), r.writeMask)
	case int16:
		return r.setValue(uint64(v), r.writeMask)
	case int8:
		return r.setValue(uint64(v), r.writeMask)
	case FieldValues:
		return r.writeMapping(v)
	case map[string]uint64:
		return r.writeMapping(FieldValues(v))
	case Snapshot:
		return r.setValue(v.value, r.writeMask)
	case *Snapshot:
		return r.setValue(v.value, r.writeMask)
	default:
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("register %q: cannot write value of type %T", r.name, value)}
	}
}

// SetValue is an alias for Write.
func (r *Register) SetValue(value any) error { return r.Write(value) }

// WriteMasked performs one device transaction of value with an explicit
// change mask instead of the register write mask.
func (r *Register) WriteMasked(value, mask uint64) error {
	return r.setValue(value, mask)
}

// WriteField performs one device transaction for a single field: the value is
// truncated to the field width and transferred with the field mask as the
// change mask. Truncation and fields outside the write mask raise warnings.
func (r *Register) WriteField(name string, value uint64) error {
	f, err := r.lookup(name)
	if err != nil {
		return err
	}
	truncated := r.fitForWrite(f, value)
	return r.setValue(truncated<<uint(f.lsb), f.mask)
}

// WriteUpdate stages every supplied field and then performs one Update
// transaction, for atomic multi-field updates.
func (r *Register) WriteUpdate(values FieldValues) error {
	for _, name := range sortedNames(values) {
		if err := r.SetField(name, values[name]); err != nil {
			return err
		}
	}
	return r.Update()
}

// setValue merges (value & mask) into the desired value, transfers the raw
// value with the change mask through the device, and commits the merge to
// both tracked words on success. The device receives the unmerged value;
// merging protected bits is its strategy decision.
func (r *Register) setValue(value, mask uint64) error {
	merged := (r.desired &^ mask) | (value & mask)
	if err := r.rf.write(r, value, mask); err != nil {
		return err
	}
	r.desired = merged
	r.mirrored = merged
	return nil
}

// writeMapping composes one word from the supplied writable fields and
// performs a single transaction with the register write mask.
func (r *Register) writeMapping(values FieldValues) error {
	var value uint64
	supplied := make(map[string]bool, len(values))
	for _, name := range sortedNames(values) {
		i, ok := r.index[name]
		if !ok {
			r.warn(types.WarnWriteIgnored, name,
				"no such field, ignored in mapping write")
			continue
		}
		f := r.fields[i]
		if !r.isWritable(f) {
			r.warn(types.WarnWriteIgnored, name,
				"not covered by write mask 0x%x, dropped from mapping write", r.writeMask)
			continue
		}
		value |= r.fitField(f, values[name]) << uint(f.lsb)
		supplied[name] = true
	}

	var missing []string
	for _, name := range r.writable {
		if !supplied[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		r.warn(types.WarnPartialWrite, "",
			"writable fields not explicitly set, writing zeros: %s",
			strings.Join(missing, ", "))
	}
	return r.setValue(value, r.writeMask)
}

// -----------------------------------------------------------------------------
// Composition and decomposition
// -----------------------------------------------------------------------------

// ComposeValue composes a register word from field values without touching
// the register state or the device. Values are truncated to the field width
// with a warning; an unknown name is an error.
func (r *Register) ComposeValue(values FieldValues) (uint64, error) {
	var value uint64
	for _, name := range sortedNames(values) {
		f, err := r.lookup(name)
		if err != nil {
			return 0, err
		}
		value |= r.fitField(f, values[name]) << uint(f.lsb)
	}
	return value, nil
}

// Decompose splits a register word into per-field values.
func (r *Register) Decompose(value uint64) FieldValues {
	out := make(FieldValues, len(r.fields))
	for _, f := range r.fields {
		out[f.name] = f.Extract(value)
	}
	return out
}

// ResetValues returns the reset values of the writable fields.
func (r *Register) ResetValues() FieldValues {
	out := make(FieldValues, len(r.writable))
	for _, name := range r.writable {
		f := r.fields[r.index[name]]
		out[name] = f.reset
	}
	return out
}

// -----------------------------------------------------------------------------
// Snapshots and read sugar
// -----------------------------------------------------------------------------

// Snapshot returns a detached copy of the mirrored value together with the
// field layout, safe to keep after further register activity.
func (r *Register) Snapshot() Snapshot {
	return Snapshot{name: r.name, value: r.mirrored, fields: r.fields, index: r.index}
}

// ReadSnapshot reads the register from the device and returns a snapshot of
// the observed value.
func (r *Register) ReadSnapshot() (Snapshot, error) {
	if _, err := r.Read(); err != nil {
		return Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// ReadFields reads the register from the device and decomposes the observed
// word into per-field values.
func (r *Register) ReadFields() (FieldValues, error) {
	v, err := r.Read()
	if err != nil {
		return nil, err
	}
	return r.Decompose(v), nil
}

// -----------------------------------------------------------------------------
// Comparison and rendering
// -----------------------------------------------------------------------------

// Equal reports whether the mirrored value equals v. No device access.
func (r *Register) Equal(v uint64) bool { return r.mirrored == v }

// Cmp compares the mirrored value against v, returning -1, 0 or 1.
func (r *Register) Cmp(v uint64) int {
	switch {
	case r.mirrored < v:
		return -1
	case r.mirrored > v:
		return 1
	}
	return 0
}

// String renders the register from the mirrored value as
// "<name>: {field: 0xv, ...} = 0xv" with fields in declaration order. No
// device access.
func (r *Register) String() string {
	parts := make([]string, len(r.fields))
	for i, f := range r.fields {
		parts[i] = fmt.Sprintf("%s: 0x%x", f.name, f.Extract(r.mirrored))
	}
	return fmt.Sprintf("%s: {%s} = 0x%x", r.name, strings.Join(parts, ", "), r.mirrored)
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

func (r *Register) lookup(name string) (Field, error) {
	i, ok := r.index[name]
	if !ok {
		return Field{}, &types.Error{Kind: types.ErrKindUnknownField,
			Msg: fmt.Sprintf("register %q has no field %q", r.name, name)}
	}
	return r.fields[i], nil
}

func (r *Register) isWritable(f Field) bool {
	return f.mask&r.writeMask == f.mask
}

// fitField truncates value to the field width, warning when bits are lost.
func (r *Register) fitField(f Field, value uint64) uint64 {
	width := f.mask >> uint(f.lsb)
	truncated := value & width
	if truncated != value {
		r.warn(types.WarnTruncation, f.name,
			"value 0x%x does not fit the %d-bit field, truncated to 0x%x",
			value, f.Width(), truncated)
	}
	return truncated
}

// fitForWrite is fitField plus a warning when the field is not fully covered
// by the write mask. The write still proceeds; hardware ignores those bits.
func (r *Register) fitForWrite(f Field, value uint64) uint64 {
	truncated := r.fitField(f, value)
	if !r.isWritable(f) {
		r.warn(types.WarnWriteIgnored, f.name,
			"not covered by write mask 0x%x, hardware will ignore the write", r.writeMask)
	}
	return truncated
}

// recomputeWritable rebuilds the writable name list. Called when the file is
// sealed after a building phase.
func (r *Register) recomputeWritable() {
	r.writable = r.writable[:0]
	for _, f := range r.fields {
		if r.isWritable(f) {
			r.writable = append(r.writable, f.name)
		}
	}
}

func (r *Register) warn(kind types.WarnKind, field, format string, args ...any) {
	r.rf.warn(types.Warning{
		Kind:     kind,
		Regfile:  r.rf.name,
		Register: r.name,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

func sortedNames(values FieldValues) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
