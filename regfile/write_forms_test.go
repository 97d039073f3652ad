package regfile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icglue/regfile-generics/pkg/types"
)

// -----------------------------------------------------------------------------
// 1) Integer write: raw value, write mask as change mask, commit on success
// -----------------------------------------------------------------------------.
func TestRegisterWrite_Integer_UsesWriteMask(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.Write(uint64(0x123)))
	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, "write", c.op)
	require.Equal(t, uint64(0x10), c.addr)
	require.Equal(t, uint64(0x123), c.value)
	require.Equal(t, uint64(0x1ff), c.mask)
	require.Equal(t, uint64(0x1ff), c.writeMask)

	require.Equal(t, uint64(0x123), r.Mirrored())
	require.False(t, r.NeedsUpdate())
}

// -----------------------------------------------------------------------------
// 2) All integer widths are accepted; signed values sign-extend and truncate
// -----------------------------------------------------------------------------.
func TestRegisterWrite_IntegerForms(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "scratch")

	for _, v := range []any{uint(1), uint8(2), uint16(3), uint32(4), int(5), int8(6), int16(7), int32(8), int64(9)} {
		require.NoError(t, r.Write(v))
	}
	require.Equal(t, uint64(9), r.Mirrored())
	require.False(t, rep.HasAny())

	// -1 sign-extends to 64 bits and truncates to the 4-byte word
	require.NoError(t, r.Write(int8(-1)))
	require.Equal(t, 1, rep.Count(types.WarnWordTruncation))
	require.Equal(t, uint64(0xffffffff), dev.calls[len(dev.calls)-1].value)
	require.Equal(t, uint64(0xffffffff), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 3) Mapping write composes one transaction, zero-filling unset writable bits
// -----------------------------------------------------------------------------.
func TestRegisterWrite_Mapping_ZeroFillsUnsetWritable(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	dev.mem[0x10] = 0x1ff // pretend hardware had everything set

	require.NoError(t, r.Write(FieldValues{"cfg": 3}))
	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, uint64(0x3), c.value)
	require.Equal(t, uint64(0x1ff), c.mask)

	// en was not supplied: warned, and its bit went to zero
	require.Equal(t, 1, rep.Count(types.WarnPartialWrite))
	require.Contains(t, rep.ByKind[types.WarnPartialWrite][0].Message, "en")
	require.Equal(t, uint64(0x3), dev.mem[0x10])
	require.Equal(t, uint64(0x3), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 4) Mapping write drops unknown and read-only names with warnings
// -----------------------------------------------------------------------------.
func TestRegisterWrite_Mapping_DropsUnknownAndReadOnly(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.Write(FieldValues{"bogus": 1, "status": 2, "cfg": 1, "en": 1}))
	require.Len(t, dev.calls, 1)
	require.Equal(t, uint64(0x101), dev.calls[0].value)

	require.Equal(t, 2, rep.Count(types.WarnWriteIgnored))
	fields := []string{
		rep.ByKind[types.WarnWriteIgnored][0].Field,
		rep.ByKind[types.WarnWriteIgnored][1].Field,
	}
	require.ElementsMatch(t, []string{"bogus", "status"}, fields)
	require.Equal(t, 0, rep.Count(types.WarnPartialWrite))
}

// -----------------------------------------------------------------------------
// 5) Plain map[string]uint64 works like FieldValues
// -----------------------------------------------------------------------------.
func TestRegisterWrite_PlainMapForm(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.Write(map[string]uint64{"cfg": 0x1f, "en": 1}))
	require.Equal(t, uint64(0x11f), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 6) WriteField: one transaction with the field's own mask
// -----------------------------------------------------------------------------.
func TestRegisterWrite_WriteField_UsesFieldMask(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	dev.mem[0x10] = 0x1f // cfg bits set in the backing store

	require.NoError(t, r.WriteField("en", 1))
	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, uint64(0x100), c.value)
	require.Equal(t, uint64(0x100), c.mask)
	require.Equal(t, uint64(0x1ff), c.writeMask)

	// only the field's bits changed in the backing store
	require.Equal(t, uint64(0x11f), dev.mem[0x10])
	require.False(t, rep.HasAny())
}

// -----------------------------------------------------------------------------
// 7) WriteField warns on truncation and on read-only fields, still writes
// -----------------------------------------------------------------------------.
func TestRegisterWrite_WriteField_ReadOnlyAndTruncation(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.WriteField("status", 0x1ffff))
	require.Equal(t, 1, rep.Count(types.WarnTruncation))
	require.Equal(t, 1, rep.Count(types.WarnWriteIgnored))

	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, uint64(0xffff0000), c.value)
	require.Equal(t, uint64(0xffff0000), c.mask)
}

// -----------------------------------------------------------------------------
// 8) WriteUpdate: stage several fields, one composed transaction
// -----------------------------------------------------------------------------.
func TestRegisterWrite_WriteUpdate_OneTransaction(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.WriteUpdate(FieldValues{"cfg": 5, "en": 1}))
	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, uint64(0x105), c.value)
	require.Equal(t, uint64(0x1ff), c.mask)
	require.Equal(t, uint64(0x105), r.Mirrored())
	require.False(t, rep.HasAny(), "supplying only some fields is fine when staging")

	require.ErrorIs(t, r.WriteUpdate(FieldValues{"nope": 1}), types.ErrUnknownField)
}

// -----------------------------------------------------------------------------
// 9) WriteMasked: explicit change mask
// -----------------------------------------------------------------------------.
func TestRegisterWrite_WriteMasked(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.WriteMasked(0xff, 0x0f))
	require.Len(t, dev.calls, 1)
	c := dev.calls[0]
	require.Equal(t, uint64(0xff), c.value)
	require.Equal(t, uint64(0x0f), c.mask)
	require.Equal(t, uint64(0x0f), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 10) Snapshots detach, decompose and write back
// -----------------------------------------------------------------------------.
func TestRegisterWrite_SnapshotRoundTrip(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.Write(uint64(0x11f)))
	snap := r.Snapshot()
	require.Equal(t, "config", snap.Name())
	require.Equal(t, uint64(0x11f), snap.Value())

	v, err := snap.Field("cfg")
	require.NoError(t, err)
	require.Equal(t, uint64(0x1f), v)
	_, err = snap.Field("nope")
	require.ErrorIs(t, err, types.ErrUnknownField)
	require.Equal(t, FieldValues{"cfg": 0x1f, "en": 0x1, "status": 0x0}, snap.Fields())
	require.Equal(t, "config: {cfg: 0x1f, en: 0x1, status: 0x0} = 0x11f", snap.String())

	// the snapshot is detached from further register activity
	require.NoError(t, r.Write(uint64(0)))
	require.Equal(t, uint64(0x11f), snap.Value())

	require.NoError(t, r.Write(snap))
	require.Equal(t, uint64(0x11f), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 11) Compose and decompose are pure and inverse over the field layout
// -----------------------------------------------------------------------------.
func TestRegister_ComposeDecompose(t *testing.T) {
	dev := newFakeDevice(4)
	rep := types.NewReport()
	rf := buildCtrlFile(t, dev, rep)
	r := mustRegister(t, rf, "config")

	v, err := r.ComposeValue(FieldValues{"cfg": 0x5, "status": 0x12})
	require.NoError(t, err)
	require.Equal(t, uint64(0x120005), v)
	require.Empty(t, dev.calls)

	require.Equal(t, FieldValues{"cfg": 0x5, "en": 0x0, "status": 0x12}, r.Decompose(v))

	_, err = r.ComposeValue(FieldValues{"nope": 1})
	require.ErrorIs(t, err, types.ErrUnknownField)

	_, err = r.ComposeValue(FieldValues{"cfg": 0xfff})
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count(types.WarnTruncation))
}

// -----------------------------------------------------------------------------
// 12) ReadFields and ReadSnapshot read once and decompose the observed word
// -----------------------------------------------------------------------------.
func TestRegister_ReadFieldsAndReadSnapshot(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	dev.mem[0x10] = 0x00340105
	fv, err := r.ReadFields()
	require.NoError(t, err)
	require.Equal(t, FieldValues{"cfg": 0x5, "en": 0x1, "status": 0x34}, fv)
	require.Len(t, dev.calls, 1)

	dev.clearCalls()
	snap, err := r.ReadSnapshot()
	require.NoError(t, err)
	require.Equal(t, uint64(0x00340105), snap.Value())
	require.Len(t, dev.calls, 1)
}

// -----------------------------------------------------------------------------
// 13) Backend errors propagate and leave the tracked state untouched
// -----------------------------------------------------------------------------.
func TestRegisterWrite_DeviceErrorLeavesStateUntouched(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.NoError(t, r.Write(uint64(0x16)))

	errBus := errors.New("bus fault")
	dev.failWith = errBus
	err := r.Write(uint64(0xff))
	require.ErrorIs(t, err, errBus)
	require.Equal(t, uint64(0x16), r.Mirrored())
	require.Equal(t, uint64(0x16), r.Desired())

	require.NoError(t, r.SetField("cfg", 0x1))
	dev.failWith = errBus
	require.ErrorIs(t, r.Update(), errBus)
	require.True(t, r.NeedsUpdate(), "a failed Update keeps the staged value pending")
	require.Equal(t, uint64(0x16), r.Mirrored())

	dev.failWith = errBus
	_, err = r.Read()
	require.ErrorIs(t, err, errBus)
	require.Equal(t, uint64(0x16), r.Mirrored())
}

// -----------------------------------------------------------------------------
// 14) Unsupported value types are rejected
// -----------------------------------------------------------------------------.
func TestRegisterWrite_UnsupportedType(t *testing.T) {
	dev := newFakeDevice(4)
	rf := buildCtrlFile(t, dev, types.NewReport())
	r := mustRegister(t, rf, "config")

	require.ErrorIs(t, r.Write("0x16"), types.ErrInvalidArgument)
	require.ErrorIs(t, r.Write(3.14), types.ErrInvalidArgument)
	require.ErrorIs(t, r.Write(nil), types.ErrInvalidArgument)
	require.Empty(t, dev.calls)
}
