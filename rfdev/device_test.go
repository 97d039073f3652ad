package rfdev

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icglue/regfile-generics/pkg/types"
)

// mapConn is a plain word-addressed backing map for the raw connection
// interfaces.
type mapConn struct {
	words map[uint64]uint64
}

func newMapConn() *mapConn {
	return &mapConn{words: make(map[uint64]uint64)}
}

func (c *mapConn) ReadWord(addr uint64) (uint64, error) {
	return c.words[addr], nil
}

func (c *mapConn) WriteWord(addr uint64, value uint64) error {
	c.words[addr] = value
	return nil
}

func TestWord_StoresRawValueIgnoringMasks(t *testing.T) {
	conn := newMapConn()
	conn.words[0x8] = 0xffffffff

	dev, err := NewWord(conn, WithWordBytes(4))
	require.NoError(t, err)

	// masks describe intent only, a word device always stores the full word
	require.NoError(t, dev.Write(0x8, 0x00001234, 0xff, 0xff))
	require.Equal(t, uint64(0x00001234), conn.words[0x8])

	v, err := dev.Read(0x8)
	require.NoError(t, err)
	require.Equal(t, uint64(0x00001234), v)
}

func TestSimple_DirectStoreWhenNothingToPreserve(t *testing.T) {
	dev, err := NewSimpleMem(WithWordBytes(4))
	require.NoError(t, err)
	dev.Poke(0x0, 0xffffffff)

	// every writable bit is covered, so the raw word goes out without a
	// read-back
	require.NoError(t, dev.Write(0x0, 0xaa, 0xff, 0xff))
	require.Equal(t, 0, dev.ReadCount())
	require.Equal(t, 1, dev.WriteCount())

	v, ok := dev.Peek(0x0)
	require.True(t, ok)
	require.Equal(t, uint64(0xaa), v)
}

func TestSimple_ReadModifyWritePreservesProtectedBits(t *testing.T) {
	dev, err := NewSimpleMem(WithWordBytes(4))
	require.NoError(t, err)
	dev.Poke(0x0, 0xffffffff)

	require.NoError(t, dev.Write(0x0, 0x55, 0xff, 0xffffffff))
	require.Equal(t, 1, dev.ReadCount())
	require.Equal(t, 1, dev.WriteCount())

	v, ok := dev.Peek(0x0)
	require.True(t, ok)
	require.Equal(t, uint64(0xffffff55), v)
}

func TestSimple_MergeMatchesMaskAlgebra(t *testing.T) {
	tests := []struct {
		name  string
		old   uint64
		value uint64
		mask  uint64
		want  uint64
	}{
		{"low byte", 0xdeadbeef, 0x00000012, 0x000000ff, 0xdeadbe12},
		{"middle bits", 0xffffffff, 0x00024000, 0x0003c000, 0xfffe7fff},
		{"disjoint value bits dropped", 0x0, 0xffffffff, 0x0000ff00, 0x0000ff00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := NewSimpleMem(WithWordBytes(4))
			require.NoError(t, err)
			dev.Poke(0x0, tt.old)

			require.NoError(t, dev.Write(0x0, tt.value, tt.mask, 0xffffffff))
			v, ok := dev.Peek(0x0)
			require.True(t, ok)
			require.Equal(t, tt.want, v, "(old &^ mask) | (value & mask)")
		})
	}
}

func TestSimpleMem_ReadBackfillsDeterministically(t *testing.T) {
	a, err := NewSimpleMem(WithSeed(42))
	require.NoError(t, err)
	b, err := NewSimpleMem(WithSeed(42))
	require.NoError(t, err)

	va, err := a.Read(0x1000)
	require.NoError(t, err)
	vb, err := b.Read(0x1000)
	require.NoError(t, err)
	require.Equal(t, va, vb)
	require.LessOrEqual(t, va, uint64(0xffffffff))

	again, err := a.Read(0x1000)
	require.NoError(t, err)
	require.Equal(t, va, again)
}

func TestBlockLoops_TouchConsecutiveWordAddresses(t *testing.T) {
	dev, err := NewSimpleMem(WithWordBytes(4))
	require.NoError(t, err)

	require.NoError(t, dev.BlockWrite(0x100, []uint64{0xa, 0xb, 0xc}))
	require.Equal(t, 3, dev.WriteCount())
	for i, want := range []uint64{0xa, 0xb, 0xc} {
		v, ok := dev.Peek(0x100 + uint64(4*i))
		require.True(t, ok)
		require.Equal(t, want, v)
	}

	got, err := dev.BlockRead(0x100, 3)
	require.NoError(t, err)
	require.Equal(t, []uint64{0xa, 0xb, 0xc}, got)

	empty, err := dev.BlockRead(0x100, 0)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = dev.BlockRead(0x100, -1)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestBlockOverrides_ReplaceTheWordLoop(t *testing.T) {
	conn := newMapConn()
	var gotAddr uint64
	var gotN int

	dev, err := NewSimple(conn,
		WithBlockRead(func(addr uint64, n int) ([]uint64, error) {
			gotAddr, gotN = addr, n
			return []uint64{7, 7}, nil
		}),
		WithBlockWrite(func(addr uint64, values []uint64) error {
			gotAddr, gotN = addr, len(values)
			return nil
		}),
	)
	require.NoError(t, err)

	got, err := dev.BlockRead(0x40, 2)
	require.NoError(t, err)
	require.Equal(t, []uint64{7, 7}, got)
	require.Equal(t, uint64(0x40), gotAddr)
	require.Equal(t, 2, gotN)

	require.NoError(t, dev.BlockWrite(0x80, []uint64{1, 2, 3}))
	require.Equal(t, uint64(0x80), gotAddr)
	require.Equal(t, 3, gotN)
	require.Empty(t, conn.words, "override must bypass the per-word loop")
}

func TestDeviceConstructors_Validation(t *testing.T) {
	_, err := NewWord(nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = NewSimple(nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = NewSimpleMem(WithWordBytes(5))
	require.ErrorIs(t, err, types.ErrBadWordSize)
	_, err = NewSubwordMem(WithWordBytes(0))
	require.ErrorIs(t, err, types.ErrBadWordSize)

	dev, err := NewSimpleMem()
	require.NoError(t, err)
	require.Equal(t, DefaultWordBytes, dev.WordBytes())
}

func TestConnError_PropagatesThroughWrite(t *testing.T) {
	errBus := errors.New("bus stall")
	conn := WordConnFuncs{
		ReadWordFn:  func(uint64) (uint64, error) { return 0, errBus },
		WriteWordFn: func(uint64, uint64) error { return errBus },
	}

	dev, err := NewSimple(conn)
	require.NoError(t, err)

	require.ErrorIs(t, dev.Write(0x0, 1, 0xf, 0xf), errBus)
	// the merge path fails on the read-back before anything is stored
	require.ErrorIs(t, dev.Write(0x0, 1, 0xf, 0xff), errBus)
	_, err = dev.Read(0x0)
	require.ErrorIs(t, err, errBus)
}
