package regfile

import (
	"fmt"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Mem is a word-indexed window over a device, for image-style access to
// memories living behind the same backend as the registers. Writes are
// full-word transactions (all bits masked in), so Simple devices never fall
// back to read-modify-write.
type Mem struct {
	dev  types.Device
	base uint64
	size uint64 // window size in bytes, 0 means unbounded
}

// MemOption configures a Mem.
type MemOption func(*Mem)

// WithSize bounds the window to the given number of bytes. Indexed and image
// accesses beyond the bound return an index error.
func WithSize(bytes uint64) MemOption {
	return func(m *Mem) { m.size = bytes }
}

// NewMem creates a word-indexed window over dev starting at base. Panics on a
// nil device.
func NewMem(dev types.Device, base uint64, opts ...MemOption) *Mem {
	if dev == nil {
		panic("regfile: nil device")
	}
	m := &Mem{dev: dev, base: base}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseAddr returns the window base address.
func (m *Mem) BaseAddr() uint64 { return m.base }

// Size returns the window size in bytes, 0 when unbounded.
func (m *Mem) Size() uint64 { return m.size }

// Device returns the current device.
func (m *Mem) Device() types.Device { return m.dev }

// SetDevice replaces the device. Panics on nil.
func (m *Mem) SetDevice(dev types.Device) {
	if dev == nil {
		panic("regfile: nil device")
	}
	m.dev = dev
}

// ReadIndex reads the i-th word of the window.
func (m *Mem) ReadIndex(i int) (uint64, error) {
	if err := m.checkIndex(i); err != nil {
		return 0, err
	}
	return m.dev.Read(m.base + uint64(i)*uint64(m.dev.WordBytes()))
}

// WriteIndex writes the i-th word of the window as one full-word transaction.
func (m *Mem) WriteIndex(i int, value uint64) error {
	if err := m.checkIndex(i); err != nil {
		return err
	}
	w := uint64(m.dev.WordBytes())
	full := word.Mask(m.dev.WordBytes())
	return m.dev.Write(m.base+uint64(i)*w, value, full, full)
}

// ReadImage reads words consecutive words starting at the byte offset from
// the window base, using the device block path.
func (m *Mem) ReadImage(offset uint64, words int) ([]uint64, error) {
	if err := m.checkImage(offset, words); err != nil {
		return nil, err
	}
	return m.dev.BlockRead(m.base+offset, words)
}

// WriteImage writes the image starting at the byte offset from the window
// base, using the device block path.
func (m *Mem) WriteImage(offset uint64, image []uint64) error {
	if err := m.checkImage(offset, len(image)); err != nil {
		return err
	}
	return m.dev.BlockWrite(m.base+offset, image)
}

func (m *Mem) checkIndex(i int) error {
	if i < 0 {
		return &types.Error{Kind: types.ErrKindRange,
			Msg: fmt.Sprintf("mem index %d is negative", i)}
	}
	if m.size == 0 {
		return nil
	}
	if limit := m.size / uint64(m.dev.WordBytes()); uint64(i) >= limit {
		return &types.Error{Kind: types.ErrKindRange,
			Msg: fmt.Sprintf("mem index %d exceeds the %d-word window", i, limit)}
	}
	return nil
}

func (m *Mem) checkImage(offset uint64, words int) error {
	if words < 0 {
		return &types.Error{Kind: types.ErrKindRange,
			Msg: fmt.Sprintf("image length %d is negative", words)}
	}
	if m.size == 0 {
		return nil
	}
	end := offset + uint64(words)*uint64(m.dev.WordBytes())
	if end > m.size {
		return &types.Error{Kind: types.ErrKindRange,
			Msg: fmt.Sprintf("image range [0x%x, 0x%x) exceeds the %d-byte window", offset, end, m.size)}
	}
	return nil
}
