package rfdev

import (
	"fmt"
	"log/slog"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// DefaultWordBytes is the transfer word size used when WithWordBytes is not
// given.
const DefaultWordBytes = 4

// BlockReadFunc is a native bulk read primitive supplied by the backend.
type BlockReadFunc func(addr uint64, n int) ([]uint64, error)

// BlockWriteFunc is a native bulk write primitive supplied by the backend.
type BlockWriteFunc func(addr uint64, values []uint64) error

// Option configures a device.
type Option func(*base)

// WithWordBytes sets the transfer word size in bytes (1, 2, 4 or 8).
func WithWordBytes(n int) Option {
	return func(b *base) { b.wordBytes = n }
}

// WithLogger sets the logger for transfer debug logs.
func WithLogger(l *slog.Logger) Option {
	return func(b *base) { b.logger = l }
}

// WithBlockRead installs a native bulk read primitive. Without one, block
// reads loop over single-word reads.
func WithBlockRead(fn BlockReadFunc) Option {
	return func(b *base) { b.blockRead = fn }
}

// WithBlockWrite installs a native bulk write primitive. Without one, block
// writes loop over single full-word writes.
func WithBlockWrite(fn BlockWriteFunc) Option {
	return func(b *base) { b.blockWrite = fn }
}

// WithSeed sets the backfill seed of the in-memory devices. Other devices
// ignore it.
func WithSeed(seed uint64) Option {
	return func(b *base) { b.seed = seed }
}

// base carries the configuration shared by all devices.
type base struct {
	wordBytes  int
	logger     *slog.Logger
	seed       uint64
	blockRead  BlockReadFunc
	blockWrite BlockWriteFunc
}

func newBase(opts []Option) (base, error) {
	b := base{wordBytes: DefaultWordBytes}
	for _, opt := range opts {
		opt(&b)
	}
	if !word.ValidSize(b.wordBytes) {
		return base{}, &types.Error{Kind: types.ErrKindWordSize,
			Msg: fmt.Sprintf("rfdev: word size %d bytes, want 1, 2, 4 or 8", b.wordBytes)}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b, nil
}

// WordBytes returns the transfer word size in bytes.
func (b *base) WordBytes() int { return b.wordBytes }

func (b *base) wordMask() uint64 { return word.Mask(b.wordBytes) }

// blockReadLoop is the default bulk read: n single-word reads at ascending
// word-spaced addresses.
func blockReadLoop(d types.Device, addr uint64, n int) ([]uint64, error) {
	if n < 0 {
		return nil, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("rfdev: block read of %d words", n)}
	}
	out := make([]uint64, n)
	w := uint64(d.WordBytes())
	for i := range out {
		v, err := d.Read(addr + uint64(i)*w)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// blockWriteLoop is the default bulk write: one full-word masked write per
// value at ascending word-spaced addresses.
func blockWriteLoop(d types.Device, addr uint64, values []uint64) error {
	w := uint64(d.WordBytes())
	full := word.Mask(d.WordBytes())
	for i, v := range values {
		if err := d.Write(addr+uint64(i)*w, v, full, full); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time contract checks.
var (
	_ types.Device = (*Word)(nil)
	_ types.Device = (*Simple)(nil)
	_ types.Device = (*Subword)(nil)
	_ types.Device = (*SimpleMem)(nil)
	_ types.Device = (*SubwordMem)(nil)
)
