//go:build unix

package mmio

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Region is a writable memory-mapped window of a device file.
type Region struct {
	mu        sync.Mutex
	mapped    []byte // page-aligned mapping
	data      []byte // requested window inside mapped
	base      uint64
	wordBytes int
	logger    *slog.Logger
	closed    bool
}

var (
	_ types.WordConn    = (*Region)(nil)
	_ types.SubwordConn = (*Region)(nil)
)

// Option configures a Region.
type Option func(*Region)

// WithWordBytes sets the word size in bytes (1, 2, 4 or 8). Default is 4.
func WithWordBytes(n int) Option {
	return func(r *Region) { r.wordBytes = n }
}

// WithLogger sets the logger for access debug logs.
func WithLogger(l *slog.Logger) Option {
	return func(r *Region) { r.logger = l }
}

// Open maps size bytes of the file at path starting at offset base.
//
// base does not need to be page-aligned; the mapping is extended downward
// to the containing page boundary internally. Register addresses passed to
// the connection methods are absolute, so the word at offset base is read
// as ReadWord(base).
func Open(path string, base uint64, size int, opts ...Option) (*Region, error) {
	if size <= 0 {
		return nil, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("mmio: mapping size %d, want > 0", size)}
	}
	r := &Region{base: base, wordBytes: 4, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if !word.ValidSize(r.wordBytes) {
		return nil, &types.Error{Kind: types.ErrKindWordSize,
			Msg: fmt.Sprintf("mmio: word size %d bytes, want 1, 2, 4 or 8", r.wordBytes)}
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	page := uint64(os.Getpagesize())
	alignedOff := base &^ (page - 1)
	padding := int(base - alignedOff)

	mapped, err := unix.Mmap(int(f.Fd()), int64(alignedOff), size+padding,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmio: map %s: %w", path, err)
	}
	r.mapped = mapped
	r.data = mapped[padding : padding+size]

	r.logger.Debug("mmio window mapped",
		"path", path, "base", word.Hex(base), "size", size, "word_bytes", r.wordBytes)
	return r, nil
}

// Base returns the device offset the window starts at.
func (r *Region) Base() uint64 { return r.base }

// Size returns the window size in bytes.
func (r *Region) Size() int { return len(r.data) }

// WordBytes returns the configured word size in bytes.
func (r *Region) WordBytes() int { return r.wordBytes }

// ReadWord returns the little-endian word at addr.
func (r *Region) ReadWord(addr uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.window(addr, r.wordBytes)
	if err != nil {
		return 0, err
	}
	return word.Get(b), nil
}

// WriteWord stores value as a little-endian word at addr.
func (r *Region) WriteWord(addr uint64, value uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.window(addr, r.wordBytes)
	if err != nil {
		return err
	}
	word.Put(b, value)
	return nil
}

// WriteSubword stores size bytes of the full word value at addr. The low
// address bits select the byte lanes, so a one-byte store at addr+2 takes
// lane 2 of value.
func (r *Region) WriteSubword(addr uint64, value uint64, size int) error {
	if !word.ValidSize(size) || size > r.wordBytes {
		return &types.Error{Kind: types.ErrKindWordSize,
			Msg: fmt.Sprintf("mmio: subword store of %d bytes in a %d-byte word", size, r.wordBytes)}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.window(addr, size)
	if err != nil {
		return err
	}
	lane := word.Lane(addr, r.wordBytes)
	for i := 0; i < size; i++ {
		b[i] = word.LaneByte(value, lane+i)
	}
	return nil
}

// Sync flushes the mapped window to the backing file.
func (r *Region) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	return unix.Msync(r.mapped, unix.MS_SYNC)
}

// Close unmaps the window. Further accesses fail; Close is idempotent.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := unix.Munmap(r.mapped)
	r.mapped = nil
	r.data = nil
	if errors.Is(err, unix.EINVAL) {
		return nil
	}
	return err
}

// window bounds-checks an n-byte access at addr and returns the backing
// bytes. Callers hold r.mu.
func (r *Region) window(addr uint64, n int) ([]byte, error) {
	if r.closed {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "mmio: region is closed"}
	}
	end := r.base + uint64(len(r.data))
	if addr < r.base || addr+uint64(n) > end {
		return nil, &types.Error{Kind: types.ErrKindRange,
			Msg: fmt.Sprintf("mmio: %d-byte access at 0x%x outside window [0x%x, 0x%x)",
				n, addr, r.base, end)}
	}
	off := addr - r.base
	return r.data[off : off+uint64(n)], nil
}
