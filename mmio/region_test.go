//go:build unix

package mmio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/rfdev"
)

func tempWindowFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "window.bin")
	if err := os.WriteFile(path, make([]byte, 2*os.Getpagesize()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRegionWordRoundTrip(t *testing.T) {
	path := tempWindowFile(t)
	r, err := Open(path, 0, 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if err := r.WriteWord(0, 0xdeadbeef); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	v, err := r.ReadWord(0)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0xdeadbeef {
		t.Fatalf("ReadWord: got 0x%x want 0xdeadbeef", v)
	}

	if err := r.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []byte{0xef, 0xbe, 0xad, 0xde}
	for i, b := range want {
		if data[i] != b {
			t.Fatalf("byte %d: got 0x%x want 0x%x", i, data[i], b)
		}
	}
}

func TestRegionUnalignedBase(t *testing.T) {
	path := tempWindowFile(t)
	base := uint64(os.Getpagesize()) + 16

	r, err := Open(path, base, 32)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if err := r.WriteWord(base, 0x11223344); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	// single-byte store into lane 2 of the same word
	if err := r.WriteSubword(base+2, 0xaabbccdd, 1); err != nil {
		t.Fatalf("WriteSubword: %v", err)
	}
	v, err := r.ReadWord(base)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if v != 0x11bb3344 {
		t.Fatalf("ReadWord: got 0x%x want 0x11bb3344", v)
	}

	if err := r.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := data[base+2]; got != 0xbb {
		t.Fatalf("file byte at base+2: got 0x%x want 0xbb", got)
	}
}

func TestRegionBounds(t *testing.T) {
	r, err := Open(tempWindowFile(t), 0x100, 16)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if _, err := r.ReadWord(0x100 + 14); !errors.Is(err, types.ErrIndexOutOfRange) {
		t.Fatalf("read straddling the end: got %v", err)
	}
	if _, err := r.ReadWord(0xfc); !errors.Is(err, types.ErrIndexOutOfRange) {
		t.Fatalf("read below base: got %v", err)
	}
	if err := r.WriteWord(0x100+16, 0); !errors.Is(err, types.ErrIndexOutOfRange) {
		t.Fatalf("write past the end: got %v", err)
	}
}

func TestRegionValidation(t *testing.T) {
	path := tempWindowFile(t)
	if _, err := Open(path, 0, 0); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("zero size: got %v", err)
	}
	if _, err := Open(path, 0, 64, WithWordBytes(3)); !errors.Is(err, types.ErrBadWordSize) {
		t.Fatalf("word size 3: got %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing"), 0, 64); err == nil {
		t.Fatalf("expected error for missing file")
	}

	r, err := Open(path, 0, 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if err := r.WriteSubword(0, 0, 3); !errors.Is(err, types.ErrBadWordSize) {
		t.Fatalf("subword size 3: got %v", err)
	}
	if err := r.WriteSubword(0, 0, 8); !errors.Is(err, types.ErrBadWordSize) {
		t.Fatalf("subword wider than word: got %v", err)
	}
}

func TestRegionCloseIsIdempotent(t *testing.T) {
	r, err := Open(tempWindowFile(t), 0, 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := r.ReadWord(0); err == nil {
		t.Fatalf("expected error reading a closed region")
	}
	if err := r.Sync(); err != nil {
		t.Fatalf("Sync after Close: %v", err)
	}
}

func TestRegionBacksSubwordDevice(t *testing.T) {
	path := tempWindowFile(t)
	r, err := Open(path, 0, 64)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	dev, err := rfdev.NewSubword(r, rfdev.WithWordBytes(4))
	if err != nil {
		t.Fatalf("NewSubword: %v", err)
	}
	// low byte changes, everything writable: a single one-byte store
	if err := dev.Write(0x10, 0x12345642, 0xff, 0xffffffff); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := r.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if data[0x10] != 0x42 {
		t.Fatalf("lane 0: got 0x%x want 0x42", data[0x10])
	}
	for off := 0x11; off < 0x14; off++ {
		if data[off] != 0 {
			t.Fatalf("lane %d written by a one-byte store", off-0x10)
		}
	}
}
