package word

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Word arithmetic for register values.
//
// Registers are modeled as uint64 words of 1, 2, 4 or 8 bytes in
// little-endian byte order; masks select bit ranges inside the word. All
// helpers here saturate instead of overflowing so that 8-byte words and
// bit 63 ranges behave like their narrower counterparts.

// MaxBytes is the widest supported word size.
const MaxBytes = 8

// ValidSize reports whether n is a supported word size in bytes.
func ValidSize(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// Hex formats v as a lower-case 0x literal for logs and messages.
func Hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

// Ones returns a mask with the low n bits set, saturating at 64.
//
// Example:
//
//	Ones(5)  = 0x1f
//	Ones(64) = 0xffffffffffffffff
func Ones(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	if n <= 0 {
		return 0
	}
	return (uint64(1) << uint(n)) - 1
}

// Mask returns the all-ones mask for a word of n bytes.
//
// Example:
//
//	Mask(1) = 0xff
//	Mask(4) = 0xffffffff
func Mask(n int) uint64 {
	return Ones(8 * n)
}

// BitMask returns the mask covering bits msb..lsb inclusive.
//
// Example:
//
//	BitMask(4, 0)   = 0x1f
//	BitMask(31, 16) = 0xffff0000
func BitMask(msb, lsb int) uint64 {
	return Ones(msb+1) &^ Ones(lsb)
}

// ParseRange parses a bit range written as "msb" or "msb:lsb".
// A single position means a one-bit range (msb == lsb).
func ParseRange(s string) (msb, lsb int, err error) {
	high, low, found := strings.Cut(s, ":")
	msb, err = strconv.Atoi(strings.TrimSpace(high))
	if err != nil {
		return 0, 0, fmt.Errorf("word: invalid bit range %q", s)
	}
	if !found {
		return msb, msb, nil
	}
	lsb, err = strconv.Atoi(strings.TrimSpace(low))
	if err != nil {
		return 0, 0, fmt.Errorf("word: invalid bit range %q", s)
	}
	return msb, lsb, nil
}

// ParseUint parses an integer literal with standard prefix rules
// (0x hexadecimal, 0o octal, 0b binary, plain decimal).
func ParseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("word: invalid integer literal %q", s)
	}
	return v, nil
}

// Lane returns the byte lane within a word selected by the low address bits.
// Register addresses are word-aligned; a sub-word store at addr+k targets
// lane k of the word.
func Lane(addr uint64, wordBytes int) int {
	return int(addr & uint64(wordBytes-1))
}

// LaneByte extracts the byte at the given lane of a little-endian word value.
func LaneByte(value uint64, lane int) byte {
	return byte(value >> (8 * uint(lane)))
}

// Put writes a word value into b in little-endian order; the slice length
// selects the width. Callers validate the width via ValidSize.
func Put(b []byte, v uint64) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	}
}

// Get reads a little-endian word value from b; the slice length selects the
// width. Callers validate the width via ValidSize.
func Get(b []byte) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}
