// Package mmio exposes a window of a memory-mapped device file (/dev/mem,
// a UIO region, a PCIe resource file) as a register connection.
//
// A Region implements both the raw word connection and the sub-word
// connection, so it can back any of the rfdev devices:
//
//	region, err := mmio.Open("/dev/uio0", 0, 0x1000)
//	...
//	dev, err := rfdev.NewSimple(region)
//
// Words are little-endian. Accesses are bounds-checked against the opened
// window; the caller is responsible for keeping the window inside the
// underlying device region. Unix only.
package mmio
