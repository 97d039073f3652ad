// Package regfile models memory-mapped hardware registers as named
// collections of bit-fields and tracks the software-side view of their state.
//
// # Overview
//
// A Regfile is an ordered set of Registers sharing a base address and a
// transfer Device. Each Register carries named Fields (bit ranges inside the
// register word), a write mask of hardware-writable bits, and three word
// values:
//
//   - reset:    the statically configured power-on value
//   - mirrored: the last value observed from or committed to hardware
//   - desired:  the pending value, possibly ahead of mirrored until Update
//
// Field and whole-word accesses never require bit arithmetic at the call
// site; the engine computes masks and shifted values and hands the device
// layer an (address, value, mask, write mask) tuple to realize with the
// cheapest safe transfer.
//
// # Building and Sealing
//
// A Regfile is structurally immutable. Registers and fields are added through
// a builder obtained from Open, and the file seals when the builder closes:
//
//	rf := regfile.New(dev, 0x40000000, regfile.WithName("submod"))
//	b := rf.Open()
//	reg, _ := b.Add("reg0", 0x0000, 0x0000001f)
//	_ = reg.AddField(regfile.FieldDesc{Name: "cfg", Bits: "4:0", Access: "RW", Reset: "0x0"})
//	_ = reg.AddField(regfile.FieldDesc{Name: "status", Bits: "31:16", Access: "RO"})
//	_ = b.Close()
//
// After Close the sealed surface exposes no structural mutation; retained
// builder handles fail with a sealed-file error. Reopening is allowed for
// staged extension.
//
// # Warnings
//
// Recoverable conditions (field truncation, writes touching read-only bits,
// incomplete mapping writes, reads discarding pending values, word overflow)
// complete with a documented fallback and are reported through the warning
// handler, never as errors. Install types.Report to observe them in tests.
//
// # Mapping Writes Zero-Fill
//
// Writing a register from a field map composes ONE transaction covering the
// full write mask: writable fields missing from the map are written as ZERO,
// not preserved, mirroring a whole-word assignment. A partial-write warning
// names the omitted fields. Use SetField followed by Update, or WriteUpdate,
// to change a subset of fields while keeping the rest at their desired
// values.
package regfile
