package regmap

import (
	"fmt"
	"strings"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

const defaultWordBytes = 4

// knownAccess are the access tags vendor maps use. The engine treats the tag
// as free-form metadata; validation flags anything outside this set because
// it is almost always a typo for one of them.
var knownAccess = map[string]bool{
	"":    true,
	"RW":  true,
	"RO":  true,
	"WO":  true,
	"RC":  true,
	"RS":  true,
	"W1C": true,
	"W1S": true,
}

// Validate checks the map without building it and returns every finding.
// Structural faults (duplicates, bad ranges, overlaps, unknown access tags)
// and value-level findings (reset literals wider than their field, write
// masks wider than the word) are collected in one pass; nothing aborts at
// the first fault.
func (m *Map) Validate() *types.Report {
	rep := types.NewReport()
	report := func(kind types.WarnKind, reg, field, format string, args ...any) {
		rep.HandleWarning(types.Warning{
			Kind:     kind,
			Regfile:  m.Name,
			Register: reg,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if m.Name == "" {
		report(types.WarnInvalidSpec, "", "", "map has no name")
	}
	wordBytes := m.WordBytes
	switch {
	case wordBytes == 0:
		wordBytes = defaultWordBytes
	case !word.ValidSize(wordBytes):
		report(types.WarnInvalidSpec, "", "",
			"word size %d bytes, want 1, 2, 4 or 8", wordBytes)
		wordBytes = defaultWordBytes
	}
	wordMask := word.Mask(wordBytes)
	wordBits := 8 * wordBytes

	seenReg := make(map[string]bool, len(m.Registers))
	for _, r := range m.Registers {
		if r.Name == "" {
			report(types.WarnInvalidSpec, "", "", "register at 0x%x has no name", uint64(r.Addr))
		} else if seenReg[r.Name] {
			report(types.WarnInvalidSpec, r.Name, "", "duplicate register name")
		} else {
			seenReg[r.Name] = true
		}
		if r.WriteMask != nil && uint64(*r.WriteMask)&^wordMask != 0 {
			report(types.WarnWordTruncation, r.Name, "",
				"write mask 0x%x exceeds the %d-byte word", uint64(*r.WriteMask), wordBytes)
		}

		seenField := make(map[string]bool, len(r.Fields))
		var used uint64
		for _, f := range r.Fields {
			if f.Name == "" {
				report(types.WarnInvalidSpec, r.Name, "", "field has no name")
			} else if seenField[f.Name] {
				report(types.WarnInvalidSpec, r.Name, f.Name, "duplicate field name")
			} else {
				seenField[f.Name] = true
			}
			if !knownAccess[strings.ToUpper(f.Access)] {
				report(types.WarnInvalidSpec, r.Name, f.Name, "unknown access tag %q", f.Access)
			}

			msb, lsb, err := word.ParseRange(f.Bits)
			if err != nil {
				report(types.WarnInvalidSpec, r.Name, f.Name, "invalid bit range %q", f.Bits)
				continue
			}
			if lsb < 0 || msb < lsb {
				report(types.WarnInvalidSpec, r.Name, f.Name,
					"bit range %d:%d is reversed or negative", msb, lsb)
				continue
			}
			if msb >= wordBits {
				report(types.WarnInvalidSpec, r.Name, f.Name,
					"bit %d exceeds the %d-bit word", msb, wordBits)
				continue
			}
			mask := word.BitMask(msb, lsb)
			if overlap := mask & used; overlap != 0 {
				report(types.WarnInvalidSpec, r.Name, f.Name,
					"bits 0x%x overlap an earlier field", overlap)
			}
			used |= mask

			if f.Reset != nil {
				width := mask >> uint(lsb)
				if uint64(*f.Reset)&^width != 0 {
					report(types.WarnTruncation, r.Name, f.Name,
						"reset literal 0x%x does not fit the %d-bit field",
						uint64(*f.Reset), msb-lsb+1)
				}
			}
		}
	}
	return rep
}
