package regmap

import (
	"fmt"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/regfile"
)

// Build creates a live register file over dev from the map. The map's name
// becomes the file name unless an explicit option overrides it; callers who
// want findings before going live run Validate first, Build stops at the
// first structural fault instead.
func (m *Map) Build(dev types.Device, opts ...regfile.Option) (*regfile.Regfile, error) {
	if dev == nil {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "regmap: nil device"}
	}
	if m.WordBytes != 0 && m.WordBytes != dev.WordBytes() {
		return nil, &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("regmap: map %q declares %d-byte words, device has %d",
				m.Name, m.WordBytes, dev.WordBytes())}
	}

	rfOpts := make([]regfile.Option, 0, len(opts)+1)
	if m.Name != "" {
		rfOpts = append(rfOpts, regfile.WithName(m.Name))
	}
	rfOpts = append(rfOpts, opts...)

	rf := regfile.New(dev, uint64(m.BaseAddr), rfOpts...)
	b := rf.Open()
	for _, def := range m.Registers {
		e, err := b.Entry(def.Name)
		if err != nil {
			return nil, err
		}
		if err := e.SetAddr(uint64(def.Addr)); err != nil {
			return nil, err
		}
		if def.WriteMask != nil {
			if err := e.SetWriteMask(uint64(*def.WriteMask)); err != nil {
				return nil, err
			}
		}
		for _, fd := range def.Fields {
			d := regfile.FieldDesc{
				Name:   fd.Name,
				Bits:   fd.Bits,
				Access: fd.Access,
				Desc:   fd.Desc,
			}
			if fd.Reset != nil {
				d.Reset = word.Hex(uint64(*fd.Reset))
			}
			if err := e.AddField(d); err != nil {
				return nil, fmt.Errorf("regmap: register %q: %w", def.Name, err)
			}
		}
	}
	b.Close()
	return rf, nil
}
