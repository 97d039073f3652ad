package regmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/regfile"
	"github.com/icglue/regfile-generics/rfdev"
)

func hex(v uint64) *Hex {
	h := Hex(v)
	return &h
}

func TestValidate_CleanMap(t *testing.T) {
	m, err := Load([]byte(yamlFixture))
	require.NoError(t, err)
	rep := m.Validate()
	require.False(t, rep.HasAny(), rep.FormatText())
}

func TestValidate_CollectsEveryFinding(t *testing.T) {
	m := &Map{
		WordBytes: 3,
		Registers: []RegisterDef{
			{Name: "a", Addr: 0x0, WriteMask: hex(0x1ffffffff), Fields: []FieldDef{
				{Name: "f", Bits: "3:0", Access: "RW"},
				{Name: "f", Bits: "7:4"},
				{Name: "g", Bits: "5:3"},
				{Name: "h", Bits: "0:3"},
				{Name: "i", Bits: "32:30"},
				{Name: "j", Bits: "x"},
				{Name: "k", Bits: "15:8", Access: "RWX"},
				{Name: "l", Bits: "18:16", Reset: hex(0xff)},
			}},
			{Name: "a", Addr: 0x4},
			{Addr: 0x8},
		},
	}

	rep := m.Validate()
	inv := rep.ByKind[types.WarnInvalidSpec]

	var messages []string
	for _, w := range inv {
		messages = append(messages, w.String())
	}
	// no name, bad word size, duplicate field, overlap, reversed range,
	// range beyond the word, unparseable range, unknown access tag,
	// duplicate register, unnamed register
	require.Len(t, inv, 10, "%v", messages)

	require.Contains(t, inv[0].Message, "map has no name")
	require.Contains(t, inv[1].Message, "word size 3")
	require.Equal(t, 1, rep.Count(types.WarnWordTruncation), "wide write mask")
	require.Equal(t, 1, rep.Count(types.WarnTruncation), "wide reset literal")

	// attribution makes the findings actionable
	require.Equal(t, "a", rep.ByKind[types.WarnTruncation][0].Register)
	require.Equal(t, "l", rep.ByKind[types.WarnTruncation][0].Field)
}

func TestValidate_FieldOverlap(t *testing.T) {
	m := &Map{
		Name: "x",
		Registers: []RegisterDef{
			{Name: "r", Fields: []FieldDef{
				{Name: "low", Bits: "7:0"},
				{Name: "mid", Bits: "11:4"},
			}},
		},
	}
	rep := m.Validate()
	require.Equal(t, 1, rep.Count(types.WarnInvalidSpec))
	w := rep.ByKind[types.WarnInvalidSpec][0]
	require.Equal(t, "mid", w.Field)
	require.Contains(t, w.Message, "0xf0 overlap")
}

func TestBuild_DrivesTheBuilder(t *testing.T) {
	m, err := Load([]byte(yamlFixture))
	require.NoError(t, err)
	dev, err := rfdev.NewSimpleMem(rfdev.WithWordBytes(4))
	require.NoError(t, err)

	rf, err := m.Build(dev)
	require.NoError(t, err)

	require.Equal(t, "submodctrl", rf.Name())
	require.True(t, rf.Sealed())
	require.Equal(t, uint64(0x200), rf.BaseAddr())

	config, err := rf.Register("config")
	require.NoError(t, err)
	require.Equal(t, uint64(0x210), config.Address())
	require.Equal(t, uint64(0x1ff), config.WriteMask())
	require.Equal(t, uint64(0x100), config.ResetValue(), "en resets to 1")
	require.Equal(t, []string{"cfg", "en"}, config.WritableFieldNames())

	// the built file is live: commit a field and observe the store
	require.NoError(t, config.SetField("cfg", 0x5))
	require.NoError(t, config.Update())
	v, ok := dev.Peek(0x210)
	require.True(t, ok)
	require.Equal(t, uint64(0x105), v)
}

func TestBuild_Validation(t *testing.T) {
	m := &Map{Name: "x", WordBytes: 2}
	dev, err := rfdev.NewSimpleMem(rfdev.WithWordBytes(4))
	require.NoError(t, err)

	_, err = m.Build(dev)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
	require.Contains(t, err.Error(), "2-byte words")

	_, err = m.Build(nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	bad := &Map{Name: "x", Registers: []RegisterDef{
		{Name: "r", Fields: []FieldDef{{Name: "f", Bits: "zz"}}},
	}}
	_, err = bad.Build(dev)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
	require.Contains(t, err.Error(), `register "r"`)
}

func TestBuild_OptionsPassThrough(t *testing.T) {
	dev, err := rfdev.NewSimpleMem(rfdev.WithWordBytes(4))
	require.NoError(t, err)
	rep := types.NewReport()

	m := &Map{Name: "x", Registers: []RegisterDef{
		{Name: "r", Fields: []FieldDef{{Name: "f", Bits: "2:0", Reset: hex(0xff)}}},
	}}
	rf, err := m.Build(dev,
		regfile.WithName("other"),
		regfile.WithWarningHandler(rep))
	require.NoError(t, err)

	require.Equal(t, "other", rf.Name(), "caller options win over the map name")
	require.True(t, rep.Has(types.WarnTruncation), "reset truncation routed to the handler")
}
