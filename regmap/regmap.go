// Package regmap loads and validates declarative register map descriptions
// and turns them into live register files.
//
// A map names the registers of one address block, their offsets, write masks
// and fields. The primary format is YAML:
//
//	name: submodctrl
//	base_addr: 0x0
//	word_bytes: 4
//	registers:
//	  - name: config
//	    addr: 0x10
//	    write_mask: 0x1ff
//	    fields:
//	      - {name: cfg, bits: "4:0", access: RW, reset: 0x0}
//	      - {name: en, bits: "8", access: RW, reset: 0x1}
//	      - {name: status, bits: "31:16", access: RO}
//
// ParseText reads the same model from line-oriented vendor listings, and
// Build drives the regfile builder against a device.
package regmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// Hex is an unsigned integer scalar that accepts decimal, 0x, 0o and 0b
// literals and renders back as a 0x literal.
type Hex uint64

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *Hex) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("regmap: line %d: expected an integer scalar", node.Line)}
	}
	v, err := word.ParseUint(node.Value)
	if err != nil {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("regmap: line %d: invalid integer literal %q", node.Line, node.Value)}
	}
	*h = Hex(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (h Hex) MarshalYAML() (any, error) {
	return word.Hex(uint64(h)), nil
}

// MarshalJSON renders the value as a 0x string literal.
func (h Hex) MarshalJSON() ([]byte, error) {
	return json.Marshal(word.Hex(uint64(h)))
}

// UnmarshalJSON accepts both a JSON number and a 0x string literal.
func (h *Hex) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := word.ParseUint(s)
	if err != nil {
		return &types.Error{Kind: types.ErrKindArgument,
			Msg: fmt.Sprintf("regmap: invalid integer literal %s", s)}
	}
	*h = Hex(v)
	return nil
}

// Map describes one register file.
type Map struct {
	Name      string        `yaml:"name" json:"name"`
	BaseAddr  Hex           `yaml:"base_addr,omitempty" json:"base_addr,omitempty"`
	WordBytes int           `yaml:"word_bytes,omitempty" json:"word_bytes,omitempty"`
	Registers []RegisterDef `yaml:"registers" json:"registers"`
}

// RegisterDef describes one register. A nil WriteMask means every word bit
// is hardware-writable.
type RegisterDef struct {
	Name      string     `yaml:"name" json:"name"`
	Addr      Hex        `yaml:"addr" json:"addr"`
	WriteMask *Hex       `yaml:"write_mask,omitempty" json:"write_mask,omitempty"`
	Desc      string     `yaml:"desc,omitempty" json:"desc,omitempty"`
	Fields    []FieldDef `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// FieldDef describes one field as a bit range within the register word.
type FieldDef struct {
	Name   string `yaml:"name" json:"name"`
	Bits   string `yaml:"bits" json:"bits"`
	Access string `yaml:"access,omitempty" json:"access,omitempty"`
	Reset  *Hex   `yaml:"reset,omitempty" json:"reset,omitempty"`
	Desc   string `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Load decodes a YAML register map. Unknown keys are rejected so typos in
// hand-written maps surface instead of silently dropping configuration.
func Load(data []byte) (*Map, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Map
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "regmap: empty document"}
		}
		return nil, fmt.Errorf("regmap: %w", err)
	}
	return &m, nil
}

// LoadFile decodes the YAML register map at path.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal renders the map back to YAML.
func (m *Map) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// EncodeJSON writes the map as indented JSON, for tooling export.
func (m *Map) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Register returns the definition of the named register, or nil.
func (m *Map) Register(name string) *RegisterDef {
	for i := range m.Registers {
		if m.Registers[i].Name == name {
			return &m.Registers[i]
		}
	}
	return nil
}
