package regmap

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/icglue/regfile-generics/internal/word"
	"github.com/icglue/regfile-generics/pkg/types"
)

// ParseText reads a register map from the line-oriented listing format that
// vendor register tooling exports:
//
//	# comment
//	regfile submodctrl @ 0x0 word 4
//	reg config @ 0x10 wmask 0x1ff -- configuration register
//	field cfg 4:0 RW reset 0x0 -- main configuration
//	field en 8 RW reset 0x1
//	field status 31:16 RO
//
// A field belongs to the most recent reg record, a reg to the single regfile
// record. Text after " -- " is the description. Listings arrive UTF-8,
// UTF-16 with BOM, or Windows-1252 depending on the exporting tool; all
// three are decoded transparently.
func ParseText(data []byte) (*Map, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	var m *Map
	curReg := -1
	lineno := 0

	sc := bufio.NewScanner(bytes.NewReader(text))
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		head, desc := splitDesc(line)
		tok := strings.Fields(head)
		if len(tok) == 0 {
			continue
		}

		switch tok[0] {
		case "regfile":
			if m != nil {
				return nil, lineErr(lineno, "duplicate regfile record")
			}
			m = &Map{}
			if err := parseRegfileRecord(m, tok, lineno); err != nil {
				return nil, err
			}

		case "reg":
			if m == nil {
				return nil, lineErr(lineno, "reg record before regfile record")
			}
			def := RegisterDef{Desc: desc}
			if err := parseRegRecord(&def, tok, lineno); err != nil {
				return nil, err
			}
			m.Registers = append(m.Registers, def)
			curReg = len(m.Registers) - 1

		case "field":
			if curReg < 0 {
				return nil, lineErr(lineno, "field record before reg record")
			}
			f := FieldDef{Desc: desc}
			if err := parseFieldRecord(&f, tok, lineno); err != nil {
				return nil, err
			}
			r := &m.Registers[curReg]
			r.Fields = append(r.Fields, f)

		default:
			return nil, lineErr(lineno, "unknown record %q", tok[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("regmap: scan listing: %w", err)
	}
	if m == nil {
		return nil, &types.Error{Kind: types.ErrKindArgument, Msg: "regmap: no regfile record"}
	}
	return m, nil
}

// LoadTextFile reads the listing at path.
func LoadTextFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := ParseText(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func parseRegfileRecord(m *Map, tok []string, lineno int) error {
	if len(tok) < 2 {
		return lineErr(lineno, "regfile record needs a name")
	}
	m.Name = tok[1]
	for i := 2; i < len(tok); {
		switch tok[i] {
		case "@":
			v, err := recordValue(tok, i, lineno, "@")
			if err != nil {
				return err
			}
			m.BaseAddr = Hex(v)
		case "word":
			v, err := recordValue(tok, i, lineno, "word")
			if err != nil {
				return err
			}
			m.WordBytes = int(v)
		default:
			return lineErr(lineno, "unexpected token %q in regfile record", tok[i])
		}
		i += 2
	}
	return nil
}

func parseRegRecord(def *RegisterDef, tok []string, lineno int) error {
	if len(tok) < 2 {
		return lineErr(lineno, "reg record needs a name")
	}
	def.Name = tok[1]
	haveAddr := false
	for i := 2; i < len(tok); {
		switch tok[i] {
		case "@":
			v, err := recordValue(tok, i, lineno, "@")
			if err != nil {
				return err
			}
			def.Addr = Hex(v)
			haveAddr = true
		case "wmask":
			v, err := recordValue(tok, i, lineno, "wmask")
			if err != nil {
				return err
			}
			wm := Hex(v)
			def.WriteMask = &wm
		default:
			return lineErr(lineno, "unexpected token %q in reg record", tok[i])
		}
		i += 2
	}
	if !haveAddr {
		return lineErr(lineno, "reg %q has no address", def.Name)
	}
	return nil
}

func parseFieldRecord(f *FieldDef, tok []string, lineno int) error {
	if len(tok) < 3 {
		return lineErr(lineno, "field record needs a name and a bit range")
	}
	f.Name = tok[1]
	f.Bits = tok[2]

	i := 3
	if i < len(tok) && tok[i] != "reset" {
		f.Access = tok[i]
		i++
	}
	for i < len(tok) {
		if tok[i] != "reset" {
			return lineErr(lineno, "unexpected token %q in field record", tok[i])
		}
		v, err := recordValue(tok, i, lineno, "reset")
		if err != nil {
			return err
		}
		rst := Hex(v)
		f.Reset = &rst
		i += 2
	}
	return nil
}

// recordValue parses the integer literal following the keyword at tok[i].
func recordValue(tok []string, i, lineno int, keyword string) (uint64, error) {
	if i+1 >= len(tok) {
		return 0, lineErr(lineno, "%q needs a value", keyword)
	}
	v, err := word.ParseUint(tok[i+1])
	if err != nil {
		return 0, lineErr(lineno, "invalid %q value %q", keyword, tok[i+1])
	}
	return v, nil
}

func splitDesc(line string) (head, desc string) {
	if idx := strings.Index(line, " -- "); idx >= 0 {
		return line[:idx], strings.TrimSpace(line[idx+4:])
	}
	return line, ""
}

func lineErr(lineno int, format string, args ...any) error {
	return &types.Error{Kind: types.ErrKindArgument,
		Msg: fmt.Sprintf("regmap: line %d: %s", lineno, fmt.Sprintf(format, args...))}
}

// decodeText converts a listing to UTF-8. A BOM selects UTF-8 or UTF-16;
// without one, bytes that are not valid UTF-8 are read as Windows-1252.
func decodeText(data []byte) ([]byte, error) {
	var fallback transform.Transformer = transform.Nop
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return nil, fmt.Errorf("regmap: decode listing: %w", err)
	}
	return out, nil
}
