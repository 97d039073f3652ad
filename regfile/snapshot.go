package regfile

import (
	"fmt"
	"strings"

	"github.com/icglue/regfile-generics/pkg/types"
)

// Snapshot is a detached register value: the register name, its field layout
// and one captured word, decoupled from further register activity. A snapshot
// can be written back through Register.Write.
type Snapshot struct {
	name   string
	value  uint64
	fields []Field
	index  map[string]int
}

// Name returns the name of the register the snapshot was taken from.
func (s Snapshot) Name() string { return s.name }

// Value returns the captured word.
func (s Snapshot) Value() uint64 { return s.value }

// Field extracts one field from the captured word.
func (s Snapshot) Field(name string) (uint64, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, &types.Error{Kind: types.ErrKindUnknownField,
			Msg: fmt.Sprintf("register %q has no field %q", s.name, name)}
	}
	return s.fields[i].Extract(s.value), nil
}

// Fields decomposes the captured word into per-field values.
func (s Snapshot) Fields() FieldValues {
	out := make(FieldValues, len(s.fields))
	for _, f := range s.fields {
		out[f.name] = f.Extract(s.value)
	}
	return out
}

// String renders the snapshot the way Register.String renders a live
// register.
func (s Snapshot) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = fmt.Sprintf("%s: 0x%x", f.name, f.Extract(s.value))
	}
	return fmt.Sprintf("%s: {%s} = 0x%x", s.name, strings.Join(parts, ", "), s.value)
}
