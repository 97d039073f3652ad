package trace

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder mode for trace events: canonical ordering and
// definite lengths keep equal events byte-identical across runs.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for trace events.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace: decoder mode: %v", err))
	}
}

// EncodeEvent encodes a single event to CBOR bytes.
func EncodeEvent(e Event) ([]byte, error) {
	return encMode.Marshal(e)
}

// DecodeEvent decodes CBOR bytes into an event.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := decMode.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// NewEncoder creates a CBOR encoder for trace events that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder for trace events that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
