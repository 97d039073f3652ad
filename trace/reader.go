package trace

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Reader streams events back out of a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
}

// NewReader opens the trace file at path.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f)}, nil
}

// Next returns the next event. It returns io.EOF when the stream ends.
func (r *Reader) Next() (Event, error) {
	var e Event
	if err := r.decoder.Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		return Event{}, err
	}
	return e, nil
}

// ReadAll returns all remaining events.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, e)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
