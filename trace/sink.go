package trace

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Sink receives trace events as accesses happen. Implementations must be
// safe for concurrent use; a sink that blocks slows every traced access.
type Sink interface {
	Record(Event)
}

// NopSink discards all events. Usable as a zero value.
type NopSink struct{}

// Record discards the event.
func (NopSink) Record(Event) {}

// Collector keeps events in memory, for tests and short interactive runs.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Record appends the event.
func (c *Collector) Record(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the collected events in record order.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Len returns the number of collected events.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Reset discards all collected events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

// MultiSink fans events out to several sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a sink that forwards every event to all given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Record forwards the event to every sink.
func (m *MultiSink) Record(e Event) {
	for _, s := range m.sinks {
		s.Record(e)
	}
}

// FileSink appends CBOR-encoded events to a file.
type FileSink struct {
	file    *os.File
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

// NewFileSink opens (or creates) the trace file at path for appending.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f, encoder: NewEncoder(f)}, nil
}

// Record appends the event. Encoding errors are dropped; tracing must not
// disturb the access path.
func (s *FileSink) Record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	_ = s.encoder.Encode(e)
}

// Close closes the trace file. Close is idempotent; events recorded after
// Close are silently dropped.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// Compile-time interface satisfaction checks.
var (
	_ Sink = NopSink{}
	_ Sink = (*Collector)(nil)
	_ Sink = (*MultiSink)(nil)
	_ Sink = (*FileSink)(nil)
)
