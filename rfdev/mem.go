package rfdev

import (
	"log/slog"
	"math/rand/v2"

	"github.com/icglue/regfile-generics/internal/word"
)

// SimpleMem is a self-contained in-memory device with Simple write
// semantics: word-granular storage, deterministic pseudo-random backfill for
// unbacked addresses, and counters over the raw operations.
type SimpleMem struct {
	*Simple
	store *wordStore
}

// NewSimpleMem creates an in-memory Simple device. WithSeed controls the
// backfill sequence.
func NewSimpleMem(opts ...Option) (*SimpleMem, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	store := newWordStore(b.wordBytes, b.seed, b.logger)
	return &SimpleMem{Simple: &Simple{base: b, conn: store}, store: store}, nil
}

// ReadCount returns the number of raw word reads performed so far.
func (m *SimpleMem) ReadCount() int { return m.store.readCount }

// WriteCount returns the number of raw word writes performed so far.
func (m *SimpleMem) WriteCount() int { return m.store.writeCount }

// Peek returns the backing word at addr without counting or backfilling.
func (m *SimpleMem) Peek(addr uint64) (uint64, bool) {
	v, ok := m.store.words[addr]
	return v, ok
}

// Poke sets the backing word at addr without counting, for test seeding.
func (m *SimpleMem) Poke(addr, value uint64) {
	m.store.words[addr] = value & word.Mask(m.store.wordBytes)
}

// wordStore is the raw connection behind SimpleMem.
type wordStore struct {
	wordBytes  int
	words      map[uint64]uint64
	rng        *rand.Rand
	logger     *slog.Logger
	readCount  int
	writeCount int
}

func newWordStore(wordBytes int, seed uint64, logger *slog.Logger) *wordStore {
	return &wordStore{
		wordBytes: wordBytes,
		words:     make(map[uint64]uint64),
		rng:       rand.New(rand.NewPCG(seed, seed)),
		logger:    logger,
	}
}

func (s *wordStore) ReadWord(addr uint64) (uint64, error) {
	s.readCount++
	v, ok := s.words[addr]
	if !ok {
		v = s.rng.Uint64() & word.Mask(s.wordBytes)
		s.words[addr] = v
	}
	s.logger.Debug("mem read", "addr", word.Hex(addr), "value", word.Hex(v))
	return v, nil
}

func (s *wordStore) WriteWord(addr uint64, value uint64) error {
	s.writeCount++
	s.words[addr] = value & word.Mask(s.wordBytes)
	s.logger.Debug("mem write", "addr", word.Hex(addr), "value", word.Hex(value))
	return nil
}

// SubwordMem is a self-contained in-memory device with Subword write
// semantics: byte-granular storage in little-endian lane order, counters, and
// a record of the store size of every sub-word write for assertions.
type SubwordMem struct {
	*Subword
	store *byteStore
}

// NewSubwordMem creates an in-memory Subword device. WithSeed controls the
// backfill sequence.
func NewSubwordMem(opts ...Option) (*SubwordMem, error) {
	b, err := newBase(opts)
	if err != nil {
		return nil, err
	}
	store := newByteStore(b.wordBytes, b.seed, b.logger)
	return &SubwordMem{Subword: &Subword{base: b, conn: store}, store: store}, nil
}

// ReadCount returns the number of raw word reads performed so far.
func (m *SubwordMem) ReadCount() int { return m.store.readCount }

// WriteCount returns the number of raw sub-word writes performed so far.
func (m *SubwordMem) WriteCount() int { return m.store.writeCount }

// WriteSizes returns the byte size of every sub-word write so far, in order.
func (m *SubwordMem) WriteSizes() []int {
	out := make([]int, len(m.store.sizes))
	copy(out, m.store.sizes)
	return out
}

// PeekByte returns the backing byte at addr without counting or backfilling.
func (m *SubwordMem) PeekByte(addr uint64) (byte, bool) {
	b, ok := m.store.bytes[addr]
	return b, ok
}

// PokeWord sets a full backing word at addr without counting, for test
// seeding. addr should be word-aligned.
func (m *SubwordMem) PokeWord(addr, value uint64) {
	for i := 0; i < m.store.wordBytes; i++ {
		m.store.bytes[addr+uint64(i)] = word.LaneByte(value, i)
	}
}

// byteStore is the raw connection behind SubwordMem.
type byteStore struct {
	wordBytes  int
	bytes      map[uint64]byte
	rng        *rand.Rand
	logger     *slog.Logger
	readCount  int
	writeCount int
	sizes      []int
}

func newByteStore(wordBytes int, seed uint64, logger *slog.Logger) *byteStore {
	return &byteStore{
		wordBytes: wordBytes,
		bytes:     make(map[uint64]byte),
		rng:       rand.New(rand.NewPCG(seed, seed)),
		logger:    logger,
	}
}

func (s *byteStore) ReadWord(addr uint64) (uint64, error) {
	s.readCount++
	var v uint64
	for i := 0; i < s.wordBytes; i++ {
		b, ok := s.bytes[addr+uint64(i)]
		if !ok {
			b = byte(s.rng.Uint64())
			s.bytes[addr+uint64(i)] = b
		}
		v |= uint64(b) << uint(8*i)
	}
	s.logger.Debug("mem read", "addr", word.Hex(addr), "value", word.Hex(v))
	return v, nil
}

// WriteSubword stores size bytes of the full word value. The low address
// bits select the starting lane, so byte addr+i receives lane addr%W+i.
func (s *byteStore) WriteSubword(addr uint64, value uint64, size int) error {
	s.writeCount++
	s.sizes = append(s.sizes, size)
	lane := word.Lane(addr, s.wordBytes)
	for i := 0; i < size; i++ {
		s.bytes[addr+uint64(i)] = word.LaneByte(value, lane+i)
	}
	s.logger.Debug("mem write",
		"addr", word.Hex(addr), "value", word.Hex(value), "size", size)
	return nil
}
