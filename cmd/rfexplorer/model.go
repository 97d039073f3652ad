package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/icglue/regfile-generics/cmd/rfexplorer/logger"
	"github.com/icglue/regfile-generics/pkg/types"
	"github.com/icglue/regfile-generics/regfile"
	"github.com/icglue/regfile-generics/regmap"
	"github.com/icglue/regfile-generics/rfdev"

	tea "github.com/charmbracelet/bubbletea"
)

// Pane represents which pane is focused
type Pane int

const (
	RegisterPane Pane = iota
	FieldPane
)

// InputMode represents different input modes
type InputMode int

const (
	NormalMode InputMode = iota
	FilterMode
	WriteMode
)

// counterDevice is the in-memory simulation backend with access counters for
// the status bar.
type counterDevice interface {
	types.Device
	ReadCount() int
	WriteCount() int
}

// Model is the main application model
type Model struct {
	mapPath string
	rf      *regfile.Regfile
	dev     counterDevice
	regs    []*regfile.Register
	keys    KeyMap

	// visible holds the indexes into regs that survive the filter.
	visible []int
	cursor  int // position in visible
	offset  int // scroll offset of the register pane

	fieldCursor int // position in the selected register's field list

	focusedPane Pane
	width       int
	height      int

	// Input modes
	inputMode   InputMode
	inputBuffer string // buffer for filter/write input
	writeTarget string // label of the write destination while in WriteMode

	filterQuery string

	// Help overlay
	showHelp bool

	// Register detail overlay
	showDetail bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel creates a new TUI model over the register map at mapPath, backed
// by an in-memory simulation device.
func NewModel(mapPath, deviceKind string, seed uint64) Model {
	m := Model{
		mapPath: mapPath,
		keys:    DefaultKeyMap(),
	}

	rm, err := loadMap(mapPath)
	if err != nil {
		m.err = err
		return m
	}

	wordBytes := rm.WordBytes
	if wordBytes == 0 {
		wordBytes = rfdev.DefaultWordBytes
	}
	opts := []rfdev.Option{rfdev.WithWordBytes(wordBytes), rfdev.WithSeed(seed)}

	var dev counterDevice
	switch deviceKind {
	case "", "simple":
		dev, err = rfdev.NewSimpleMem(opts...)
	case "subword":
		dev, err = rfdev.NewSubwordMem(opts...)
	default:
		err = fmt.Errorf("unknown device kind %q (want simple or subword)", deviceKind)
	}
	if err != nil {
		m.err = err
		return m
	}

	rf, err := rm.Build(dev)
	if err != nil {
		m.err = err
		return m
	}

	m.rf = rf
	m.dev = dev
	m.regs = rf.Registers()
	m.applyFilter("")
	logger.Info("map loaded", "path", mapPath, "registers", len(m.regs))
	return m
}

// loadMap reads a register map, picking the decoder from the file extension.
func loadMap(path string) (*regmap.Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rf", ".txt":
		return regmap.LoadTextFile(path)
	default:
		return regmap.LoadFile(path)
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// applyFilter rebuilds the visible index list for a case-insensitive
// substring query and clamps the cursor.
func (m *Model) applyFilter(query string) {
	m.filterQuery = query
	m.visible = m.visible[:0]
	q := strings.ToLower(query)
	for i, r := range m.regs {
		if q == "" || strings.Contains(strings.ToLower(r.Name()), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = 0
	m.fieldCursor = 0
}

// current returns the selected register, or nil when the filter matches
// nothing.
func (m *Model) current() *regfile.Register {
	if len(m.visible) == 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.regs[m.visible[m.cursor]]
}

// currentField returns the selected field of the selected register.
func (m *Model) currentField() (regfile.Field, bool) {
	r := m.current()
	if r == nil {
		return regfile.Field{}, false
	}
	fields := r.Fields()
	if m.fieldCursor >= len(fields) {
		return regfile.Field{}, false
	}
	return fields[m.fieldCursor], true
}

// Close releases resources held by the model.
func (m Model) Close() error {
	// The simulation device holds no external resources.
	return nil
}
