package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/icglue/regfile-generics/cmd/rfexplorer/logger"
)

// clearStatusMsg clears the temporary status message
type clearStatusMsg struct{}

// flash schedules the status message to clear after a short delay
func flash() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A load error leaves only quit
	if m.err != nil {
		if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Esc) {
			return m, tea.Quit
		}
		return m, nil
	}

	// If help is showing, handle help keys
	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
			return m, nil
		}
		return m, nil
	}

	// If the register detail is open, close on Esc/Enter, still allow quit
	if m.showDetail {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Enter) {
			m.showDetail = false
			return m, nil
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.inputMode == FilterMode || m.inputMode == WriteMode {
		return m.handleInputMode(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Esc):
		if m.filterQuery != "" {
			m.applyFilter("")
			m.statusMessage = "Filter cleared"
			return m, flash()
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.inputMode = FilterMode
		m.inputBuffer = m.filterQuery
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == RegisterPane {
			m.focusedPane = FieldPane
		} else {
			m.focusedPane = RegisterPane
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.regs))
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.regs))
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.current() != nil {
			m.showDetail = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Read):
		return m.handleRead()

	case key.Matches(msg, m.keys.Write):
		return m.enterWriteMode()

	case key.Matches(msg, m.keys.Flush):
		return m.handleFlush()

	case key.Matches(msg, m.keys.Reset):
		return m.handleReset()

	case key.Matches(msg, m.keys.Copy):
		return m.handleCopy()
	}

	return m, nil
}

// handleInputMode handles typing in the filter and write prompts
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		wasFilter := m.inputMode == FilterMode
		m.inputMode = NormalMode
		m.inputBuffer = ""
		if wasFilter {
			// Cancelling the prompt also drops the live-applied filter
			m.applyFilter("")
		}
		return m, nil

	case tea.KeyEnter:
		switch m.inputMode {
		case FilterMode:
			m.inputMode = NormalMode
			m.applyFilter(m.inputBuffer)
			m.inputBuffer = ""
			return m, nil
		case WriteMode:
			buffer := m.inputBuffer
			m.inputMode = NormalMode
			m.inputBuffer = ""
			return m.commitWrite(buffer)
		default:
			return m, nil
		}

	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.inputBuffer) > 0 {
			m.inputBuffer = m.inputBuffer[:len(m.inputBuffer)-1]
		}
		if m.inputMode == FilterMode {
			m.applyFilter(m.inputBuffer)
		}
		return m, nil

	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
		if m.inputMode == FilterMode {
			m.applyFilter(m.inputBuffer)
		}
		return m, nil
	}

	return m, nil
}

// moveCursor moves the focused cursor by delta and keeps the register list
// scrolled to the cursor.
func (m *Model) moveCursor(delta int) {
	if m.focusedPane == FieldPane {
		r := m.current()
		if r == nil {
			return
		}
		n := len(r.Fields())
		m.fieldCursor += delta
		if m.fieldCursor >= n {
			m.fieldCursor = n - 1
		}
		if m.fieldCursor < 0 {
			m.fieldCursor = 0
		}
		return
	}

	m.cursor += delta
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.fieldCursor = 0

	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m Model) handleRead() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	v, err := r.Read()
	if err != nil {
		m.statusMessage = fmt.Sprintf("Read failed: %v", err)
		return m, flash()
	}
	logger.Debug("register read", "register", r.Name(), "value", v)
	m.statusMessage = fmt.Sprintf("Read %s = 0x%x", r.Name(), v)
	return m, flash()
}

func (m Model) enterWriteMode() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	m.writeTarget = r.Name()
	if m.focusedPane == FieldPane {
		if f, ok := m.currentField(); ok {
			m.writeTarget = r.Name() + "." + f.Name()
		}
	}
	m.inputMode = WriteMode
	m.inputBuffer = ""
	return m, nil
}

// commitWrite parses the typed value and performs one write transaction
// against the selected register or field.
func (m Model) commitWrite(buffer string) (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	v, err := strconv.ParseUint(buffer, 0, 64)
	if err != nil {
		m.statusMessage = fmt.Sprintf("Invalid value %q", buffer)
		return m, flash()
	}

	if m.focusedPane == FieldPane {
		f, ok := m.currentField()
		if !ok {
			return m, nil
		}
		if err := r.WriteField(f.Name(), v); err != nil {
			m.statusMessage = fmt.Sprintf("Write failed: %v", err)
			return m, flash()
		}
		logger.Debug("field written", "register", r.Name(), "field", f.Name(), "value", v)
		m.statusMessage = fmt.Sprintf("Wrote %s.%s, %s = 0x%x", r.Name(), f.Name(), r.Name(), r.Mirrored())
		return m, flash()
	}

	if err := r.Write(v); err != nil {
		m.statusMessage = fmt.Sprintf("Write failed: %v", err)
		return m, flash()
	}
	logger.Debug("register written", "register", r.Name(), "value", v)
	m.statusMessage = fmt.Sprintf("Wrote %s = 0x%x", r.Name(), r.Mirrored())
	return m, flash()
}

func (m Model) handleFlush() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	if !r.NeedsUpdate() {
		m.statusMessage = "No pending changes"
		return m, flash()
	}
	if err := r.Update(); err != nil {
		m.statusMessage = fmt.Sprintf("Update failed: %v", err)
		return m, flash()
	}
	m.statusMessage = fmt.Sprintf("Updated %s = 0x%x", r.Name(), r.Mirrored())
	return m, flash()
}

func (m Model) handleReset() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	r.Reset()
	m.statusMessage = fmt.Sprintf("Mirror reset, %s = 0x%x", r.Name(), r.Mirrored())
	return m, flash()
}

func (m Model) handleCopy() (tea.Model, tea.Cmd) {
	r := m.current()
	if r == nil {
		return m, nil
	}
	text := fmt.Sprintf("0x%x", r.Mirrored())
	label := r.Name()
	if m.focusedPane == FieldPane {
		if f, ok := m.currentField(); ok {
			text = fmt.Sprintf("0x%x", f.Extract(r.Mirrored()))
			label = r.Name() + "." + f.Name()
		}
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.statusMessage = fmt.Sprintf("Copy failed: %v", err)
		return m, flash()
	}
	m.statusMessage = fmt.Sprintf("Copied %s = %s", label, text)
	return m, flash()
}
