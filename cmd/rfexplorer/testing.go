package main

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TestHelper provides utilities for testing TUI interactions
type TestHelper struct {
	model Model
}

// NewTestHelper creates a test helper over a map file with the default
// simulation device
func NewTestHelper(mapPath string) *TestHelper {
	return &TestHelper{
		model: NewModel(mapPath, "simple", 0),
	}
}

// SendKey simulates a special key press
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	msg := tea.KeyMsg{Type: keyType}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// Type simulates typing a string rune by rune
func (h *TestHelper) Type(s string) *TestHelper {
	for _, r := range s {
		h.SendKeyRune(r)
	}
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	msg := tea.WindowSizeMsg{Width: width, Height: height}
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

// GetModel returns the current model state
func (h *TestHelper) GetModel() Model {
	return h.model
}
