package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/icglue/regfile-generics/regfile"
)

// View renders the entire UI
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.width == 0 {
		return "Initializing..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	if m.showDetail {
		if r := m.current(); r != nil {
			// Recreated each render so the overlay sees current state
			detail := newDetailModel(r, m.width)
			background := NewMainViewModel(&m)
			return overlay.New(detail, background, overlay.Center, overlay.Center, 0, 0).View()
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// listHeight returns the number of register rows the left pane can show.
func (m Model) listHeight() int {
	h := m.height - 6
	if h < 1 {
		return 10
	}
	return h
}

// renderHeader renders the title bar with the map name and base address
func (m Model) renderHeader() string {
	title := headerStyle.Render("Register File Explorer")
	where := pathStyle.Render(fmt.Sprintf("%s @ 0x%x (%s)", m.rf.Name(), m.rf.BaseAddr(), m.mapPath))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", where)
}

// renderContent renders the register list and the field pane side by side
func (m Model) renderContent() string {
	leftWidth := m.width * 2 / 5
	if leftWidth < 30 {
		leftWidth = 30
	}
	rightWidth := m.width - leftWidth - 2
	if rightWidth < 20 {
		rightWidth = 20
	}
	h := m.listHeight()

	left := m.renderRegisterPane(leftWidth-4, h)
	right := m.renderFieldPane(rightWidth-4, h)

	leftStyle, rightStyle := paneStyle, paneStyle
	if m.focusedPane == RegisterPane {
		leftStyle = activePaneStyle
	} else {
		rightStyle = activePaneStyle
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftStyle.Width(leftWidth-2).Height(h+1).Render(left),
		rightStyle.Width(rightWidth-2).Height(h+1).Render(right),
	)
}

// renderRegisterPane renders the scrolled, filtered register rows
func (m Model) renderRegisterPane(width, height int) string {
	title := fmt.Sprintf("Registers (%d)", len(m.visible))
	if m.filterQuery != "" {
		title = fmt.Sprintf("Registers (%d/%d, filter %q)", len(m.visible), len(m.regs), m.filterQuery)
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(title))

	end := m.offset + height
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.offset; i < end; i++ {
		r := m.regs[m.visible[i]]
		line := formatRegisterRow(r, width)
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(rowSelectedStyle.Render(line))
		} else if r.NeedsUpdate() {
			b.WriteString(rowPendingStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}
	if len(m.visible) == 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("no registers match"))
	}
	return b.String()
}

// formatRegisterRow renders one register line, marking uncommitted values
// with an asterisk.
func formatRegisterRow(r *regfile.Register, width int) string {
	marker := " "
	if r.NeedsUpdate() {
		marker = "*"
	}
	line := fmt.Sprintf("%-14s @0x%04x = 0x%x%s", r.Name(), r.Address(), r.Mirrored(), marker)
	if len(line) > width && width > 3 {
		line = line[:width-3] + "..."
	}
	return line
}

// renderFieldPane renders the field decomposition of the selected register
func (m Model) renderFieldPane(width, height int) string {
	r := m.current()
	if r == nil {
		return paneTitleStyle.Render("Fields")
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render(fmt.Sprintf("Fields of %s", r.Name())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%-12s %-7s %-6s %s", "FIELD", "BITS", "ACCESS", "VALUE")))

	fields := r.Fields()
	rows := height - 2
	for i, f := range fields {
		if i >= rows {
			break
		}
		access := f.Access()
		if access == "" {
			access = "-"
		}
		line := fmt.Sprintf("%-12s %-7s %-6s 0x%x",
			f.Name(), formatBits(f), access, f.Extract(r.Mirrored()))
		if len(line) > width && width > 3 {
			line = line[:width-3] + "..."
		}
		b.WriteString("\n")
		if m.focusedPane == FieldPane && i == m.fieldCursor {
			b.WriteString(rowSelectedStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("write mask 0x%x", r.WriteMask())))
	if r.NeedsUpdate() {
		b.WriteString("\n")
		b.WriteString(rowPendingStyle.Render(fmt.Sprintf("pending 0x%x (u to update)", r.Desired())))
	}
	return b.String()
}

// formatBits renders a field range the way listings spell it
func formatBits(f regfile.Field) string {
	if f.MSB() == f.LSB() {
		return fmt.Sprintf("%d", f.LSB())
	}
	return fmt.Sprintf("%d:%d", f.MSB(), f.LSB())
}

// renderStatus renders the bottom status bar
func (m Model) renderStatus() string {
	var left string
	switch m.inputMode {
	case FilterMode:
		left = promptStyle.Render("/" + m.inputBuffer + "█")
	case WriteMode:
		left = promptStyle.Render(fmt.Sprintf("write %s: %s█", m.writeTarget, m.inputBuffer))
	default:
		if m.statusMessage != "" {
			left = statusOkStyle.Render(m.statusMessage)
		} else {
			left = helpStyle.Render("? help · / filter · r read · w write · tab pane · q quit")
		}
	}

	right := fmt.Sprintf("reads %d · writes %d", m.dev.ReadCount(), m.dev.WriteCount())
	gap := m.width - lipgloss.Width(left) - len(right) - 4
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderHelpOverlay renders the full-screen help view
func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Keyboard Reference"))
	b.WriteString("\n\n")

	sections := []struct {
		name string
		keys []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"↑/k, ↓/j", "move up / down"},
			{"pgup/pgdn", "page up / down"},
			{"g / G", "go to top / bottom"},
			{"tab", "switch between registers and fields"},
		}},
		{"Device access", []struct{ key, desc string }{
			{"r", "read the selected register from the device"},
			{"w", "write the selected register or field"},
			{"u", "issue pending (staged) bits as one update"},
			{"R", "reset the mirror to the reset value"},
		}},
		{"Other", []struct{ key, desc string }{
			{"/", "filter registers (live)"},
			{"enter", "open register detail"},
			{"c", "copy the selected value"},
			{"esc", "close / clear filter"},
			{"q", "quit"},
		}},
	}

	for _, s := range sections {
		b.WriteString(paneTitleStyle.Render(s.name))
		b.WriteString("\n")
		for _, k := range s.keys {
			b.WriteString(helpKeyStyle.Render(k.key))
			b.WriteString(helpDescStyle.Render(k.desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("Press esc or ? to close."))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
