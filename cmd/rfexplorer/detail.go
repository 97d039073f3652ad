package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/icglue/regfile-generics/regfile"
)

// detailModel renders one register as a modal overlay: identity, tracked
// words and the full field decomposition of the mirrored value.
type detailModel struct {
	reg   *regfile.Register
	width int
}

func newDetailModel(r *regfile.Register, screenWidth int) *detailModel {
	w := screenWidth - 20
	if w > 64 {
		w = 64
	}
	if w < 32 {
		w = 32
	}
	return &detailModel{reg: r, width: w}
}

func (d *detailModel) Init() tea.Cmd {
	return nil
}

func (d *detailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keys are handled by the parent model
	return d, nil
}

func (d *detailModel) View() string {
	r := d.reg
	var b strings.Builder

	b.WriteString(paneTitleStyle.Render(r.Name()))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("address", fmt.Sprintf("0x%x", r.Address()))
	row("write mask", fmt.Sprintf("0x%x", r.WriteMask()))
	row("reset", fmt.Sprintf("0x%x", r.ResetValue()))
	row("mirrored", fmt.Sprintf("0x%x", r.Mirrored()))
	if r.NeedsUpdate() {
		row("desired", rowPendingStyle.Render(fmt.Sprintf("0x%x (pending)", r.Desired())))
	}

	fields := r.Fields()
	if len(fields) > 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%-12s %-7s %-6s %s", "FIELD", "BITS", "ACCESS", "VALUE")))
		b.WriteString("\n")
		for _, f := range fields {
			access := f.Access()
			if access == "" {
				access = "-"
			}
			b.WriteString(fmt.Sprintf("%-12s %-7s %-6s 0x%x",
				f.Name(), formatBits(f), access, f.Extract(r.Mirrored())))
			if desc := f.Desc(); desc != "" {
				b.WriteString("  ")
				b.WriteString(helpStyle.Render(desc))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc to close"))
	return detailBoxStyle.Width(d.width).Render(b.String())
}
