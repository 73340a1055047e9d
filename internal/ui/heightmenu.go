package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/gridx/internal/grid"
)

// HeightMenu is the row density popover.
type HeightMenu struct {
	cursor int
	theme  Theme
}

// NewHeightMenu builds the menu with the cursor on the active mode.
func NewHeightMenu(active grid.RowHeightMode, theme Theme) *HeightMenu {
	m := &HeightMenu{theme: theme}
	for i, mode := range grid.RowHeightModes {
		if mode == active {
			m.cursor = i
		}
	}
	return m
}

// Update handles one key event. The returned mode is non-empty when a
// selection was made.
func (m *HeightMenu) Update(msg tea.KeyPressMsg) grid.RowHeightMode {
	switch msg.String() {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(grid.RowHeightModes)-1 {
			m.cursor++
		}
	case "enter", "space":
		return grid.RowHeightModes[m.cursor]
	}
	return ""
}

// View renders the popover.
func (m *HeightMenu) View(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.MenuTitle.Render("Row height"))
	b.WriteString("\n")
	for i, mode := range grid.RowHeightModes {
		line := fmt.Sprintf("%s (%d)", mode, mode.Lines())
		if i == m.cursor {
			line = m.theme.MenuActive.Render(line)
		} else {
			line = m.theme.MenuItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Muted.Render("enter select · esc close"))
	return b.String()
}
