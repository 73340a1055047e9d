package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/gridx/internal/grid"
)

// SortMenu is the sort popover: an ordered list of sort entries over the
// sortable columns. Entry order is sort priority.
type SortMenu struct {
	columns []grid.Column
	entries []grid.SortEntry
	cursor  int
	theme   Theme
}

// NewSortMenu builds the menu over the sortable columns.
func NewSortMenu(columns []grid.Column, entries []grid.SortEntry, theme Theme) *SortMenu {
	sortable := make([]grid.Column, 0, len(columns))
	for _, col := range columns {
		if col.Sortable {
			sortable = append(sortable, col)
		}
	}
	return &SortMenu{
		columns: sortable,
		entries: append([]grid.SortEntry(nil), entries...),
		theme:   theme,
	}
}

// Entries returns the current sort list.
func (m *SortMenu) Entries() []grid.SortEntry {
	return append([]grid.SortEntry(nil), m.entries...)
}

func (m *SortMenu) has(id string) bool {
	for _, e := range m.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// addEntry appends the first sortable column not yet in the list.
func (m *SortMenu) addEntry() {
	for _, col := range m.columns {
		if !m.has(col.ID) {
			m.entries = append(m.entries, grid.SortEntry{ID: col.ID})
			m.cursor = len(m.entries) - 1
			return
		}
	}
}

// RemoveCurrent drops the entry under the cursor.
func (m *SortMenu) RemoveCurrent() {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return
	}
	m.entries = append(m.entries[:m.cursor], m.entries[m.cursor+1:]...)
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
}

func (m *SortMenu) cycleColumn(delta int) {
	if m.cursor >= len(m.entries) || len(m.columns) == 0 {
		return
	}
	entry := &m.entries[m.cursor]
	idx := 0
	for i, col := range m.columns {
		if col.ID == entry.ID {
			idx = i
			break
		}
	}
	// Skip columns already used by another entry.
	for range m.columns {
		idx = (idx + delta + len(m.columns)) % len(m.columns)
		candidate := m.columns[idx].ID
		if candidate == entry.ID || !m.has(candidate) {
			entry.ID = candidate
			return
		}
	}
}

func (m *SortMenu) moveEntry(delta int) {
	target := m.cursor + delta
	if m.cursor < 0 || m.cursor >= len(m.entries) || target < 0 || target >= len(m.entries) {
		return
	}
	m.entries[m.cursor], m.entries[target] = m.entries[target], m.entries[m.cursor]
	m.cursor = target
}

// Update handles one key event. The bool reports whether the sort list
// changed.
func (m *SortMenu) Update(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "a", "+":
		m.addEntry()
		return nil, true
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "shift+up":
		m.moveEntry(-1)
		return nil, true
	case "shift+down":
		m.moveEntry(1)
		return nil, true
	case "left", "h":
		m.cycleColumn(-1)
		return nil, true
	case "right", "l":
		m.cycleColumn(1)
		return nil, true
	case "space", "enter":
		if m.cursor < len(m.entries) {
			m.entries[m.cursor].Desc = !m.entries[m.cursor].Desc
			return nil, true
		}
	}
	return nil, false
}

// View renders the popover.
func (m *SortMenu) View(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.MenuTitle.Render("Sort"))
	b.WriteString("\n")
	if len(m.entries) == 0 {
		b.WriteString(m.theme.Muted.Render("no sorting · press a to add"))
		b.WriteString("\n")
	}
	for i, entry := range m.entries {
		label := entry.ID
		for _, col := range m.columns {
			if col.ID == entry.ID {
				label = col.Label
				break
			}
		}
		arrow := "↑"
		if entry.Desc {
			arrow = "↓"
		}
		line := label + " " + arrow
		if i == m.cursor {
			line = m.theme.MenuActive.Render(line)
		} else {
			line = m.theme.MenuItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Muted.Render("a add · del remove · space direction · shift+↑↓ priority · esc close"))
	return b.String()
}
