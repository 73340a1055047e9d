package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
)

// PasteChoice is the outcome of the paste overflow dialog.
type PasteChoice int

const (
	PasteUndecided PasteChoice = iota
	PasteExpand
	PasteFit
	PasteCancel
)

// PasteDialog asks whether an oversized paste should create the missing
// rows or only fill the rows that exist.
type PasteDialog struct {
	rowsNeeded int
	cursor     int
	theme      Theme
}

// NewPasteDialog builds the dialog for a shortfall of rowsNeeded rows.
func NewPasteDialog(rowsNeeded int, theme Theme) *PasteDialog {
	return &PasteDialog{rowsNeeded: rowsNeeded, theme: theme}
}

var pasteOptions = []string{"Create missing rows", "Paste into existing rows only", "Cancel"}

// Update handles one key event and returns the choice once made.
func (d *PasteDialog) Update(msg tea.KeyPressMsg) PasteChoice {
	switch msg.String() {
	case "up", "left":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "right", "tab":
		if d.cursor < len(pasteOptions)-1 {
			d.cursor++
		}
	case "enter":
		switch d.cursor {
		case 0:
			return PasteExpand
		case 1:
			return PasteFit
		default:
			return PasteCancel
		}
	case "esc":
		return PasteCancel
	}
	return PasteUndecided
}

// View renders the dialog.
func (d *PasteDialog) View(width int) string {
	var b strings.Builder
	b.WriteString(d.theme.MenuTitle.Render(
		fmt.Sprintf("Pasted data needs %d more row(s)", d.rowsNeeded)))
	b.WriteString("\n")
	for i, opt := range pasteOptions {
		if i == d.cursor {
			b.WriteString(d.theme.MenuActive.Render(opt))
		} else {
			b.WriteString(d.theme.MenuItem.Render(opt))
		}
		b.WriteString("\n")
	}
	return b.String()
}
