package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/gridx/internal/grid"
)

// Column sizes are logical units shared with other frontends; the
// terminal renders them at one cell per ten units.
const sizeToTerminalCells = 10

func renderWidth(col grid.Column) int {
	w := col.Size / sizeToTerminalCells
	if w < 4 {
		w = 4
	}
	if w > 60 {
		w = 60
	}
	return w
}

// View wraps the rendered frame for the runtime. Frame assembly lives
// in frame so tests can assert on the plain string.
func (m *Model) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

// frame renders the full frame: header, windowed rows, optional search
// bar and toast, footer, with any open popover layered on top.
func (m *Model) frame() string {
	if m.loading {
		return m.theme.Muted.Render("loading " + m.entity.PluralName + "...")
	}
	if m.loadErr != nil {
		return m.theme.ToastError.Render("failed to load rows: " + m.loadErr.Error())
	}

	var b strings.Builder
	if m.headerVisible() {
		b.WriteString(m.renderHeader())
		b.WriteString("\n")
	}
	b.WriteString(m.renderRows())

	if m.searchOpen {
		b.WriteString("\n")
		b.WriteString(m.renderSearchBar())
	}
	if m.toast.text != "" {
		b.WriteString("\n")
		style := m.theme.ToastInfo
		if m.toast.isErr {
			style = m.theme.ToastError
		}
		b.WriteString(style.Render(m.toast.text))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	frame := b.String()
	if overlay := m.renderOverlay(); overlay != "" {
		return frame + "\n" + overlay
	}
	return frame
}

// headerVisible reports whether the header row renders this frame. A
// non-sticky header scrolls away with the rows.
func (m *Model) headerVisible() bool {
	return m.cfg.StickyHeader() || m.scroll == 0
}

// renderColumns is the display order: pinned-start, unpinned, pinned-end.
func (m *Model) renderColumns() []grid.Column {
	visible := m.ctrl.VisibleColumns()
	var start, middle, end []grid.Column
	for _, col := range visible {
		switch col.Pinned {
		case grid.PinStart:
			start = append(start, col)
		case grid.PinEnd:
			end = append(end, col)
		default:
			middle = append(middle, col)
		}
	}
	out := make([]grid.Column, 0, len(visible))
	out = append(out, start...)
	out = append(out, middle...)
	return append(out, end...)
}

func (m *Model) renderHeader() string {
	sortDir := map[string]bool{}
	sortPos := map[string]int{}
	for i, entry := range m.ctrl.Sorts() {
		sortDir[entry.ID] = entry.Desc
		sortPos[entry.ID] = i + 1
	}

	cells := make([]string, 0, len(m.renderColumns()))
	for _, col := range m.renderColumns() {
		label := col.Label
		if col.ID == grid.SelectColumnID {
			label = " "
		}
		if col.ID == grid.AddColumnID {
			label = "+"
		}
		style := m.theme.Header
		if pos, sorted := sortPos[col.ID]; sorted {
			arrow := "↑"
			if sortDir[col.ID] {
				arrow = "↓"
			}
			label = fmt.Sprintf("%s %s%d", label, arrow, pos)
			style = m.theme.HeaderSort
		}
		cells = append(cells, style.Render(pad(label, renderWidth(col))))
	}
	return truncateLine(strings.Join(cells, m.theme.Border.Render("│")), m.width)
}

func (m *Model) renderRows() string {
	count := m.ctrl.RowCount()
	if count == 0 {
		return m.theme.Muted.Render("no rows · ctrl+n adds one")
	}

	w := m.ctrl.Windower()
	window := w.Range(m.scroll, m.viewportHeight())
	matches := m.ctrl.MatchesByRow()
	focusRow, _ := m.ctrl.FocusPos()
	rect := m.ctrl.SelectionRect()
	nav := m.ctrl.NavColumns()
	navIndex := make(map[string]int, len(nav))
	for i, col := range nav {
		navIndex[col.ID] = i
	}

	lines := make([]string, 0, (window.End-window.Start)*m.ctrl.RowHeight().Lines())
	for row := window.Start; row < window.End; row++ {
		lines = append(lines, m.renderRow(row, focusRow, rect, navIndex, matches[row])...)
	}

	// Trim the overscan-rendered lines to the viewport.
	top := w.OffsetOf(window.Start)
	first := m.scroll - top
	if first < 0 {
		first = 0
	}
	last := first + m.viewportHeight()
	if first > len(lines) {
		first = len(lines)
	}
	if last > len(lines) {
		last = len(lines)
	}
	return strings.Join(lines[first:last], "\n")
}

// renderRow renders one record across the row height's line budget.
// Only long-text cells use the extra lines; everything else renders on
// the first line and pads below.
func (m *Model) renderRow(row, focusRow int, rect grid.Rect, navIndex map[string]int, matchCols []string) []string {
	rec, ok := m.ctrl.RecordAt(row)
	if !ok {
		return nil
	}
	height := m.ctrl.RowHeight().Lines()
	matched := make(map[string]bool, len(matchCols))
	for _, id := range matchCols {
		matched[id] = true
	}

	lines := make([]string, height)
	for lineIdx := 0; lineIdx < height; lineIdx++ {
		cells := make([]string, 0, len(m.renderColumns()))
		for _, col := range m.renderColumns() {
			width := renderWidth(col)
			text := ""
			switch {
			case col.ID == grid.SelectColumnID:
				if lineIdx == 0 {
					if m.ctrl.RowSelected(row) {
						text = "✓"
					} else {
						text = "·"
					}
				}
			case col.ID == grid.AddColumnID:
				// Trailing pseudo-column renders empty.
			default:
				text = m.cellLine(rec.Value(col.ID), col, lineIdx, height)
			}
			cells = append(cells, m.styleCell(text, width, col, row, focusRow, rect, navIndex, matched[col.ID]))
		}
		lines[lineIdx] = truncateLine(strings.Join(cells, m.theme.Border.Render("│")), m.width)
	}
	return lines
}

// cellLine returns the text for one line of a cell. Multi-line budgets
// wrap the display string; a truncated tail gets the indicator.
func (m *Model) cellLine(value any, col grid.Column, lineIdx, height int) string {
	text := grid.DisplayValue(value)
	if text == "" {
		return ""
	}
	if limit := m.cfg.ValuePreviewLimit(); limit > 0 {
		if runes := []rune(text); len(runes) > limit {
			text = string(runes[:limit])
		}
	}
	width := renderWidth(col)
	if height == 1 {
		if lineIdx > 0 {
			return ""
		}
		return truncate(text, width)
	}
	wrapped := wrapText(text, width, height)
	if lineIdx < len(wrapped) {
		return wrapped[lineIdx]
	}
	return ""
}

func (m *Model) styleCell(text string, width int, col grid.Column, row, focusRow int, rect grid.Rect, navIndex map[string]int, matched bool) string {
	text = pad(text, width)
	colIdx, navigable := navIndex[col.ID]
	_, focusCol := m.ctrl.FocusPos()

	switch {
	case navigable && row == focusRow && colIdx == focusCol:
		if m.editorOpen {
			return m.theme.Cursor.Render(pad(m.editor.View(), width))
		}
		return m.theme.Cursor.Render(text)
	case navigable && rect.Contains(row, colIdx):
		return m.theme.Selected.Render(text)
	case matched:
		return m.theme.Match.Render(text)
	case m.ctrl.RowSelected(row):
		return m.theme.RowSelected.Render(text)
	case col.Pinned != grid.PinNone:
		return m.theme.Pinned.Render(text)
	case col.LinkColumn && strings.TrimSpace(text) != "":
		return m.theme.Link.Render(text)
	default:
		return m.theme.Cell.Render(text)
	}
}

func (m *Model) renderSearchBar() string {
	s := m.ctrl.Search()
	status := ""
	if s.Query != "" {
		status = fmt.Sprintf(" %d/%d", s.Active+1, len(s.Matches))
		if len(s.Matches) == 0 {
			status = " no matches"
		}
	}
	return m.theme.Muted.Render("search: ") + m.searchInput.View() + m.theme.Muted.Render(status)
}

func (m *Model) renderFooter() string {
	row, _ := m.ctrl.FocusPos()
	total := len(m.ctrl.Records())
	shown := m.ctrl.RowCount()
	pos := ""
	if shown > 0 {
		pos = fmt.Sprintf("row %d/%d", row+1, shown)
	}
	if shown != total {
		pos += fmt.Sprintf(" (filtered from %d)", total)
	}
	if n := len(m.ctrl.SelectedRowIDs()); n > 0 {
		pos += fmt.Sprintf(" · %d selected", n)
	}
	if m.journal.Pending() > 0 {
		pos += " · saving…"
	}
	help := "ctrl+shift+f filters · ctrl+shift+s sort · ctrl+shift+h height · / search · ctrl+d delete · ctrl+q quit"
	left := m.theme.Muted.Render(pos)
	right := m.theme.Muted.Render(help)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncateLine(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderOverlay() string {
	width := min(m.width-4, 64)
	switch {
	case m.pasteDialog != nil:
		return m.pasteDialog.View(width)
	case m.filterMenu != nil:
		return m.filterMenu.View(width)
	case m.sortMenu != nil:
		return m.sortMenu.View(width)
	case m.heightMenu != nil:
		return m.heightMenu.View(width)
	}
	return ""
}

// pad fits text to an exact display width, truncating with an indicator
// when too long.
func pad(text string, width int) string {
	text = truncate(text, width)
	gap := width - runewidth.StringWidth(text)
	if gap > 0 {
		text += strings.Repeat(" ", gap)
	}
	return text
}

func truncate(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}

// truncateLine bounds a fully styled line to the terminal width.
func truncateLine(line string, width int) string {
	if lipgloss.Width(line) <= width {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// wrapText breaks a display string into at most maxLines lines of the
// given width, marking an overflowing tail.
func wrapText(text string, width, maxLines int) []string {
	if width < 1 {
		return nil
	}
	var lines []string
	remaining := text
	for len(remaining) > 0 && len(lines) < maxLines {
		if runewidth.StringWidth(remaining) <= width {
			lines = append(lines, remaining)
			break
		}
		head := runewidth.Truncate(remaining, width, "")
		// Break at the last space when one exists in the line.
		if idx := strings.LastIndex(head, " "); idx > 0 && len(lines) < maxLines-1 {
			head = head[:idx]
			remaining = strings.TrimLeft(remaining[idx+1:], " ")
		} else {
			remaining = remaining[len(head):]
		}
		if len(lines) == maxLines-1 && remaining != "" {
			head = truncate(head+remaining, width)
			remaining = ""
		}
		lines = append(lines, head)
	}
	return lines
}
