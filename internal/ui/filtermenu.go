package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/gridx/internal/filter"
	"github.com/oakwood-commons/gridx/internal/grid"
)

// filterField is the horizontal cursor inside one condition row.
type filterField int

const (
	fieldColumn filterField = iota
	fieldOperator
	fieldValue
	fieldEndValue
)

// FilterMenu is the filter popover: a list of condition rows, each with
// a column, an operator, and (operator permitting) one or two values.
// Edits apply live; the host debounces the value input before pushing
// conditions into the controller.
type FilterMenu struct {
	columns []grid.Column
	conds   []filter.Condition
	cursor  int
	field   filterField
	input   textinput.Model
	editing bool
	theme   Theme
}

// NewFilterMenu builds the menu over the filterable columns.
func NewFilterMenu(columns []grid.Column, conds []filter.Condition, theme Theme) *FilterMenu {
	filterable := make([]grid.Column, 0, len(columns))
	for _, col := range columns {
		if col.Filterable {
			filterable = append(filterable, col)
		}
	}
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.SetWidth(24)
	m := &FilterMenu{
		columns: filterable,
		conds:   append([]filter.Condition(nil), conds...),
		input:   ti,
		theme:   theme,
	}
	return m
}

// Conditions returns the current condition list.
func (m *FilterMenu) Conditions() []filter.Condition {
	return append([]filter.Condition(nil), m.conds...)
}

// Focused reports whether the value text input owns the keyboard.
func (m *FilterMenu) Focused() bool {
	return m.editing
}

func (m *FilterMenu) column(id string) (grid.Column, bool) {
	for _, col := range m.columns {
		if col.ID == id {
			return col, true
		}
	}
	return grid.Column{}, false
}

func (m *FilterMenu) columnIndex(id string) int {
	for i, col := range m.columns {
		if col.ID == id {
			return i
		}
	}
	return 0
}

// addCondition appends a default condition on the first filterable
// column.
func (m *FilterMenu) addCondition() {
	if len(m.columns) == 0 {
		return
	}
	col := m.columns[0]
	m.conds = append(m.conds, filter.Condition{
		ColumnID: col.ID,
		Operator: filter.DefaultOperator(col.Type),
	})
	m.cursor = len(m.conds) - 1
	m.field = fieldColumn
}

// RemoveCurrent drops the condition under the cursor.
func (m *FilterMenu) RemoveCurrent() {
	if m.cursor < 0 || m.cursor >= len(m.conds) {
		return
	}
	m.conds = append(m.conds[:m.cursor], m.conds[m.cursor+1:]...)
	if m.cursor >= len(m.conds) {
		m.cursor = len(m.conds) - 1
	}
}

// cycleColumn retargets the condition and resets its operator to the
// new type's default when the previous operator no longer applies.
func (m *FilterMenu) cycleColumn(delta int) {
	if m.cursor >= len(m.conds) || len(m.columns) == 0 {
		return
	}
	cond := &m.conds[m.cursor]
	idx := (m.columnIndex(cond.ColumnID) + delta + len(m.columns)) % len(m.columns)
	col := m.columns[idx]
	cond.ColumnID = col.ID
	if !filter.ValidOperator(col.Type, cond.Operator) {
		cond.Operator = filter.DefaultOperator(col.Type)
		cond.Value = nil
		cond.EndValue = nil
	}
}

func (m *FilterMenu) cycleOperator(delta int) {
	if m.cursor >= len(m.conds) {
		return
	}
	cond := &m.conds[m.cursor]
	col, ok := m.column(cond.ColumnID)
	if !ok {
		return
	}
	options := filter.OperatorsFor(col.Type)
	if len(options) == 0 {
		return
	}
	current := 0
	for i, opt := range options {
		if filter.Operator(opt.Value) == cond.Operator {
			current = i
			break
		}
	}
	next := options[(current+delta+len(options))%len(options)]
	cond.Operator = filter.Operator(next.Value)
	if !filter.NeedsValue(cond.Operator) {
		cond.Value = nil
		cond.EndValue = nil
	}
	if !filter.NeedsEndValue(cond.Operator) {
		cond.EndValue = nil
	}
}

func (m *FilterMenu) startValueEdit() {
	if m.cursor >= len(m.conds) {
		return
	}
	cond := m.conds[m.cursor]
	if !filter.NeedsValue(cond.Operator) {
		return
	}
	seed := ""
	if m.field == fieldEndValue {
		if cond.EndValue != nil {
			seed = fmt.Sprintf("%v", cond.EndValue)
		}
	} else if cond.Value != nil {
		seed = fmt.Sprintf("%v", cond.Value)
	}
	m.input.SetValue(seed)
	m.input.SetCursor(len(seed))
	m.input.Focus()
	m.editing = true
}

func (m *FilterMenu) commitValueEdit() {
	if m.cursor < len(m.conds) {
		text := strings.TrimSpace(m.input.Value())
		var value any
		if text != "" {
			value = text
		}
		if m.field == fieldEndValue {
			m.conds[m.cursor].EndValue = value
		} else {
			m.conds[m.cursor].Value = value
		}
	}
	m.input.Blur()
	m.editing = false
}

func (m *FilterMenu) maxField() filterField {
	if m.cursor >= len(m.conds) {
		return fieldColumn
	}
	cond := m.conds[m.cursor]
	if filter.NeedsEndValue(cond.Operator) {
		return fieldEndValue
	}
	if filter.NeedsValue(cond.Operator) {
		return fieldValue
	}
	return fieldOperator
}

// Update handles one key event. The bool reports whether the condition
// list changed and should be (debounced and) pushed to the grid.
func (m *FilterMenu) Update(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.commitValueEdit()
			return nil, true
		case "esc":
			m.input.Blur()
			m.editing = false
			return nil, false
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd, false
		}
	}

	switch msg.String() {
	case "a", "+":
		m.addCondition()
		return nil, false
	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.field = fieldColumn
		}
	case "down":
		if m.cursor < len(m.conds)-1 {
			m.cursor++
			m.field = fieldColumn
		}
	case "tab", "right":
		if m.field < m.maxField() {
			m.field++
		}
	case "shift+tab", "left":
		if m.field > fieldColumn {
			m.field--
		}
	case "h":
		if m.field == fieldColumn {
			m.cycleColumn(-1)
			return nil, true
		}
		if m.field == fieldOperator {
			m.cycleOperator(-1)
			return nil, true
		}
	case "l", "space":
		if m.field == fieldColumn {
			m.cycleColumn(1)
			return nil, true
		}
		if m.field == fieldOperator {
			m.cycleOperator(1)
			return nil, true
		}
	case "enter":
		switch m.field {
		case fieldColumn:
			m.cycleColumn(1)
			return nil, true
		case fieldOperator:
			m.cycleOperator(1)
			return nil, true
		default:
			m.startValueEdit()
		}
	}
	return nil, false
}

// View renders the popover.
func (m *FilterMenu) View(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.MenuTitle.Render("Filters"))
	b.WriteString("\n")
	if len(m.conds) == 0 {
		b.WriteString(m.theme.Muted.Render("no filters · press a to add"))
		b.WriteString("\n")
	}
	for i, cond := range m.conds {
		col, _ := m.column(cond.ColumnID)
		label := col.Label
		if label == "" {
			label = cond.ColumnID
		}
		parts := []string{
			m.segment(i, fieldColumn, label),
			m.segment(i, fieldOperator, string(cond.Operator)),
		}
		if filter.NeedsValue(cond.Operator) {
			if m.editing && i == m.cursor && m.field == fieldValue {
				parts = append(parts, m.input.View())
			} else {
				parts = append(parts, m.segment(i, fieldValue, valueText(cond.Value)))
			}
			if filter.NeedsEndValue(cond.Operator) {
				if m.editing && i == m.cursor && m.field == fieldEndValue {
					parts = append(parts, m.input.View())
				} else {
					parts = append(parts, m.segment(i, fieldEndValue, valueText(cond.EndValue)))
				}
			}
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Muted.Render("a add · del remove · tab fields · enter edit · esc close"))
	return b.String()
}

func (m *FilterMenu) segment(row int, f filterField, text string) string {
	if text == "" {
		text = "·"
	}
	text = "[" + text + "]"
	if row == m.cursor && f == m.field {
		return m.theme.MenuActive.Render(text)
	}
	return m.theme.MenuItem.Render(text)
}

func valueText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
