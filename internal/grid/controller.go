package grid

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/gridx/internal/filter"
	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

// Strict makes contract violations panic instead of logging and
// degrading to a no-op. Tests enable it; production builds leave it off
// so a bad column id can never take the whole grid down.
var Strict = false

// IntentKind classifies a mutation intent emitted to the external layer.
type IntentKind int

const (
	IntentCreateRow IntentKind = iota
	IntentUpdateRow
	IntentDeleteRows
)

// Intent is a mutation the controller wants the external data service to
// perform. The controller has already applied the change locally
// (optimistic); the caller owns issuing the call and rolling back on
// failure.
type Intent struct {
	Kind   IntentKind
	RowID  string         // update target
	TempID string         // create: local optimistic id to reconcile later
	Values map[string]any // create/update payload
	RowIDs []string       // delete targets
}

// EditState is the single in-flight cell edit. At most one exists. The
// target is anchored by row id, not index: a refresh mid-edit may
// reorder the visible rows, and the commit must land on the same record.
type EditState struct {
	RowID    string
	ColumnID string
	Original any
	Seed     string // initial text for the editor
	Replace  bool   // seed replaces instead of appending
}

// SearchState holds the grid search query and its matches over the
// currently visible rows.
type SearchState struct {
	Query   string
	Matches []Cell
	Active  int // index into Matches; -1 when none
}

// PasteState is the transient dialog state opened when pasted content
// needs more rows than exist below the target cell. The target row is
// anchored by id so a refresh while the dialog is open cannot retarget
// the paste.
type PasteState struct {
	Matrix       [][]string
	TopLeftRowID string
	TopLeftCol   int
	RowsNeeded   int
}

type cellPos struct {
	row int
	col int // index into navColumns
}

// Controller owns the grid's mutable state: column model, fetched
// records, filter/sort state, selection rectangle, focus, the single
// editing cell, search matches, and the virtualization windower. All
// methods are synchronous pure-Go state transitions; external effects
// are returned as Intents.
type Controller struct {
	log logr.Logger

	columns []Column
	types   map[string]schema.Type

	records []store.Record
	visible []int // indexes into records after filter+sort
	rowByID map[string]int // row id -> visible row index

	filters    []filter.Condition
	exprFilter *filter.ExprFilter
	sorts      []SortEntry

	anchor cellPos
	focus  cellPos

	editing *EditState
	search  SearchState
	paste   *PasteState

	searchLimit int

	rowSelection map[string]bool

	heightMode RowHeightMode
	win        *Windower

	sizeOverrides map[string]int
	hidden        map[string]bool
	pinned        map[string]PinSide
	linkColumn    string

	readOnly bool

	// pendingFocusRowID re-targets focus once an async row creation is
	// reflected in the data set.
	pendingFocusRowID string
}

// Config seeds a controller.
type Config struct {
	Attributes  []schema.Attribute
	LinkColumn  string
	ReadOnly    bool
	Overscan    int
	RowHeight   RowHeightMode
	SearchLimit int // max collected search matches
	Logger      logr.Logger
}

const (
	defaultOverscan    = 4
	defaultSearchLimit = 100
)

// NewController builds a controller for one entity's schema.
func NewController(cfg Config) *Controller {
	overscan := cfg.Overscan
	if overscan <= 0 {
		overscan = defaultOverscan
	}
	heightMode := cfg.RowHeight
	if heightMode == "" {
		heightMode = RowHeightShort
	}
	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	c := &Controller{
		log:           cfg.Logger,
		readOnly:      cfg.ReadOnly,
		linkColumn:    cfg.LinkColumn,
		heightMode:    heightMode,
		searchLimit:   searchLimit,
		rowSelection:  make(map[string]bool),
		sizeOverrides: make(map[string]int),
		hidden:        make(map[string]bool),
		pinned:        make(map[string]PinSide),
		win:           NewWindower(0, heightMode.Lines(), overscan),
		search:        SearchState{Active: -1},
	}
	c.SetSchema(cfg.Attributes)
	return c
}

// SetSchema rebuilds the column model from an attribute list. The
// rebuild is total, not incremental: identity, width, and operator sets
// all depend on type. User size overrides survive by column id; filters
// and sorts referencing vanished columns are dropped, and filters whose
// operator is no longer valid for the column's type reset to the type's
// default operator.
func (c *Controller) SetSchema(attrs []schema.Attribute) {
	c.columns = BuildColumns(attrs, BuildOptions{
		LinkColumnSlug: c.linkColumn,
		SizeOverrides:  c.sizeOverrides,
		ReadOnly:       c.readOnly,
	})
	c.types = make(map[string]schema.Type, len(attrs))
	for _, a := range attrs {
		c.types[a.Slug] = a.Type
	}
	for id := range c.hidden {
		if _, ok := c.types[id]; !ok {
			delete(c.hidden, id)
		}
	}

	kept := c.filters[:0]
	for _, f := range c.filters {
		t, ok := c.types[f.ColumnID]
		if !ok {
			continue
		}
		if !filter.ValidOperator(t, f.Operator) {
			f.Operator = filter.DefaultOperator(t)
			f.Value = nil
			f.EndValue = nil
		}
		kept = append(kept, f)
	}
	c.filters = kept

	keptSorts := c.sorts[:0]
	for _, s := range c.sorts {
		if _, ok := c.types[s.ID]; ok {
			keptSorts = append(keptSorts, s)
		}
	}
	c.sorts = keptSorts

	c.applyView(true)
}

// SetRecords replaces the fetched record page. Selection and focus are
// preserved where the focused row id still exists; otherwise focus
// clamps to the nearest row.
func (c *Controller) SetRecords(records []store.Record) {
	c.records = records
	c.applyView(true)
}

// Records returns the raw fetched page in source order.
func (c *Controller) Records() []store.Record {
	return c.records
}

// applyView recomputes the derived visible row order (filter pass, then
// stable multi-column sort) and re-resolves focus/selection by row id.
// preserveByID is false for pure cursor moves where indexes are already
// valid.
func (c *Controller) applyView(preserveByID bool) {
	var focusRowID, anchorRowID string
	if preserveByID {
		focusRowID = c.rowIDAt(c.focus.row)
		anchorRowID = c.rowIDAt(c.anchor.row)
	}

	c.visible = c.visible[:0]
	for i, rec := range c.records {
		if !filter.RowVisible(c.filters, c.types, rec.Values) {
			continue
		}
		if c.exprFilter != nil && !c.exprFilter.Match(rec.Values) {
			continue
		}
		c.visible = append(c.visible, i)
	}
	c.visible = sortIndexes(c.records, c.visible, c.sorts, c.types)

	c.rowByID = make(map[string]int, len(c.visible))
	for pos, idx := range c.visible {
		c.rowByID[c.records[idx].ID] = pos
	}

	c.win.SetCount(len(c.visible))

	if c.pendingFocusRowID != "" {
		if pos, ok := c.rowByID[c.pendingFocusRowID]; ok {
			col := c.firstEditableNavCol()
			c.focus = cellPos{row: pos, col: col}
			c.anchor = c.focus
			c.pendingFocusRowID = ""
			c.refreshSearch()
			return
		}
	}

	if preserveByID {
		if pos, ok := c.rowByID[focusRowID]; ok {
			c.focus.row = pos
		}
		if pos, ok := c.rowByID[anchorRowID]; ok {
			c.anchor.row = pos
		}
	}
	c.clampSelection()
	c.refreshSearch()
}

func (c *Controller) rowIDAt(pos int) string {
	if pos < 0 || pos >= len(c.visible) {
		return ""
	}
	// The visible order can momentarily lag a record refresh.
	idx := c.visible[pos]
	if idx < 0 || idx >= len(c.records) {
		return ""
	}
	return c.records[idx].ID
}

// RowID resolves a visible row index to its record id.
func (c *Controller) RowID(pos int) string {
	return c.rowIDAt(pos)
}

// RowIndex resolves a record id to its current visible index; the
// second return is false when the row is filtered out or gone. Stored
// coordinates must be re-resolved through this before reuse across a
// data refresh.
func (c *Controller) RowIndex(id string) (int, bool) {
	pos, ok := c.rowByID[id]
	return pos, ok
}

// RecordAt returns the record shown at a visible row index.
func (c *Controller) RecordAt(pos int) (store.Record, bool) {
	if pos < 0 || pos >= len(c.visible) {
		return store.Record{}, false
	}
	return c.records[c.visible[pos]], true
}

// RowCount is the number of rows after filtering.
func (c *Controller) RowCount() int {
	return len(c.visible)
}

// Columns returns the full column list including pseudo-columns.
func (c *Controller) Columns() []Column {
	return c.columns
}

// VisibleColumns returns render-order columns that are not hidden.
func (c *Controller) VisibleColumns() []Column {
	out := make([]Column, 0, len(c.columns))
	for _, col := range c.columns {
		if c.hidden[col.ID] {
			continue
		}
		col.Pinned = c.pinOf(col)
		out = append(out, col)
	}
	return out
}

// navColumns returns the columns focus can land on: visible and not
// pseudo. The select and add-column pseudo-columns are never focusable.
func (c *Controller) navColumns() []Column {
	out := make([]Column, 0, len(c.columns))
	for _, col := range c.columns {
		if col.Pseudo || c.hidden[col.ID] {
			continue
		}
		out = append(out, col)
	}
	return out
}

// NavColumns exposes the focusable column list for rendering.
func (c *Controller) NavColumns() []Column {
	return c.navColumns()
}

func (c *Controller) pinOf(col Column) PinSide {
	if side, ok := c.pinned[col.ID]; ok {
		return side
	}
	return col.Pinned
}

func (c *Controller) navColumn(idx int) (Column, bool) {
	nav := c.navColumns()
	if idx < 0 || idx >= len(nav) {
		return Column{}, false
	}
	return nav[idx], true
}

func (c *Controller) navColIndex(id string) (int, bool) {
	for i, col := range c.navColumns() {
		if col.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (c *Controller) firstEditableNavCol() int {
	for i, col := range c.navColumns() {
		if col.Editable {
			return i
		}
	}
	return 0
}

func (c *Controller) clampSelection() {
	c.focus = c.clampPos(c.focus)
	c.anchor = c.clampPos(c.anchor)
}

func (c *Controller) clampPos(p cellPos) cellPos {
	maxRow := len(c.visible) - 1
	if p.row > maxRow {
		p.row = maxRow
	}
	if p.row < 0 {
		p.row = 0
	}
	maxCol := len(c.navColumns()) - 1
	if p.col > maxCol {
		p.col = maxCol
	}
	if p.col < 0 {
		p.col = 0
	}
	return p
}

// FocusedCell returns the focused cell coordinate. The second return is
// false when the grid has no rows or no focusable columns.
func (c *Controller) FocusedCell() (Cell, bool) {
	if len(c.visible) == 0 {
		return Cell{}, false
	}
	col, ok := c.navColumn(c.focus.col)
	if !ok {
		return Cell{}, false
	}
	return Cell{Row: c.focus.row, ColumnID: col.ID}, true
}

// FocusPos returns the raw focus position (row, nav-column index).
func (c *Controller) FocusPos() (row, col int) {
	return c.focus.row, c.focus.col
}

// SelectionRect returns the normalized selection rectangle in
// (row, nav-column index) space.
func (c *Controller) SelectionRect() Rect {
	return NormalizeRect(c.anchor.row, c.anchor.col, c.focus.row, c.focus.col)
}

// MoveFocus moves the focused cell by a row/column delta, clamped at the
// grid edges with no wraparound, never entering pseudo-columns. When
// extend is true the selection rectangle grows from its anchor instead
// of collapsing to a point. An in-flight edit commits first via the
// caller (see Interpret: ActionCommitStay).
func (c *Controller) MoveFocus(dRow, dCol int, extend bool) {
	if len(c.visible) == 0 {
		return
	}
	next := c.clampPos(cellPos{row: c.focus.row + dRow, col: c.focus.col + dCol})
	c.focus = next
	if !extend {
		c.anchor = next
	}
}

// MoveFocusTo jumps focus to an absolute visible row, keeping the column.
func (c *Controller) MoveFocusTo(row int, extend bool) {
	if len(c.visible) == 0 {
		return
	}
	next := c.clampPos(cellPos{row: row, col: c.focus.col})
	c.focus = next
	if !extend {
		c.anchor = next
	}
}

// Editing returns the in-flight edit, nil when idle.
func (c *Controller) Editing() *EditState {
	return c.editing
}

// StartEdit opens editing on the focused cell. It is a silent no-op when
// the grid is read-only, the column is not editable, or there is no
// focusable cell. Entering edit on a new cell while another edit is
// open cancels the previous one; commit-then-edit is the caller's
// sequencing via the keyboard actions.
func (c *Controller) StartEdit(seed string, replace bool) bool {
	if c.readOnly {
		return false
	}
	cell, ok := c.FocusedCell()
	if !ok {
		return false
	}
	col, ok := c.navColumn(c.focus.col)
	if !ok || !col.Editable {
		return false
	}
	rec, ok := c.RecordAt(cell.Row)
	if !ok {
		return false
	}
	original := rec.Value(cell.ColumnID)
	if seed == "" && !replace {
		seed = displayString(original)
	}
	c.editing = &EditState{
		RowID:    rec.ID,
		ColumnID: cell.ColumnID,
		Original: original,
		Seed:     seed,
		Replace:  replace,
	}
	return true
}

// CancelEdit discards the in-progress value. No external call is made
// and the visible cell keeps its original value.
func (c *Controller) CancelEdit() {
	c.editing = nil
}

// CommitEdit closes the edit with a new value, applies it optimistically
// to the local record, and returns the update intent for the external
// layer. Number range constraints are advisory: out-of-range values are
// accepted (ValidateNumber lets the UI signal them). Rows with
// unconfirmed temp ids produce no intent; their values ride along with
// the eventual create confirmation.
func (c *Controller) CommitEdit(value any) ([]Intent, bool) {
	edit := c.editing
	if edit == nil {
		return nil, false
	}
	c.editing = nil

	// Re-resolve by id: the data set may have refreshed and re-sorted
	// mid-edit. A row that vanished drops the commit.
	row, ok := c.RowIndex(edit.RowID)
	if !ok {
		return nil, false
	}
	idx := c.visible[row]
	if c.records[idx].Values == nil {
		c.records[idx].Values = map[string]any{}
	}
	c.records[idx].Values[edit.ColumnID] = value
	c.applyView(true)

	if store.IsTempID(edit.RowID) {
		return nil, true
	}
	return []Intent{{
		Kind:   IntentUpdateRow,
		RowID:  edit.RowID,
		Values: map[string]any{edit.ColumnID: value},
	}}, true
}

// ValidateNumber reports whether a numeric value violates the column's
// advisory min/max constraints. A non-nil error never blocks a commit.
func ValidateNumber(col Column, value float64) error {
	if col.Min != nil && value < *col.Min {
		return fmt.Errorf("%s is below the minimum of %v", col.Label, *col.Min)
	}
	if col.Max != nil && value > *col.Max {
		return fmt.Errorf("%s is above the maximum of %v", col.Label, *col.Max)
	}
	return nil
}

// CopySelection serializes the selection rectangle to the clipboard text
// format: display values, tab-delimited cells, newline-delimited rows.
func (c *Controller) CopySelection() string {
	if len(c.visible) == 0 {
		return ""
	}
	rect := c.SelectionRect()
	nav := c.navColumns()
	matrix := make([][]string, 0, rect.Rows())
	for row := rect.MinRow; row <= rect.MaxRow && row < len(c.visible); row++ {
		rec, _ := c.RecordAt(row)
		cells := make([]string, 0, rect.Cols())
		for col := rect.MinCol; col <= rect.MaxCol && col < len(nav); col++ {
			cells = append(cells, displayString(rec.Value(nav[col].ID)))
		}
		matrix = append(matrix, cells)
	}
	return EncodeMatrix(matrix)
}

// PasteText decodes clipboard text and either applies it at the focused
// cell or, when it needs more rows than exist below the target, opens
// the paste dialog instead. The bool reports whether the dialog opened.
func (c *Controller) PasteText(text string) ([]Intent, bool) {
	if c.readOnly {
		return nil, false
	}
	matrix := DecodeMatrix(text)
	if len(matrix) == 0 {
		return nil, false
	}
	cell, ok := c.FocusedCell()
	if !ok {
		return nil, false
	}
	available := len(c.visible) - cell.Row
	if needed := RowsNeeded(matrix, available); needed > 0 {
		c.paste = &PasteState{
			Matrix:       matrix,
			TopLeftRowID: c.rowIDAt(cell.Row),
			TopLeftCol:   c.focus.col,
			RowsNeeded:   needed,
		}
		return nil, true
	}
	return c.applyPaste(matrix, cell.Row, c.focus.col, false), false
}

// PasteDialog returns the open paste dialog state, nil when closed.
func (c *Controller) PasteDialog() *PasteState {
	return c.paste
}

// ResolvePasteDialog finishes a pending paste: expand creates optimistic
// rows for the shortfall, fit applies only the rows that exist. The
// target row is re-resolved by id first; if a refresh removed it while
// the dialog was open, the paste is dropped. Cancel by calling
// ClosePasteDialog instead.
func (c *Controller) ResolvePasteDialog(expand bool) []Intent {
	state := c.paste
	if state == nil {
		return nil
	}
	c.paste = nil
	row, ok := c.RowIndex(state.TopLeftRowID)
	if !ok {
		return nil
	}
	return c.applyPaste(state.Matrix, row, state.TopLeftCol, expand)
}

// ClosePasteDialog abandons a pending paste without applying anything.
func (c *Controller) ClosePasteDialog() {
	c.paste = nil
}

// applyPaste writes a decoded matrix into the grid starting at the
// top-left position, column by column, skipping pseudo and read-only
// columns. Cells whose text cannot coerce to the column type are left
// unchanged without aborting the paste. One update intent is emitted per
// affected existing row and one create intent per expansion row.
func (c *Controller) applyPaste(matrix [][]string, topRow, topCol int, expand bool) []Intent {
	nav := c.navColumns()
	if topCol >= len(nav) {
		return nil
	}

	var intents []Intent
	for r, matrixRow := range matrix {
		targetRow := topRow + r
		changed := map[string]any{}
		for cIdx, text := range matrixRow {
			colIdx := topCol + cIdx
			if colIdx >= len(nav) {
				break
			}
			col := nav[colIdx]
			if !col.Editable {
				continue
			}
			value, ok := CoerceCellText(col, text)
			if !ok {
				continue
			}
			changed[col.ID] = value
		}
		if len(changed) == 0 {
			continue
		}

		if targetRow < len(c.visible) {
			idx := c.visible[targetRow]
			if c.records[idx].Values == nil {
				c.records[idx].Values = map[string]any{}
			}
			for k, v := range changed {
				c.records[idx].Values[k] = v
			}
			rowID := c.records[idx].ID
			if !store.IsTempID(rowID) {
				intents = append(intents, Intent{
					Kind:   IntentUpdateRow,
					RowID:  rowID,
					Values: changed,
				})
			}
			continue
		}

		if !expand {
			continue
		}
		tempID := store.NewTempID()
		c.records = append(c.records, store.Record{ID: tempID, Values: changed})
		intents = append(intents, Intent{
			Kind:   IntentCreateRow,
			TempID: tempID,
			Values: changed,
		})
	}

	c.applyView(true)
	return intents
}

// DeleteSelection clears every editable cell inside the selection
// rectangle, batching one update intent per affected row.
func (c *Controller) DeleteSelection() []Intent {
	if c.readOnly || len(c.visible) == 0 {
		return nil
	}
	rect := c.SelectionRect()
	nav := c.navColumns()
	var intents []Intent
	for row := rect.MinRow; row <= rect.MaxRow && row < len(c.visible); row++ {
		idx := c.visible[row]
		changed := map[string]any{}
		for col := rect.MinCol; col <= rect.MaxCol && col < len(nav); col++ {
			if !nav[col].Editable {
				continue
			}
			if _, present := c.records[idx].Values[nav[col].ID]; !present {
				continue
			}
			delete(c.records[idx].Values, nav[col].ID)
			changed[nav[col].ID] = nil
		}
		if len(changed) == 0 {
			continue
		}
		rowID := c.records[idx].ID
		if store.IsTempID(rowID) {
			continue
		}
		intents = append(intents, Intent{
			Kind:   IntentUpdateRow,
			RowID:  rowID,
			Values: changed,
		})
	}
	c.applyView(true)
	return intents
}

// AddRow appends an optimistic empty row and returns the create intent.
// Focus re-targets the new row's first editable column once the row
// exists in the data set (immediately for the optimistic copy, again
// after ConfirmRow swaps in the server id).
func (c *Controller) AddRow() (store.Record, Intent) {
	tempID := store.NewTempID()
	rec := store.Record{ID: tempID, Values: map[string]any{}}
	c.records = append(c.records, rec)
	c.pendingFocusRowID = tempID
	c.applyView(true)
	return rec, Intent{Kind: IntentCreateRow, TempID: tempID, Values: map[string]any{}}
}

// ConfirmRow reconciles an optimistic row with the canonical record the
// service returned: the temp id is replaced and any server-assigned
// values are merged. Unknown temp ids are dropped silently (the row was
// rolled back or deleted concurrently).
func (c *Controller) ConfirmRow(tempID string, canonical store.Record) {
	for i := range c.records {
		if c.records[i].ID != tempID {
			continue
		}
		values := c.records[i].Values
		for k, v := range canonical.Values {
			if _, present := values[k]; !present {
				values[k] = v
			}
		}
		c.records[i] = store.Record{ID: canonical.ID, Values: values}
		if c.pendingFocusRowID == tempID {
			c.pendingFocusRowID = canonical.ID
		}
		if c.rowSelection[tempID] {
			delete(c.rowSelection, tempID)
			c.rowSelection[canonical.ID] = true
		}
		c.applyView(true)
		return
	}
	c.log.V(1).Info("confirm for unknown temp row", "temp_id", tempID)
}

// ToggleRowSelected flips row-level selection for the focused row.
func (c *Controller) ToggleRowSelected() {
	id := c.rowIDAt(c.focus.row)
	if id == "" {
		return
	}
	if c.rowSelection[id] {
		delete(c.rowSelection, id)
		return
	}
	c.rowSelection[id] = true
}

// RowSelected reports row-level selection for a visible row index.
func (c *Controller) RowSelected(pos int) bool {
	return c.rowSelection[c.rowIDAt(pos)]
}

// SelectedRowIDs returns the row-selected ids in visible order.
func (c *Controller) SelectedRowIDs() []string {
	out := make([]string, 0, len(c.rowSelection))
	for _, idx := range c.visible {
		if c.rowSelection[c.records[idx].ID] {
			out = append(out, c.records[idx].ID)
		}
	}
	return out
}

// DeleteSelectedRows removes the row-selected records locally and
// returns a single batched delete intent. Unconfirmed temp rows are
// removed locally but excluded from the intent.
func (c *Controller) DeleteSelectedRows() []Intent {
	if c.readOnly {
		return nil
	}
	ids := c.SelectedRowIDs()
	if len(ids) == 0 {
		return nil
	}
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	kept := c.records[:0]
	for _, rec := range c.records {
		if doomed[rec.ID] {
			delete(c.rowSelection, rec.ID)
			continue
		}
		kept = append(kept, rec)
	}
	c.records = kept
	c.applyView(true)

	persisted := make([]string, 0, len(ids))
	for _, id := range ids {
		if !store.IsTempID(id) {
			persisted = append(persisted, id)
		}
	}
	if len(persisted) == 0 {
		return nil
	}
	return []Intent{{Kind: IntentDeleteRows, RowIDs: persisted}}
}

// SetColumnFilters replaces the active filter list. Operators invalid
// for their column's semantic type are corrected to the type's default.
func (c *Controller) SetColumnFilters(conds []filter.Condition) {
	cleaned := make([]filter.Condition, 0, len(conds))
	for _, cond := range conds {
		t, ok := c.types[cond.ColumnID]
		if !ok {
			c.contractViolation("filter references unknown column %q", cond.ColumnID)
			continue
		}
		if !filter.ValidOperator(t, cond.Operator) {
			cond.Operator = filter.DefaultOperator(t)
			cond.Value = nil
			cond.EndValue = nil
		}
		cleaned = append(cleaned, cond)
	}
	c.filters = cleaned
	c.applyView(true)
}

// Filters returns the active filter conditions.
func (c *Controller) Filters() []filter.Condition {
	return c.filters
}

// SetExprFilter installs (or clears, with nil) the advanced expression
// filter, AND-combined with the declarative conditions.
func (c *Controller) SetExprFilter(f *filter.ExprFilter) {
	c.exprFilter = f
	c.applyView(true)
}

// SetSorting replaces the multi-column sort list.
func (c *Controller) SetSorting(entries []SortEntry) {
	cleaned := make([]SortEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := c.types[e.ID]; !ok {
			c.contractViolation("sort references unknown column %q", e.ID)
			continue
		}
		cleaned = append(cleaned, e)
	}
	c.sorts = cleaned
	c.applyView(true)
}

// Sorts returns the active sort list.
func (c *Controller) Sorts() []SortEntry {
	return c.sorts
}

// SetColumnVisibility hides or shows a column. When the focused column
// is hidden, focus collapses to the nearest visible column.
func (c *Controller) SetColumnVisibility(id string, visible bool) {
	if _, ok := c.types[id]; !ok {
		c.contractViolation("visibility change for unknown column %q", id)
		return
	}
	focusedID := ""
	if col, ok := c.navColumn(c.focus.col); ok {
		focusedID = col.ID
	}
	if visible {
		delete(c.hidden, id)
	} else {
		c.hidden[id] = true
	}
	if focusedID != "" && focusedID != id {
		if idx, ok := c.navColIndex(focusedID); ok {
			c.focus.col = idx
			c.anchor.col = idx
		}
	}
	c.clampSelection()
	c.refreshSearch()
}

// ColumnHidden reports whether a column is hidden.
func (c *Controller) ColumnHidden(id string) bool {
	return c.hidden[id]
}

// SetColumnPinning pins a column to a side, or unpins with PinNone.
func (c *Controller) SetColumnPinning(id string, side PinSide) {
	if _, ok := c.types[id]; !ok {
		c.contractViolation("pin change for unknown column %q", id)
		return
	}
	if side == PinNone {
		delete(c.pinned, id)
		return
	}
	c.pinned[id] = side
}

// SetColumnSize records a user resize, preserved across schema rebuilds.
func (c *Controller) SetColumnSize(id string, size int) {
	if size <= 0 {
		return
	}
	c.sizeOverrides[id] = size
	for i := range c.columns {
		if c.columns[i].ID == id {
			c.columns[i].Size = size
		}
	}
}

// SetRowHeight switches the row density mode.
func (c *Controller) SetRowHeight(mode RowHeightMode) {
	c.heightMode = mode
	c.win.SetBaseHeight(mode.Lines())
}

// RowHeight returns the current row density mode.
func (c *Controller) RowHeight() RowHeightMode {
	return c.heightMode
}

// Windower exposes the virtualization windower for scroll math.
func (c *Controller) Windower() *Windower {
	return c.win
}

// SetSearchQuery recomputes search matches over the visible rows. An
// empty query clears the match list.
func (c *Controller) SetSearchQuery(query string) {
	c.search.Query = query
	c.refreshSearch()
	if len(c.search.Matches) > 0 {
		c.search.Active = 0
		c.focusMatch()
	}
}

// Search returns the current search state.
func (c *Controller) Search() SearchState {
	return c.search
}

// refreshSearch rescans visible rows for the active query, keeping the
// match list consistent with the current row order. The scan stops at
// the configured match limit.
func (c *Controller) refreshSearch() {
	c.search.Matches = c.search.Matches[:0]
	c.search.Active = -1
	query := strings.ToLower(strings.TrimSpace(c.search.Query))
	if query == "" {
		return
	}
	nav := c.navColumns()
	for row := range c.visible {
		rec, _ := c.RecordAt(row)
		for _, col := range nav {
			if len(c.search.Matches) >= c.searchLimit {
				return
			}
			text := strings.ToLower(displayString(rec.Value(col.ID)))
			if text != "" && strings.Contains(text, query) {
				c.search.Matches = append(c.search.Matches, Cell{Row: row, ColumnID: col.ID})
			}
		}
	}
}

// NextMatch advances the active search match and focuses it.
func (c *Controller) NextMatch() {
	if len(c.search.Matches) == 0 {
		return
	}
	c.search.Active = (c.search.Active + 1) % len(c.search.Matches)
	c.focusMatch()
}

// PrevMatch steps the active search match backwards and focuses it.
func (c *Controller) PrevMatch() {
	if len(c.search.Matches) == 0 {
		return
	}
	c.search.Active--
	if c.search.Active < 0 {
		c.search.Active = len(c.search.Matches) - 1
	}
	c.focusMatch()
}

func (c *Controller) focusMatch() {
	if c.search.Active < 0 || c.search.Active >= len(c.search.Matches) {
		return
	}
	match := c.search.Matches[c.search.Active]
	col, ok := c.navColIndex(match.ColumnID)
	if !ok {
		return
	}
	c.focus = c.clampPos(cellPos{row: match.Row, col: col})
	c.anchor = c.focus
}

// MatchesByRow groups search matches by visible row index for rendering.
func (c *Controller) MatchesByRow() map[int][]string {
	if len(c.search.Matches) == 0 {
		return nil
	}
	out := make(map[int][]string)
	for _, m := range c.search.Matches {
		out[m.Row] = append(out[m.Row], m.ColumnID)
	}
	return out
}

// contractViolation fails fast under Strict and degrades to a logged
// no-op otherwise.
func (c *Controller) contractViolation(format string, args ...any) {
	if Strict {
		panic(fmt.Sprintf(format, args...))
	}
	c.log.Error(nil, fmt.Sprintf(format, args...))
}
