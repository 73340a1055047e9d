package ui

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/internal/grid"
	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
)

const toastDuration = 3 * time.Second

type rowsLoadedMsg struct {
	records []store.Record
	err     error
}

type createdRow struct {
	tempID string
	record store.Record
}

// mutationDoneMsg reports the outcome of one optimistic intent batch.
// The token resolves the journal entry holding the pre-change snapshot.
type mutationDoneMsg struct {
	token   uint64
	created []createdRow
	err     error
}

type toastClearMsg struct{ id int }

type filterDebounceMsg struct{ gen int }

type searchDebounceMsg struct{ gen int }

type toastState struct {
	text  string
	isErr bool
	id    int
}

// Options configures the grid UI model.
type Options struct {
	Service   store.Service
	Entity    schema.Entity
	Config    config.Config
	Theme     Theme
	Clipboard Clipboard
	ReadOnly  bool
	Logger    logr.Logger
}

// Model is the top-level Bubble Tea model: it routes key events through
// the grid keymap, applies controller state transitions, runs mutation
// intents against the data service, and journals snapshots so failed
// mutations roll the grid back.
type Model struct {
	ctrl    *grid.Controller
	svc     store.Service
	entity  schema.Entity
	journal *store.Journal[[]store.Record]
	cfg     config.Config
	theme   Theme
	clip    Clipboard
	log     logr.Logger

	editor     textinput.Model
	editorOpen bool

	searchInput textinput.Model
	searchOpen  bool
	searchGen   int

	filterMenu  *FilterMenu
	sortMenu    *SortMenu
	heightMenu  *HeightMenu
	pasteDialog *PasteDialog
	filterGen   int

	// confirmDelete arms the two-step delete of selected rows; any other
	// key disarms it.
	confirmDelete bool

	scroll int
	width  int
	height int

	toast    toastState
	loadErr  error
	loading  bool
	quitting bool
}

// NewModel builds the grid UI for one entity.
func NewModel(opts Options) *Model {
	ctrl := grid.NewController(grid.Config{
		Attributes:  opts.Entity.SortedAttributes(),
		LinkColumn:  opts.Entity.LinkAttributeSlug(),
		ReadOnly:    opts.ReadOnly,
		Overscan:    opts.Config.Overscan(),
		RowHeight:   grid.RowHeightMode(opts.Config.UI.Grid.RowHeight),
		SearchLimit: opts.Config.SearchResultLimit(),
		Logger:      opts.Logger,
	})

	editor := textinput.New()
	editor.SetWidth(32)

	search := textinput.New()
	search.Placeholder = "search"
	search.SetWidth(32)

	clip := opts.Clipboard
	if clip == nil {
		clip = NewSystemClipboard()
	}

	return &Model{
		ctrl:        ctrl,
		svc:         opts.Service,
		entity:      opts.Entity,
		journal:     store.NewJournal[[]store.Record](),
		cfg:         opts.Config,
		theme:       opts.Theme,
		clip:        clip,
		log:         opts.Logger,
		editor:      editor,
		searchInput: search,
		width:       80,
		height:      24,
		loading:     true,
	}
}

// Controller exposes the grid controller, mainly for tests.
func (m *Model) Controller() *grid.Controller {
	return m.ctrl
}

// Init kicks off the initial row fetch.
func (m *Model) Init() tea.Cmd {
	return m.loadRows()
}

func (m *Model) loadRows() tea.Cmd {
	svc, entityID := m.svc, m.entity.ID
	return func() tea.Msg {
		records, err := svc.FetchRows(context.Background(), entityID, store.RowQuery{})
		return rowsLoadedMsg{records: records, err: err}
	}
}

// mutate journals the pre-change snapshot and runs the intents against
// the service in order. The snapshot must be taken before the
// controller applied the optimistic change.
func (m *Model) mutate(snapshot []store.Record, intents []grid.Intent) tea.Cmd {
	if len(intents) == 0 {
		return nil
	}
	token := m.journal.Begin(snapshot)
	svc, entityID := m.svc, m.entity.ID
	return func() tea.Msg {
		ctx := context.Background()
		var created []createdRow
		for _, intent := range intents {
			switch intent.Kind {
			case grid.IntentCreateRow:
				rec, err := svc.CreateRow(ctx, entityID, intent.Values)
				if err != nil {
					return mutationDoneMsg{token: token, created: created, err: err}
				}
				created = append(created, createdRow{tempID: intent.TempID, record: rec})
			case grid.IntentUpdateRow:
				if _, err := svc.UpdateRow(ctx, intent.RowID, intent.Values); err != nil {
					return mutationDoneMsg{token: token, created: created, err: err}
				}
			case grid.IntentDeleteRows:
				if err := svc.DeleteRows(ctx, intent.RowIDs); err != nil {
					return mutationDoneMsg{token: token, created: created, err: err}
				}
			}
		}
		return mutationDoneMsg{token: token, created: created}
	}
}

func (m *Model) snapshot() []store.Record {
	return store.CloneRecords(m.ctrl.Records())
}

func (m *Model) showToast(text string, isErr bool) tea.Cmd {
	m.toast.id++
	m.toast.text = text
	m.toast.isErr = isErr
	id := m.toast.id
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastClearMsg{id: id}
	})
}

func (m *Model) mode() grid.Mode {
	if m.editorOpen {
		return grid.ModeEditing
	}
	if m.filterMenu != nil || m.sortMenu != nil || m.heightMenu != nil || m.pasteDialog != nil {
		return grid.ModeMenuOpen
	}
	return grid.ModeNavigating
}

func (m *Model) inTextInput() bool {
	if m.searchOpen {
		return true
	}
	if m.filterMenu != nil && m.filterMenu.Focused() {
		return true
	}
	return false
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(min(msg.Width-4, 48))
		m.searchInput.SetWidth(min(msg.Width-16, 48))
		m.scroll = m.ctrl.Windower().ClampScroll(m.scroll, m.viewportHeight())
		return m, nil

	case rowsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.log.Error(msg.err, "row fetch failed", "entity", m.entity.ID)
			return m, nil
		}
		m.loadErr = nil
		m.ctrl.SetRecords(msg.records)
		m.ensureFocusVisible()
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			if snap, ok := m.journal.Rollback(msg.token); ok {
				// Rows the service created before the failure are
				// canonical; the snapshot predates them, so they are
				// appended to keep local state matching the server.
				for _, cr := range msg.created {
					snap = append(snap, cr.record.Clone())
				}
				m.ctrl.SetRecords(snap)
			}
			m.log.Error(msg.err, "mutation failed", "entity", m.entity.ID)
			return m, m.showToast("save failed: "+msg.err.Error(), true)
		}
		m.journal.Commit(msg.token)
		for _, cr := range msg.created {
			m.ctrl.ConfirmRow(cr.tempID, cr.record)
		}
		m.ensureFocusVisible()
		return m, nil

	case toastClearMsg:
		if msg.id == m.toast.id {
			m.toast.text = ""
		}
		return m, nil

	case filterDebounceMsg:
		if msg.gen == m.filterGen && m.filterMenu != nil {
			m.ctrl.SetColumnFilters(m.filterMenu.Conditions())
			m.ensureFocusVisible()
		}
		return m, nil

	case searchDebounceMsg:
		if msg.gen == m.searchGen {
			m.ctrl.SetSearchQuery(m.searchInput.Value())
			m.ensureFocusVisible()
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// The search bar owns keys while open, except its close/step keys.
	if m.searchOpen && m.mode() == grid.ModeNavigating {
		switch key {
		case "esc":
			m.searchOpen = false
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.ctrl.SetSearchQuery(m.searchInput.Value())
			m.ctrl.NextMatch()
			m.ensureFocusVisible()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.searchGen++
			gen := m.searchGen
			debounce := time.Duration(m.cfg.SearchDebounce()) * time.Millisecond
			return m, tea.Batch(cmd, tea.Tick(debounce, func(time.Time) tea.Msg {
				return searchDebounceMsg{gen: gen}
			}))
		}
	}

	action := grid.Interpret(m.mode(), key, m.inTextInput())

	switch m.mode() {
	case grid.ModeEditing:
		return m.handleEditingKey(msg, action)
	case grid.ModeMenuOpen:
		return m.handleMenuKey(msg, action)
	default:
		return m.handleNavigatingKey(msg, action)
	}
}

func (m *Model) handleNavigatingKey(msg tea.KeyPressMsg, action grid.Action) (tea.Model, tea.Cmd) {
	if action != grid.ActionDeleteRows {
		m.confirmDelete = false
	}
	switch action {
	case grid.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case grid.ActionMoveUp:
		m.ctrl.MoveFocus(-1, 0, false)
	case grid.ActionMoveDown:
		m.ctrl.MoveFocus(1, 0, false)
	case grid.ActionMoveLeft:
		m.ctrl.MoveFocus(0, -1, false)
	case grid.ActionMoveRight:
		m.ctrl.MoveFocus(0, 1, false)
	case grid.ActionExtendUp:
		m.ctrl.MoveFocus(-1, 0, true)
	case grid.ActionExtendDown:
		m.ctrl.MoveFocus(1, 0, true)
	case grid.ActionExtendLeft:
		m.ctrl.MoveFocus(0, -1, true)
	case grid.ActionExtendRight:
		m.ctrl.MoveFocus(0, 1, true)
	case grid.ActionMoveTop:
		m.ctrl.MoveFocusTo(0, false)
	case grid.ActionMoveBottom:
		m.ctrl.MoveFocusTo(m.ctrl.RowCount()-1, false)
	case grid.ActionPageUp:
		m.ctrl.MoveFocus(-m.pageRows(), 0, false)
	case grid.ActionPageDown:
		m.ctrl.MoveFocus(m.pageRows(), 0, false)

	case grid.ActionStartEdit:
		if m.ctrl.StartEdit("", false) {
			m.openEditor()
		}
	case grid.ActionReplaceEdit:
		if m.ctrl.StartEdit(msg.String(), true) {
			m.openEditor()
		}

	case grid.ActionCopy:
		text := m.ctrl.CopySelection()
		if text != "" {
			if err := m.clip.Write(text); err != nil {
				return m, m.showToast("copy failed: "+err.Error(), true)
			}
			return m, m.showToast("copied", false)
		}

	case grid.ActionPaste:
		text, err := m.clip.Read()
		if err != nil || text == "" {
			return m, nil
		}
		snap := m.snapshot()
		intents, dialog := m.ctrl.PasteText(text)
		if dialog {
			m.pasteDialog = NewPasteDialog(m.ctrl.PasteDialog().RowsNeeded, m.theme)
			return m, nil
		}
		m.ensureFocusVisible()
		return m, m.mutate(snap, intents)

	case grid.ActionClearCells:
		snap := m.snapshot()
		return m, m.mutate(snap, m.ctrl.DeleteSelection())

	case grid.ActionToggleRowSelect:
		m.ctrl.ToggleRowSelected()

	case grid.ActionDeleteRows:
		ids := m.ctrl.SelectedRowIDs()
		if len(ids) == 0 {
			return m, nil
		}
		if m.cfg.ConfirmRowDelete() && !m.confirmDelete {
			m.confirmDelete = true
			return m, m.showToast(fmt.Sprintf("delete %d selected rows? ctrl+d again to confirm", len(ids)), false)
		}
		m.confirmDelete = false
		snap := m.snapshot()
		intents := m.ctrl.DeleteSelectedRows()
		m.ensureFocusVisible()
		return m, m.mutate(snap, intents)

	case grid.ActionAddRow:
		snap := m.snapshot()
		_, intent := m.ctrl.AddRow()
		m.ensureFocusVisible()
		return m, m.mutate(snap, []grid.Intent{intent})

	case grid.ActionToggleFilterMenu:
		m.filterMenu = NewFilterMenu(m.ctrl.Columns(), m.ctrl.Filters(), m.theme)
	case grid.ActionToggleSortMenu:
		m.sortMenu = NewSortMenu(m.ctrl.Columns(), m.ctrl.Sorts(), m.theme)
	case grid.ActionToggleHeightMenu:
		m.heightMenu = NewHeightMenu(m.ctrl.RowHeight(), m.theme)

	case grid.ActionSearch:
		m.searchOpen = true
		m.searchInput.Focus()
		return m, nil
	case grid.ActionNextMatch:
		m.ctrl.NextMatch()
	case grid.ActionPrevMatch:
		m.ctrl.PrevMatch()
	}

	m.ensureFocusVisible()
	return m, nil
}

func (m *Model) openEditor() {
	edit := m.ctrl.Editing()
	if edit == nil {
		return
	}
	m.editor.SetValue(edit.Seed)
	m.editor.SetCursor(len(edit.Seed))
	m.editor.Focus()
	m.editorOpen = true
}

func (m *Model) closeEditor() {
	m.editorOpen = false
	m.editor.Blur()
}

// commitEditor coerces the editor text to the column type and commits.
// Untypable text keeps the editor open with an error toast instead of
// silently dropping the input.
func (m *Model) commitEditor(dRow, dCol int) (tea.Model, tea.Cmd) {
	edit := m.ctrl.Editing()
	if edit == nil {
		m.closeEditor()
		return m, nil
	}
	var col grid.Column
	for _, c := range m.ctrl.NavColumns() {
		if c.ID == edit.ColumnID {
			col = c
			break
		}
	}
	value, ok := grid.CoerceCellText(col, m.editor.Value())
	if !ok {
		return m, m.showToast("invalid value for "+col.Label, true)
	}

	// Range bounds are advisory: warn, never block the commit.
	var warn tea.Cmd
	if f, isFloat := value.(float64); isFloat && col.Type == schema.TypeNumber {
		if err := grid.ValidateNumber(col, f); err != nil {
			warn = m.showToast(err.Error(), false)
		}
	}

	snap := m.snapshot()
	intents, committed := m.ctrl.CommitEdit(value)
	m.closeEditor()
	if committed {
		m.ctrl.MoveFocus(dRow, dCol, false)
	}
	m.ensureFocusVisible()
	return m, tea.Batch(warn, m.mutate(snap, intents))
}

func (m *Model) handleEditingKey(msg tea.KeyPressMsg, action grid.Action) (tea.Model, tea.Cmd) {
	switch action {
	case grid.ActionCommitDown:
		return m.commitEditor(1, 0)
	case grid.ActionCommitRight:
		return m.commitEditor(0, 1)
	case grid.ActionCommitLeft:
		return m.commitEditor(0, -1)
	case grid.ActionCommitStay:
		return m.commitEditor(0, 0)
	case grid.ActionCancelEdit:
		m.ctrl.CancelEdit()
		m.closeEditor()
		return m, nil
	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleMenuKey(msg tea.KeyPressMsg, action grid.Action) (tea.Model, tea.Cmd) {
	if m.pasteDialog != nil {
		switch m.pasteDialog.Update(msg) {
		case PasteExpand:
			m.pasteDialog = nil
			snap := m.snapshot()
			intents := m.ctrl.ResolvePasteDialog(true)
			m.ensureFocusVisible()
			return m, m.mutate(snap, intents)
		case PasteFit:
			m.pasteDialog = nil
			snap := m.snapshot()
			intents := m.ctrl.ResolvePasteDialog(false)
			m.ensureFocusVisible()
			return m, m.mutate(snap, intents)
		case PasteCancel:
			m.pasteDialog = nil
			m.ctrl.ClosePasteDialog()
		}
		return m, nil
	}

	switch action {
	case grid.ActionCloseMenu:
		if m.filterMenu != nil && m.filterMenu.Focused() {
			// Esc inside the value input only leaves the input.
			cmd, _ := m.filterMenu.Update(msg)
			return m, cmd
		}
		m.closeMenus()
		return m, nil
	case grid.ActionRemoveMenuEntry:
		if m.filterMenu != nil {
			m.filterMenu.RemoveCurrent()
			return m, m.debounceFilters()
		}
		if m.sortMenu != nil {
			m.sortMenu.RemoveCurrent()
			m.ctrl.SetSorting(m.sortMenu.Entries())
			m.ensureFocusVisible()
		}
		return m, nil
	}

	if m.filterMenu != nil {
		cmd, changed := m.filterMenu.Update(msg)
		if changed {
			return m, tea.Batch(cmd, m.debounceFilters())
		}
		return m, cmd
	}
	if m.sortMenu != nil {
		cmd, changed := m.sortMenu.Update(msg)
		if changed {
			m.ctrl.SetSorting(m.sortMenu.Entries())
			m.ensureFocusVisible()
		}
		return m, cmd
	}
	if m.heightMenu != nil {
		if mode := m.heightMenu.Update(msg); mode != "" {
			m.ctrl.SetRowHeight(mode)
			m.heightMenu = nil
			m.scroll = m.ctrl.Windower().ClampScroll(m.scroll, m.viewportHeight())
			m.ensureFocusVisible()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) closeMenus() {
	if m.filterMenu != nil {
		m.ctrl.SetColumnFilters(m.filterMenu.Conditions())
		m.ensureFocusVisible()
	}
	m.filterMenu = nil
	m.sortMenu = nil
	m.heightMenu = nil
}

func (m *Model) debounceFilters() tea.Cmd {
	m.filterGen++
	gen := m.filterGen
	debounce := time.Duration(m.cfg.SearchDebounce()) * time.Millisecond
	return tea.Tick(debounce, func(time.Time) tea.Msg {
		return filterDebounceMsg{gen: gen}
	})
}

// pageRows is the page-up/down stride for the current row height.
func (m *Model) pageRows() int {
	lines := m.ctrl.RowHeight().Lines()
	rows := m.viewportHeight() / lines
	if rows < 1 {
		rows = 1
	}
	return rows
}

// viewportHeight is the line budget for grid rows: total height minus
// header, footer, and any open search bar.
func (m *Model) viewportHeight() int {
	h := m.height - 2
	if m.searchOpen {
		h--
	}
	if m.toast.text != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// ensureFocusVisible adjusts the scroll offset so the focused row is
// fully inside the viewport.
func (m *Model) ensureFocusVisible() {
	row, _ := m.ctrl.FocusPos()
	if m.ctrl.RowCount() == 0 {
		m.scroll = 0
		return
	}
	w := m.ctrl.Windower()
	top := w.OffsetOf(row)
	bottom := top + m.ctrl.RowHeight().Lines()
	viewport := m.viewportHeight()
	if top < m.scroll {
		m.scroll = top
	} else if bottom > m.scroll+viewport {
		m.scroll = bottom - viewport
	}
	m.scroll = w.ClampScroll(m.scroll, viewport)
}
