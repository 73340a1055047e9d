package grid

import "unicode/utf8"

// Mode is the keyboard interpretation state of the grid.
type Mode int

const (
	// ModeNavigating: focus moves between cells, shortcuts are live.
	ModeNavigating Mode = iota
	// ModeEditing: a single cell owns input; only commit/cancel keys are
	// interpreted by the grid.
	ModeEditing
	// ModeMenuOpen: a filter/sort/height popover owns focus.
	ModeMenuOpen
)

// Action is a controller command produced by interpreting a key event.
type Action int

const (
	ActionNone Action = iota

	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionExtendUp
	ActionExtendDown
	ActionExtendLeft
	ActionExtendRight
	ActionMoveTop
	ActionMoveBottom
	ActionPageUp
	ActionPageDown

	ActionStartEdit   // Enter/F2: edit seeded with the current value
	ActionReplaceEdit // direct character input: edit seeded with the typed rune
	ActionCommitDown  // Enter while editing
	ActionCommitRight // Tab while editing
	ActionCommitLeft  // Shift+Tab while editing
	ActionCommitStay  // navigation key while editing commits first
	ActionCancelEdit

	ActionCopy
	ActionPaste
	ActionClearCells
	ActionToggleRowSelect
	ActionAddRow
	ActionDeleteRows

	ActionToggleFilterMenu
	ActionToggleSortMenu
	ActionToggleHeightMenu
	ActionSearch
	ActionNextMatch
	ActionPrevMatch

	ActionCloseMenu
	ActionRemoveMenuEntry

	ActionQuit
)

// Interpret maps a key (Bubble Tea msg.String() form) to a grid action
// for the current mode. inTextInput reports whether a text input inside
// the active surface has focus: while it does, only keys that can never
// be text (Escape, Enter, Tab) are interpreted, so grid shortcuts never
// leak into typing.
func Interpret(mode Mode, key string, inTextInput bool) Action {
	switch mode {
	case ModeEditing:
		return interpretEditing(key)
	case ModeMenuOpen:
		return interpretMenu(key, inTextInput)
	default:
		if inTextInput {
			return interpretTextInputSafe(key)
		}
		return interpretNavigating(key)
	}
}

func interpretNavigating(key string) Action {
	switch key {
	case "up":
		return ActionMoveUp
	case "down":
		return ActionMoveDown
	case "left":
		return ActionMoveLeft
	case "right":
		return ActionMoveRight
	case "shift+up":
		return ActionExtendUp
	case "shift+down":
		return ActionExtendDown
	case "shift+left":
		return ActionExtendLeft
	case "shift+right":
		return ActionExtendRight
	case "ctrl+home", "home":
		return ActionMoveTop
	case "ctrl+end", "end":
		return ActionMoveBottom
	case "pgup":
		return ActionPageUp
	case "pgdown":
		return ActionPageDown
	case "enter", "f2":
		return ActionStartEdit
	case "delete", "backspace":
		return ActionClearCells
	case "ctrl+c", "ctrl+insert":
		return ActionCopy
	case "ctrl+v", "shift+insert":
		return ActionPaste
	case "ctrl+shift+f":
		return ActionToggleFilterMenu
	case "ctrl+shift+s":
		return ActionToggleSortMenu
	case "ctrl+shift+h":
		return ActionToggleHeightMenu
	case "ctrl+f", "/":
		return ActionSearch
	case "ctrl+g", "f3":
		return ActionNextMatch
	case "ctrl+shift+g", "shift+f3":
		return ActionPrevMatch
	case "ctrl+n":
		return ActionAddRow
	case "ctrl+d":
		return ActionDeleteRows
	case "space":
		return ActionToggleRowSelect
	case "ctrl+q", "f10":
		return ActionQuit
	}
	if isPrintableRune(key) {
		return ActionReplaceEdit
	}
	return ActionNone
}

func interpretEditing(key string) Action {
	switch key {
	case "enter":
		return ActionCommitDown
	case "tab":
		return ActionCommitRight
	case "shift+tab":
		return ActionCommitLeft
	case "esc":
		return ActionCancelEdit
	case "up", "down":
		// Vertical arrows while editing implicitly commit. Left/right
		// stay with the text input on purpose: in a terminal editor
		// they move the cursor inside the value, and Tab/Shift+Tab
		// already cover horizontal commit-and-move.
		return ActionCommitStay
	default:
		return ActionNone
	}
}

func interpretMenu(key string, inTextInput bool) Action {
	if inTextInput {
		return interpretTextInputSafe(key)
	}
	switch key {
	case "esc", "ctrl+shift+f", "ctrl+shift+s", "ctrl+shift+h":
		return ActionCloseMenu
	case "delete", "backspace":
		return ActionRemoveMenuEntry
	default:
		return ActionNone
	}
}

// interpretTextInputSafe handles the few keys the grid may interpret
// while an embedded input/textarea has focus. Every other key belongs to
// the input; swallowing it here is the bug class this guards against.
func interpretTextInputSafe(key string) Action {
	switch key {
	case "esc":
		return ActionCloseMenu
	default:
		return ActionNone
	}
}

// isPrintableRune reports whether a key string is a single printable
// character, the "start typing to edit" trigger.
func isPrintableRune(key string) bool {
	if key == "" || key == " " {
		return false
	}
	r, size := utf8.DecodeRuneInString(key)
	return size == len(key) && r != utf8.RuneError && r >= ' '
}
