package grid

import (
	"log/slog"
	"time"
)

// DefaultDebounce is the window that coalesces text edits.
const DefaultDebounce = 300 * time.Millisecond

const defaultWidth = 80

// Config configures a grid Model.
type Config struct {
	// ID names the section in events and log records.
	ID string

	// Section is the data to edit. The model owns it from then on; hosts
	// read it back through events or Model.Snapshot. Nil starts an empty
	// section with one column per header.
	Section *Section

	// Headers are the column labels. Missing labels render empty.
	Headers []string

	ReadOnly       bool
	ShowRowNumbers bool

	// Width is the total width in terminal cells. Zero means 80.
	Width int

	// Debounce delays text-edit reports. Zero means DefaultDebounce.
	Debounce time.Duration

	KeyMap KeyMap
	Style  Style

	// NewEditor mounts cell editors. Nil uses celleditor with the
	// default style and keymap.
	NewEditor EditorFactory

	Logger *slog.Logger

	// OnRowsChanged receives a copy of the section after every change.
	// TextEdit is true for debounced text edits and column resizes.
	OnRowsChanged func(RowsChangedEvent)

	// OnCellFocused is called when a cell editor gains focus.
	OnCellFocused func(Editor)

	// OnSelectionChanged is called whenever the selected range changes.
	OnSelectionChanged func(SelectionEvent)

	// OnSectionActivated is called on the first interaction after the
	// model was created or deactivated.
	OnSectionActivated func(id string)
}
