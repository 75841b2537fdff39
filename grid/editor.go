package grid

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/celleditor"
	"github.com/mumtazka/skpgrid/richtext"
)

// Editor is the capability the grid needs from a cell editor. Handles are
// compared by identity, so implementations must be pointer types.
type Editor interface {
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetWidth(w int)
	Height() int

	Focus()
	Blur()
	Focused() bool
	SetEditable(editable bool)

	SelectAll()
	ApplyFormat(mark richtext.Mark)
	ClearFormat()
	FormatState() richtext.Mark
	CaretAtStart() bool
	CaretAtEnd() bool

	Markup() string
	SetMarkup(markup string)

	// Destroy releases the editor. Later calls on it must be no-ops.
	Destroy()
}

// EditorConfig is what the grid passes when it mounts a cell.
type EditorConfig struct {
	Markup   string
	Editable bool
	Width    int

	// OnChange receives the cell's new markup after a user edit.
	OnChange func(markup string)
	// OnFocus is called when the editor gains focus.
	OnFocus func()
}

// EditorFactory creates the editor for one cell.
type EditorFactory func(EditorConfig) Editor

// CellEditorFactory returns a factory producing celleditor editors that share
// the given style, keymap and clipboard.
func CellEditorFactory(style celleditor.Style, km celleditor.KeyMap, clip celleditor.Clipboard) EditorFactory {
	return func(cfg EditorConfig) Editor {
		ecfg := celleditor.Config{
			Markup:    cfg.Markup,
			Editable:  cfg.Editable,
			Width:     cfg.Width,
			KeyMap:    km,
			Style:     style,
			Clipboard: clip,
		}
		if cfg.OnChange != nil {
			ecfg.OnChange = func(ev celleditor.ChangeEvent) { cfg.OnChange(ev.Markup) }
		}
		if cfg.OnFocus != nil {
			ecfg.OnFocus = func(celleditor.FocusEvent) { cfg.OnFocus() }
		}
		return celleditor.New(ecfg)
	}
}

var _ Editor = (*celleditor.Editor)(nil)
