package grid

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid-level bindings. Keys not bound here go to the
// focused cell editor.
type KeyMap struct {
	Up, Down, Left, Right                         key.Binding
	SelectUp, SelectDown, SelectLeft, SelectRight key.Binding

	Bold, Italic, Underline, Strike key.Binding
	ClearFormat                     key.Binding

	AddRow, AddSubRow, AddColumn key.Binding
	DeleteRow, DeleteColumn      key.Binding
	CycleBorder                  key.Binding
	Merge, Unmerge               key.Binding
	RowActions                   key.Binding

	Confirm, Escape key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "cell up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "cell down")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cell left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cell right")),

		SelectUp:    key.NewBinding(key.WithKeys("ctrl+shift+up"), key.WithHelp("ctrl+shift+↑", "extend up")),
		SelectDown:  key.NewBinding(key.WithKeys("ctrl+shift+down"), key.WithHelp("ctrl+shift+↓", "extend down")),
		SelectLeft:  key.NewBinding(key.WithKeys("ctrl+shift+left"), key.WithHelp("ctrl+shift+←", "extend left")),
		SelectRight: key.NewBinding(key.WithKeys("ctrl+shift+right"), key.WithHelp("ctrl+shift+→", "extend right")),

		Bold:        key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "bold")),
		Italic:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "italic")),
		Underline:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "underline")),
		Strike:      key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "strike")),
		ClearFormat: key.NewBinding(key.WithKeys("alt+x"), key.WithHelp("alt+x", "clear format")),

		AddRow:       key.NewBinding(key.WithKeys("alt+r"), key.WithHelp("alt+r", "add row")),
		AddSubRow:    key.NewBinding(key.WithKeys("alt+s"), key.WithHelp("alt+s", "add sub row")),
		AddColumn:    key.NewBinding(key.WithKeys("alt+c"), key.WithHelp("alt+c", "add column")),
		DeleteRow:    key.NewBinding(key.WithKeys("alt+R"), key.WithHelp("alt+R", "delete row")),
		DeleteColumn: key.NewBinding(key.WithKeys("alt+C"), key.WithHelp("alt+C", "delete column")),
		CycleBorder:  key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "row border")),
		Merge:        key.NewBinding(key.WithKeys("alt+m"), key.WithHelp("alt+m", "merge")),
		Unmerge:      key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("alt+u", "unmerge")),
		RowActions:   key.NewBinding(key.WithKeys("alt+a"), key.WithHelp("alt+a", "row actions")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close / clear")),
	}
}
