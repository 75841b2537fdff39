package celleditor

// Config configures an Editor.
type Config struct {
	// Initial marked-up text.
	Markup string

	// Editable enables mutating input. Read-only editors still move the caret.
	Editable bool

	// Width is the wrap width in terminal cells. Zero disables wrapping.
	Width int

	// Placeholder is shown, faint, when the cell is empty and unfocused.
	Placeholder string

	KeyMap    KeyMap
	Style     Style
	Clipboard Clipboard

	// Forwarded to richtext.Options.
	HistoryLimit int

	// OnChange is called after every effective text or mark change made
	// through input or formatting commands. SetMarkup does not fire it.
	OnChange func(ChangeEvent)

	// OnFocus is called when the editor gains focus.
	OnFocus func(FocusEvent)
}
