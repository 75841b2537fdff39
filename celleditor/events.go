package celleditor

import "github.com/mumtazka/skpgrid/richtext"

// ChangeEvent reports new content after an edit.
type ChangeEvent struct {
	Version uint64
	Markup  string
}

// FocusEvent reports that the editor received focus.
type FocusEvent struct {
	Marks richtext.Mark
}

func buildChangeEvent(b *richtext.Buffer) ChangeEvent {
	return ChangeEvent{
		Version: b.TextVersion(),
		Markup:  b.Markup(),
	}
}
