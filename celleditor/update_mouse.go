package celleditor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/richtext"
)

// updateMouse handles mouse input in editor-local coordinates: (0,0) is the
// top-left cell of the editor's own rendering.
func (e *Editor) updateMouse(msg tea.MouseMsg) {
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		p := e.hitTest(msg.X, msg.Y)
		if msg.Shift {
			anchor := e.buf.Caret()
			if raw, ok := e.buf.SelectionRaw(); ok {
				anchor = raw.Start
			}
			e.mouseAnchor = anchor
			e.buf.SetSelection(richtext.Range{Start: anchor, End: p})
		} else {
			e.mouseAnchor = p
			e.buf.SetCaret(p)
		}
		e.mouseDragging = true

	case tea.MouseActionMotion:
		if !e.mouseDragging {
			return
		}
		p := e.hitTest(msg.X, msg.Y)
		if p == e.mouseAnchor {
			e.buf.SetCaret(p)
			return
		}
		e.buf.SetSelection(richtext.Range{Start: e.mouseAnchor, End: p})

	case tea.MouseActionRelease:
		e.mouseDragging = false
	}
}
