package celleditor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mumtazka/skpgrid/richtext"
)

func (e *Editor) updateKey(msg tea.KeyMsg) {
	if !e.focused {
		return
	}
	b := e.buf
	editable := e.Editable()

	// Paste events always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if editable {
			b.InsertText(string(msg.Runes))
		}
		return
	}

	km := e.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirLeft})
	case key.Matches(msg, km.Right):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirRight})
	case key.Matches(msg, km.Up):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirUp})
	case key.Matches(msg, km.Down):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirDown})

	case key.Matches(msg, km.ShiftLeft):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		b.Move(richtext.Move{Unit: richtext.MoveGrapheme, Dir: richtext.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		b.Move(richtext.Move{Unit: richtext.MoveWord, Dir: richtext.DirLeft})
	case key.Matches(msg, km.WordRight):
		b.Move(richtext.Move{Unit: richtext.MoveWord, Dir: richtext.DirRight})

	case key.Matches(msg, km.Home):
		b.Move(richtext.Move{Unit: richtext.MoveLine, Dir: richtext.DirHome})
	case key.Matches(msg, km.End):
		b.Move(richtext.Move{Unit: richtext.MoveLine, Dir: richtext.DirEnd})
	case key.Matches(msg, km.SelectAll):
		b.SelectAll()

	case key.Matches(msg, km.Backspace):
		if editable {
			b.DeleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if editable {
			b.DeleteForward()
		}
	case key.Matches(msg, km.Enter):
		if editable {
			b.InsertNewline()
		}

	case key.Matches(msg, km.Undo):
		if editable {
			_ = b.Undo()
		}
	case key.Matches(msg, km.Redo):
		if editable {
			_ = b.Redo()
		}

	case key.Matches(msg, km.Copy):
		e.copySelection()
	case key.Matches(msg, km.Cut):
		e.copySelection()
		if editable {
			b.DeleteSelection()
		}
	case key.Matches(msg, km.Paste):
		if editable {
			e.pasteClipboard()
		}

	case key.Matches(msg, km.Bold):
		e.ApplyFormat(richtext.Bold)
	case key.Matches(msg, km.Italic):
		e.ApplyFormat(richtext.Italic)
	case key.Matches(msg, km.Underline):
		e.ApplyFormat(richtext.Underline)
	case key.Matches(msg, km.Strike):
		e.ApplyFormat(richtext.Strike)

	default:
		if msg.Type == tea.KeySpace && editable {
			b.InsertText(" ")
			return
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt && editable {
			b.InsertText(string(msg.Runes))
		}
	}
}

func (e *Editor) copySelection() {
	if e.cfg.Clipboard == nil {
		return
	}
	r, ok := e.buf.Selection()
	if !ok {
		return
	}
	glyphs := e.buf.Glyphs()[r.Start:r.End]
	if s := richtext.PlainText(glyphs); s != "" {
		_ = e.cfg.Clipboard.WriteText(s)
	}
}

func (e *Editor) pasteClipboard() {
	if e.cfg.Clipboard == nil {
		return
	}
	s, err := e.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	e.buf.InsertText(s)
}
