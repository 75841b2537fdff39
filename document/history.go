package document

import (
	"bytes"
	"fmt"

	"github.com/mumtazka/skpgrid/grid"
)

// DefaultHistoryLimit bounds a History created with a limit below one.
const DefaultHistoryLimit = 100

// Change is the section state an undo or redo restores.
type Change struct {
	Key     string
	Section *grid.Section
}

type step struct {
	key           string
	before, after []byte
}

// History is an undo stack of section snapshots shared by every section of
// a document. Snapshots are compared by their encoded form, so recording an
// unchanged section is a no-op.
type History struct {
	limit int
	cur   map[string][]byte
	undo  []step
	redo  []step
}

func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit, cur: make(map[string][]byte)}
}

// Reset forgets every step and takes the sections of doc as the baseline.
func (h *History) Reset(doc *Document) error {
	h.undo, h.redo = nil, nil
	h.cur = make(map[string][]byte, len(doc.Sections))
	for _, ns := range doc.Sections {
		data, err := MarshalSection(ns.Section)
		if err != nil {
			return fmt.Errorf("history baseline %s: %w", ns.Key, err)
		}
		h.cur[ns.Key] = data
	}
	return nil
}

// Record stores sec as the new state of key. It reports whether a step was
// added; the first state seen for a key only becomes its baseline.
func (h *History) Record(key string, sec *grid.Section) (bool, error) {
	data, err := MarshalSection(sec)
	if err != nil {
		return false, err
	}
	prev, ok := h.cur[key]
	h.cur[key] = data
	if !ok || bytes.Equal(prev, data) {
		return false, nil
	}
	h.undo = append(h.undo, step{key: key, before: prev, after: data})
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
	return true, nil
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo reverts the latest step.
func (h *History) Undo() (Change, bool, error) {
	if len(h.undo) == 0 {
		return Change{}, false, nil
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, s)
	return h.restore(s.key, s.before)
}

// Redo reapplies the latest undone step.
func (h *History) Redo() (Change, bool, error) {
	if len(h.redo) == 0 {
		return Change{}, false, nil
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, s)
	return h.restore(s.key, s.after)
}

func (h *History) restore(key string, data []byte) (Change, bool, error) {
	h.cur[key] = data
	sec, _, err := DecodeSection(data)
	if err != nil {
		return Change{}, false, fmt.Errorf("history %s: %w", key, err)
	}
	return Change{Key: key, Section: sec}, true, nil
}
