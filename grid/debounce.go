package grid

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flushMsg fires when a debounce window closes. Only the latest seq of its
// owner reports.
type flushMsg struct {
	owner *state
	seq   uint64
}

func (st *state) scheduleFlush() {
	st.seq++
	st.dirty = true
	st.armed = true
}

// invalidateFlush drops any pending report; used when the section is
// reported or replaced by other means.
func (st *state) invalidateFlush() {
	st.seq++
	st.dirty = false
	st.armed = false
}

// flushCmd returns the tick for the latest text edit, once.
func (st *state) flushCmd() tea.Cmd {
	if !st.armed || st.closed {
		return nil
	}
	st.armed = false
	seq := st.seq
	return tea.Tick(st.cfg.Debounce, func(time.Time) tea.Msg {
		return flushMsg{owner: st, seq: seq}
	})
}

func (st *state) handleFlush(msg flushMsg) {
	if msg.owner != st || msg.seq != st.seq || !st.dirty || st.closed {
		return
	}
	st.dirty = false
	st.log.Debug("text edits flushed", "seq", msg.seq)
	st.emitRowsChanged(true)
}

// Pending reports whether text edits wait for the debounce window.
func (m Model) Pending() bool { return m.st.dirty }

// Flush reports pending text edits immediately. It returns false when
// there was nothing to report.
func (m Model) Flush() bool {
	st := m.st
	if !st.dirty || st.closed {
		return false
	}
	st.invalidateFlush()
	st.emitRowsChanged(true)
	return true
}
