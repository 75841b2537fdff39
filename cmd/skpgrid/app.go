package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mumtazka/skpgrid/celleditor"
	"github.com/mumtazka/skpgrid/config"
	"github.com/mumtazka/skpgrid/document"
	"github.com/mumtazka/skpgrid/grid"
	"github.com/mumtazka/skpgrid/richtext"
	"github.com/mumtazka/skpgrid/store"
)

const (
	toolbarLines = 1
	statusLines  = 1
	wheelStep    = 3
)

type savedMsg struct {
	key   string
	seq   int
	stale bool // a newer snapshot of the section was already written
	err   error
}

// saver serializes section writes and drops snapshots older than the last
// one written for the same section.
type saver struct {
	st    *store.Store
	mu    sync.Mutex
	wrote map[string]int
}

func (w *saver) save(ctx context.Context, docID, key string, seq int, sec *grid.Section) savedMsg {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq <= w.wrote[key] {
		return savedMsg{key: key, seq: seq, stale: true}
	}
	if err := w.st.SaveSection(ctx, docID, key, sec); err != nil {
		return savedMsg{key: key, seq: seq, err: err}
	}
	w.wrote[key] = seq
	return savedMsg{key: key, seq: seq}
}

// host holds what grid callbacks write to during an Update.
type host struct {
	doc   *document.Document
	saver *saver
	seq   map[string]int // snapshots queued per section
	hist  *document.History
	log   *slog.Logger

	active    string
	activated string
	editor    grid.Editor
	sel       grid.SelectionEvent
	status    string
	queued    []tea.Cmd
}

func (h *host) rowsChanged(ev grid.RowsChangedEvent) {
	if err := h.doc.SetSection(ev.SectionID, ev.Section); err != nil {
		h.log.Error("rows changed", "err", err)
		return
	}
	if _, err := h.hist.Record(ev.SectionID, ev.Section); err != nil {
		h.log.Error("recording history", "section", ev.SectionID, "err", err)
	}
	h.queued = append(h.queued, h.save(ev.SectionID, ev.Section.Clone()))
}

func (h *host) save(key string, sec *grid.Section) tea.Cmd {
	h.seq[key]++
	w, docID, seq := h.saver, h.doc.ID, h.seq[key]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.save(ctx, docID, key, seq, sec)
	}
}

func (h *host) take() []tea.Cmd {
	q := h.queued
	h.queued = nil
	return q
}

type section struct {
	key   string
	title string
	grid  grid.Model
}

type model struct {
	h        *host
	sections []section
	tops     []int // content line of each grid's header
	vp       viewport.Model
	style    hostStyle
	width    int
	height   int
}

type hostStyle struct {
	Title       lipgloss.Style
	TitleActive lipgloss.Style
	Mark        lipgloss.Style
	MarkOn      lipgloss.Style
	Help        lipgloss.Style
	Status      lipgloss.Style
}

func defaultHostStyle(cfg config.Config) hostStyle {
	accent := lipgloss.Color(cfg.Style.Accent)
	dim := lipgloss.Color(cfg.Style.Rule)
	return hostStyle{
		Title:       lipgloss.NewStyle().Bold(true),
		TitleActive: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Mark:        lipgloss.NewStyle().Padding(0, 1),
		MarkOn:      lipgloss.NewStyle().Padding(0, 1).Reverse(true),
		Help:        lipgloss.NewStyle().Foreground(dim),
		Status:      lipgloss.NewStyle().Foreground(dim),
	}
}

func newModel(doc *document.Document, st *store.Store, cfg config.Config, clip celleditor.Clipboard, log *slog.Logger) (model, error) {
	h := &host{
		doc:   doc,
		saver: &saver{st: st, wrote: make(map[string]int)},
		seq:   make(map[string]int),
		hist:  document.NewHistory(cfg.HistoryLimit),
		log:   log,
	}
	if err := h.hist.Reset(doc); err != nil {
		return model{}, err
	}

	factory := grid.CellEditorFactory(celleditor.DefaultStyle(), celleditor.DefaultKeyMap(), clip)
	m := model{
		h:     h,
		vp:    viewport.New(80, 20),
		style: defaultHostStyle(cfg),
	}
	for _, ns := range doc.Sections {
		g := grid.New(grid.Config{
			ID:                 ns.Key,
			Section:            ns.Section.Clone(),
			Headers:            ns.Headers,
			ReadOnly:           cfg.ReadOnly,
			ShowRowNumbers:     cfg.ShowRowNumbers,
			Debounce:           time.Duration(cfg.Debounce),
			Style:              cfg.GridStyle(),
			NewEditor:          factory,
			Logger:             log,
			OnRowsChanged:      h.rowsChanged,
			OnCellFocused:      func(ed grid.Editor) { h.editor = ed },
			OnSelectionChanged: func(ev grid.SelectionEvent) { h.sel = ev },
			OnSectionActivated: func(id string) { h.activated = id },
		})
		m.sections = append(m.sections, section{key: ns.Key, title: ns.Title, grid: g})
	}
	m.refresh()
	return m, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for i := range m.sections {
			m.sections[i].grid = m.sections[i].grid.SetWidth(msg.Width)
		}
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-toolbarLines-statusLines)

	case savedMsg:
		switch {
		case msg.stale:
			m.h.log.Debug("stale section snapshot skipped", "section", msg.key, "seq", msg.seq)
		case msg.err != nil:
			m.h.status = "save failed: " + msg.err.Error()
			m.h.log.Error("saving section", "section", msg.key, "err", msg.err)
		default:
			m.h.status = "saved " + msg.key
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+q":
			return m, m.quit()
		case "ctrl+c":
			// Copy belongs to the focused cell; quit only when none is.
			if !m.cellFocused() {
				return m, m.quit()
			}
			cmds = append(cmds, m.forwardKey(msg))
		case "alt+z":
			m.undo(false)
		case "alt+y":
			m.undo(true)
		case "tab":
			m.cycle(1)
		case "shift+tab":
			m.cycle(-1)
		case "pgup":
			m.vp.SetYOffset(m.vp.YOffset - m.vp.Height)
		case "pgdown":
			m.vp.SetYOffset(m.vp.YOffset + m.vp.Height)
		default:
			cmds = append(cmds, m.forwardKey(msg))
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.routeMouse(msg))

	default:
		// Debounce ticks carry their owner, so every section may see them.
		for i := range m.sections {
			var cmd tea.Cmd
			m.sections[i].grid, cmd = m.sections[i].grid.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.settleActive()
	m.refresh()
	cmds = append(cmds, m.h.take()...)
	return m, tea.Batch(cmds...)
}

// routeMouse sends a mouse message to the section under the pointer, or to
// the section holding a drag, in that section's own coordinates.
func (m *model) routeMouse(msg tea.MouseMsg) tea.Cmd {
	for i := range m.sections {
		if m.sections[i].grid.Capturing() {
			return m.forwardMouse(i, msg)
		}
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.vp.SetYOffset(m.vp.YOffset - wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		m.vp.SetYOffset(m.vp.YOffset + wheelStep)
		return nil
	}
	if msg.Y < toolbarLines || msg.Y >= toolbarLines+m.vp.Height {
		return nil
	}
	y := msg.Y - toolbarLines + m.vp.YOffset
	for i := range m.sections {
		top := m.tops[i]
		if y >= top && y < top+m.sections[i].grid.Height() {
			return m.forwardMouse(i, msg)
		}
	}
	return nil
}

func (m *model) forwardMouse(i int, msg tea.MouseMsg) tea.Cmd {
	msg.Y = msg.Y - toolbarLines + m.vp.YOffset - m.tops[i]
	var cmd tea.Cmd
	m.sections[i].grid, cmd = m.sections[i].grid.Update(msg)
	return cmd
}

func (m *model) forwardKey(msg tea.KeyMsg) tea.Cmd {
	i := m.activeIndex()
	if i < 0 {
		return nil
	}
	var cmd tea.Cmd
	m.sections[i].grid, cmd = m.sections[i].grid.Update(msg)
	return cmd
}

func (m *model) cellFocused() bool {
	i := m.activeIndex()
	if i < 0 {
		return false
	}
	_, ok := m.sections[i].grid.Focused()
	return ok
}

func (m *model) activeIndex() int {
	for i, s := range m.sections {
		if s.key == m.h.active {
			return i
		}
	}
	return -1
}

// settleActive deactivates every section but the one a grid reported as
// newly activated.
func (m *model) settleActive() {
	id := m.h.activated
	if id == "" {
		return
	}
	m.h.activated = ""
	m.activate(id)
}

func (m *model) activate(key string) {
	for i := range m.sections {
		if m.sections[i].key != key {
			m.sections[i].grid = m.sections[i].grid.Deactivate()
		}
	}
	m.h.active = key
}

func (m *model) cycle(d int) {
	n := len(m.sections)
	if n == 0 {
		return
	}
	next := 0
	if i := m.activeIndex(); i >= 0 {
		next = (i + d + n) % n
	}
	s := &m.sections[next]
	m.activate(s.key)
	s.grid = s.grid.Activate().FocusCell(grid.Coord{})
	m.scrollTo(next)
}

func (m *model) scrollTo(i int) {
	if i >= len(m.tops) {
		return
	}
	top := m.tops[i] - 1
	if top < m.vp.YOffset || top >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(top)
	}
}

// flushAll reports pending text edits now, so history and the store see
// them before anything else happens.
func (m *model) flushAll() {
	for _, s := range m.sections {
		s.grid.Flush()
	}
}

func (m *model) undo(redo bool) {
	m.flushAll()
	var (
		ch  document.Change
		ok  bool
		err error
	)
	if redo {
		ch, ok, err = m.h.hist.Redo()
	} else {
		ch, ok, err = m.h.hist.Undo()
	}
	switch {
	case err != nil:
		m.h.status = err.Error()
		m.h.log.Error("history", "redo", redo, "err", err)
		return
	case !ok:
		m.h.status = "nothing to undo"
		if redo {
			m.h.status = "nothing to redo"
		}
		return
	}
	for i := range m.sections {
		if m.sections[i].key != ch.Key {
			continue
		}
		m.sections[i].grid = m.sections[i].grid.SetSection(ch.Section.Clone())
		if err := m.h.doc.SetSection(ch.Key, ch.Section); err != nil {
			m.h.log.Error("history", "err", err)
		}
		m.h.queued = append(m.h.queued, m.h.save(ch.Key, ch.Section.Clone()))
		m.activate(ch.Key)
		m.sections[i].grid = m.sections[i].grid.Activate()
		m.scrollTo(i)
	}
	if redo {
		m.h.status = "redo " + ch.Key
	} else {
		m.h.status = "undo " + ch.Key
	}
}

func (m model) quit() tea.Cmd {
	m.flushAll()
	for _, s := range m.sections {
		s.grid.Close()
	}
	return tea.Sequence(tea.Batch(m.h.take()...), tea.Quit)
}

// refresh lays the sections out in the viewport.
func (m *model) refresh() {
	var b strings.Builder
	m.tops = make([]int, 0, len(m.sections))
	line := 0
	for i, s := range m.sections {
		if i > 0 {
			b.WriteString("\n\n")
			line++
		}
		title := m.style.Title
		if s.key == m.h.active {
			title = m.style.TitleActive
		}
		b.WriteString(title.Render(s.title))
		b.WriteString("\n")
		line++
		m.tops = append(m.tops, line)
		view := s.grid.View()
		b.WriteString(view)
		line += strings.Count(view, "\n") + 1
	}
	m.vp.SetContent(b.String())
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.toolbar(), m.vp.View(), m.statusLine())
}

func (m model) toolbar() string {
	marks := richtext.MarkNone
	if m.h.editor != nil {
		marks = m.h.editor.FormatState()
	}
	var parts []string
	for _, mk := range []struct {
		mark  richtext.Mark
		label string
	}{
		{richtext.Bold, "B"},
		{richtext.Italic, "I"},
		{richtext.Underline, "U"},
		{richtext.Strike, "S"},
	} {
		st := m.style.Mark
		if marks&mk.mark != 0 {
			st = m.style.MarkOn
		}
		parts = append(parts, st.Render(mk.label))
	}
	help := m.style.Help.Render("  tab section · alt+z undo · alt+y redo · ctrl+q quit")
	return lipgloss.NewStyle().MaxWidth(m.width).Render(m.h.doc.Title + "  " + strings.Join(parts, "") + help)
}

func (m model) statusLine() string {
	s := m.h.status
	if m.h.sel.Active {
		rg := m.h.sel.Range
		s = fmt.Sprintf("%d×%d selected (%d cells)  %s", rg.Rows(), rg.Cols(), len(m.h.sel.Editors), s)
	}
	return m.style.Status.MaxWidth(m.width).Render(s)
}
