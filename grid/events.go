package grid

// RowsChangedEvent reports the section after a change. Section is a copy
// the receiver may keep.
type RowsChangedEvent struct {
	SectionID string
	Section   *Section
	TextEdit  bool
}

// SelectionEvent lists the editors inside the selected range. Range is only
// meaningful when Active is true.
type SelectionEvent struct {
	SectionID string
	Editors   []Editor
	Range     Range
	Active    bool
}

func (st *state) emitRowsChanged(textEdit bool) {
	if st.cfg.OnRowsChanged == nil {
		return
	}
	st.cfg.OnRowsChanged(RowsChangedEvent{
		SectionID: st.cfg.ID,
		Section:   st.sec.Clone(),
		TextEdit:  textEdit,
	})
}

func (st *state) emitSelection() {
	if st.cfg.OnSelectionChanged == nil {
		return
	}
	ev := SelectionEvent{SectionID: st.cfg.ID}
	if rg, ok := st.sel.Range(); ok {
		ev.Range = rg
		ev.Active = true
		ev.Editors = st.reg.InRange(rg)
	}
	st.cfg.OnSelectionChanged(ev)
}
