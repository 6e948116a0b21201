package core

// visualMode handles Character, Line, and Block selections uniformly; the
// shape lives on st.Selection.Type rather than as three separate mode
// structs, since every key they handle (motions, the operator set, 'o')
// behaves identically apart from how the range is interpreted.
type visualMode struct{}

func (m *visualMode) Name() Mode { return VisualMode }

func (m *visualMode) Enter(eng *Engine, doc *Document, st *VimState) {}

func (m *visualMode) Exit(eng *Engine, doc *Document, st *VimState) {
	st.Selection = nil
	st.SelectedRows = map[int]bool{}
	st.SelectedCols = map[int]bool{}
	eng.RefreshSelection(doc, st)
}

func (m *visualMode) HandleKey(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	if st.Selection == nil {
		st.Selection = &SelectionRange{Type: SelectionCharacter, Start: st.Cursor, End: st.Cursor}
	}

	if st.awaitingReplaceChar {
		return m.finishReplace(eng, doc, st, key)
	}

	if key.Key == KeyEscape {
		eng.SetMode(doc, st, NormalMode)
		return nil
	}

	if key.Rune >= '1' && key.Rune <= '9' {
		st.AccumulateDigit(int(key.Rune - '0'))
		return nil
	}
	if key.Rune == '0' && st.PendingCount != 0 {
		st.AccumulateDigit(0)
		return nil
	}
	count := st.EffectiveCount()

	switch {
	case key.Rune == 'h' || key.Key == KeyLeft:
		st.Selection.End.Col -= count
	case key.Rune == 'l' || key.Key == KeyRight:
		st.Selection.End.Col += count
	case key.Rune == 'k' || key.Key == KeyUp:
		st.Selection.End.Row -= count
	case key.Rune == 'j' || key.Key == KeyDown:
		st.Selection.End.Row += count
	case key.Rune == 'w':
		st.Selection.End.Col += count
	case key.Rune == 'b':
		st.Selection.End.Col -= count
	case key.Rune == '0' || key.Rune == '^':
		st.Selection.End.Col = 0
	case key.Rune == '$':
		st.Selection.End.Col = doc.ColumnCount() - 1
	case key.Rune == 'G':
		st.Selection.End.Row = doc.RowCount() - 1

	case key.Rune == 'o':
		st.Selection.Start, st.Selection.End = st.Selection.End, st.Selection.Start

	case key.Rune == 'v' && key.Modifiers&ModCtrl == 0:
		if st.Selection.Type == SelectionCharacter {
			eng.SetMode(doc, st, NormalMode)
			return nil
		}
		st.Selection.Type = SelectionCharacter
	case key.Rune == 'V':
		if st.Selection.Type == SelectionLine {
			eng.SetMode(doc, st, NormalMode)
			return nil
		}
		st.Selection.Type = SelectionLine
	case key.Modifiers&ModCtrl != 0 && key.Rune == 'v':
		if st.Selection.Type == SelectionBlock {
			eng.SetMode(doc, st, NormalMode)
			return nil
		}
		st.Selection.Type = SelectionBlock

	case key.Rune == 'd', key.Rune == 'x':
		return m.applyOperator(eng, doc, st, 'd')
	case key.Rune == 'c':
		return m.applyOperator(eng, doc, st, 'c')
	case key.Rune == 'y':
		return m.applyOperator(eng, doc, st, 'y')
	case key.Rune == 'r':
		return m.replace(eng, doc, st)

	case key.Rune == ':':
		st.CommandLine = CommandLineEx
		eng.SetMode(doc, st, CommandMode)
		return nil
	}

	st.Selection.End = st.Selection.End.Clamp(doc.RowCount(), doc.ColumnCount())
	eng.MoveCursor(doc, st, st.Selection.End)
	eng.RefreshSelection(doc, st)
	return nil
}

func (m *visualMode) applyOperator(eng *Engine, doc *Document, st *VimState, op rune) *Error {
	rng := *st.Selection
	content := captureYank(doc, rng)
	origin := GridPosition{Row: rng.StartRow(), Col: rng.StartColumn()}

	switch op {
	case 'y':
		_ = eng.CopyToClipboard(st, content)
		eng.DispatchMessage(YankMessage)
		eng.SetMode(doc, st, NormalMode)
		eng.MoveCursor(doc, st, origin)
	case 'd':
		_ = eng.CopyToClipboard(st, content)
		if err := eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng}); err != nil {
			return newError(ErrOutOfBoundsId, err)
		}
		eng.DispatchMessage(DeleteMessage)
		eng.SetMode(doc, st, NormalMode)
		eng.MoveCursor(doc, st, origin)
	case 'c':
		_ = eng.CopyToClipboard(st, content)
		if err := eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng}); err != nil {
			return newError(ErrOutOfBoundsId, err)
		}
		st.Selection = nil
		st.SelectedRows = map[int]bool{}
		st.SelectedCols = map[int]bool{}
		r := rng
		st.PendingBulkEditRange = &r
		eng.MoveCursor(doc, st, origin)
		st.CellEditCaret = CaretStart
		eng.SetMode(doc, st, InsertMode)
	}
	return nil
}

// replace implements "Ctrl+v j l r *"-style block replace: every cell in
// the active range becomes the rune that follows 'r'. It stays in Visual
// mode waiting for that one key, then returns to Normal, matching the
// literal scenario in the spec.
func (m *visualMode) replace(eng *Engine, doc *Document, st *VimState) *Error {
	st.awaitingReplaceChar = true
	return nil
}

func (m *visualMode) finishReplace(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	st.awaitingReplaceChar = false
	rng := *st.Selection
	if key.Rune == 0 {
		eng.SetMode(doc, st, NormalMode)
		return nil
	}
	sr, er := rng.StartRow(), rng.EndRow()
	sc, ec := rangeColumnBounds(rng, doc)
	values := map[GridPosition]string{}
	for r := sr; r <= er; r++ {
		for c := sc; c <= ec; c++ {
			values[GridPosition{Row: r, Col: c}] = string(key.Rune)
		}
	}
	origin := GridPosition{Row: sr, Col: sc}
	if err := eng.Execute(doc, st, NewBulkEditCellsCommand(values)); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	eng.SetMode(doc, st, NormalMode)
	eng.MoveCursor(doc, st, origin)
	return nil
}
