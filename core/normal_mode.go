package core

import "time"

// normalMode implements motions, operators, and mode-entry keys for
// Normal. It holds no per-document state of its own; everything it reads
// or writes lives on the VimState passed into HandleKey, so one normalMode
// value is safely shared across every open document.
type normalMode struct{}

func (m *normalMode) Name() Mode { return NormalMode }

func (m *normalMode) Enter(eng *Engine, doc *Document, st *VimState) {}
func (m *normalMode) Exit(eng *Engine, doc *Document, st *VimState)  {}

func (m *normalMode) HandleKey(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	if key.Key == KeyEscape {
		st.ClearPending()
		return nil
	}

	// Count prefix: digits 1-9 always accumulate; '0' only accumulates
	// once a count has started, otherwise it is the line-start motion.
	if key.Rune >= '1' && key.Rune <= '9' {
		st.AccumulateDigit(int(key.Rune - '0'))
		return nil
	}
	if key.Rune == '0' && st.PendingCount != 0 {
		st.AccumulateDigit(0)
		return nil
	}

	if st.awaitingReplaceChar {
		return m.finishReplace(eng, doc, st, key)
	}

	if st.CurrentOperator != 0 {
		return m.applyPendingOperator(eng, doc, st, key)
	}

	now := time.Now()
	st.PushPendingKey(key, now)
	switch st.PendingKeyRunes() {
	case "gg":
		st.ClearPending()
		eng.MoveCursor(doc, st, GridPosition{Row: 0, Col: st.Cursor.Col})
		return nil
	}
	if key.Rune == 'g' {
		return nil // await second key of "gg"
	}
	count := st.EffectiveCount()
	st.ClearPending()

	switch {
	case key.Rune == 'h' || key.Key == KeyLeft:
		m.moveBy(eng, doc, st, 0, -count)
	case key.Rune == 'l' || key.Key == KeyRight:
		m.moveBy(eng, doc, st, 0, count)
	case key.Rune == 'k' || key.Key == KeyUp:
		m.moveBy(eng, doc, st, -count, 0)
	case key.Rune == 'j' || key.Key == KeyDown:
		m.moveBy(eng, doc, st, count, 0)
	case key.Rune == 'w':
		m.moveBy(eng, doc, st, 0, count)
	case key.Rune == 'b' && key.Modifiers&ModCtrl == 0:
		m.moveBy(eng, doc, st, 0, -count)
	case key.Rune == '0' || key.Rune == '^':
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row, Col: 0})
	case key.Rune == '$':
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row, Col: doc.ColumnCount() - 1})
	case key.Rune == 'G':
		eng.MoveCursor(doc, st, GridPosition{Row: doc.RowCount() - 1, Col: st.Cursor.Col})

	case key.Modifiers&ModCtrl != 0 && key.Rune == 'u':
		m.moveBy(eng, doc, st, -count*m.halfPage(st), 0)
	case key.Modifiers&ModCtrl != 0 && key.Rune == 'd':
		m.moveBy(eng, doc, st, count*m.halfPage(st), 0)
	case key.Modifiers&ModCtrl != 0 && key.Rune == 'b':
		m.moveBy(eng, doc, st, -count*m.page(st), 0)
	case key.Modifiers&ModCtrl != 0 && key.Rune == 'f':
		m.moveBy(eng, doc, st, count*m.page(st), 0)

	case key.Rune == '}':
		eng.MoveCursor(doc, st, nextEmptyCellRow(doc, st.Cursor, 1))
	case key.Rune == '{':
		eng.MoveCursor(doc, st, nextEmptyCellRow(doc, st.Cursor, -1))

	case key.Rune == 'd', key.Rune == 'c', key.Rune == 'y':
		st.CurrentOperator = key.Rune
		st.operatorCount = count

	case key.Rune == 'x':
		return m.deleteCells(eng, doc, st, count)

	case key.Modifiers&ModCtrl != 0 && key.Rune == 'r':
		if err := eng.Redo(doc, st); err != nil && err != ErrNothingToRedo {
			return newError(ErrNothingToRedoId, err)
		}
	case key.Rune == 'r':
		st.awaitingReplaceChar = true
		st.operatorCount = count

	case key.Rune == 'p':
		return m.paste(eng, doc, st, false)
	case key.Rune == 'P':
		return m.paste(eng, doc, st, true)

	case key.Rune == 'u':
		if err := eng.Undo(doc, st); err != nil && err != ErrNothingToUndo {
			return newError(ErrNothingToUndoId, err)
		}

	case key.Rune == '.':
		return m.repeatLastChange(eng, doc, st)

	case key.Rune == 'i':
		m.enterInsert(eng, doc, st, CaretStart)
	case key.Rune == 'a':
		m.enterInsert(eng, doc, st, CaretEnd)
	case key.Rune == 'I':
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row, Col: 0})
		m.enterInsert(eng, doc, st, CaretStart)
	case key.Rune == 'A':
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row, Col: doc.ColumnCount() - 1})
		m.enterInsert(eng, doc, st, CaretEnd)
	case key.Rune == 'o':
		_ = eng.Execute(doc, st, &InsertRowCommand{Index: st.Cursor.Row + 1})
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row + 1, Col: 0})
		m.enterInsert(eng, doc, st, CaretStart)
	case key.Rune == 'O':
		_ = eng.Execute(doc, st, &InsertRowCommand{Index: st.Cursor.Row})
		eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row, Col: 0})
		m.enterInsert(eng, doc, st, CaretStart)

	case key.Modifiers&ModCtrl != 0 && key.Rune == 'v':
		st.Selection = &SelectionRange{Type: SelectionBlock, Start: st.Cursor, End: st.Cursor}
		eng.SetMode(doc, st, VisualMode)
		eng.RefreshSelection(doc, st)
	case key.Rune == 'v':
		st.Selection = &SelectionRange{Type: SelectionCharacter, Start: st.Cursor, End: st.Cursor}
		eng.SetMode(doc, st, VisualMode)
		eng.RefreshSelection(doc, st)
	case key.Rune == 'V':
		st.Selection = &SelectionRange{Type: SelectionLine, Start: st.Cursor, End: st.Cursor}
		eng.SetMode(doc, st, VisualMode)
		eng.RefreshSelection(doc, st)

	case key.Rune == ':':
		st.CommandLine = CommandLineEx
		eng.SetMode(doc, st, CommandMode)
	case key.Rune == '/':
		st.CommandLine = CommandLineSearch
		st.SearchForward = true
		eng.SetMode(doc, st, CommandMode)
	case key.Rune == '?':
		st.CommandLine = CommandLineSearch
		st.SearchForward = false
		eng.SetMode(doc, st, CommandMode)
	case key.Rune == 'n':
		stepSearch(eng, doc, st, st.SearchForward)
	case key.Rune == 'N':
		stepSearch(eng, doc, st, !st.SearchForward)
	}
	return nil
}

func (m *normalMode) moveBy(eng *Engine, doc *Document, st *VimState, dRow, dCol int) {
	eng.MoveCursor(doc, st, GridPosition{Row: st.Cursor.Row + dRow, Col: st.Cursor.Col + dCol})
}

// halfPage and page derive Ctrl+u/d and Ctrl+b/f row counts from the
// viewport height the adapter last reported; absent that (headless tests,
// a view that never resized) they fall back to a single row so the motion
// still does something rather than silently no-op.
func (m *normalMode) halfPage(st *VimState) int {
	if st.ViewportHeight <= 0 {
		return 1
	}
	if half := st.ViewportHeight / 2; half > 0 {
		return half
	}
	return 1
}

func (m *normalMode) page(st *VimState) int {
	if st.ViewportHeight <= 0 {
		return 1
	}
	return st.ViewportHeight
}

// nextEmptyCellRow walks rows in dir (+1/-1) from pos, returning the
// position of the next row whose cell in pos's column is empty — the grid
// analogue of Vim's blank-line paragraph motion. Clamps at the document's
// first/last row when no such row exists.
func nextEmptyCellRow(doc *Document, pos GridPosition, dir int) GridPosition {
	r := pos.Row + dir
	for r >= 0 && r < doc.RowCount() {
		cell, ok := doc.GetCell(GridPosition{Row: r, Col: pos.Col})
		if !ok || cell.Value == "" {
			return GridPosition{Row: r, Col: pos.Col}
		}
		r += dir
	}
	if dir > 0 {
		return GridPosition{Row: doc.RowCount() - 1, Col: pos.Col}
	}
	return GridPosition{Row: 0, Col: pos.Col}
}

func (m *normalMode) enterInsert(eng *Engine, doc *Document, st *VimState, caret CaretPosition) {
	st.CellEditCaret = caret
	eng.SetMode(doc, st, InsertMode)
}

// applyPendingOperator consumes the motion key that follows an operator
// (d/c/y), builds the implied range, and runs the corresponding command.
// "dd"/"yy"/"cc" — the motion rune equal to the operator itself — act on
// the whole current row, per spec §4.8.
func (m *normalMode) applyPendingOperator(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	op := st.CurrentOperator
	count := st.operatorCount
	if st.PendingCount != 0 {
		count = st.EffectiveCount()
	}
	st.CurrentOperator = 0
	st.operatorCount = 0

	wholeRow := key.Rune == rune(op)
	var rng SelectionRange
	if wholeRow {
		rng = SelectionRange{
			Type:  SelectionLine,
			Start: st.Cursor,
			End:   GridPosition{Row: st.Cursor.Row + count - 1, Col: st.Cursor.Col},
		}
	} else {
		end := st.Cursor
		switch key.Rune {
		case 'w', 'l':
			// count cells starting at the cursor, exclusive of the word/char
			// past the last one — count 1 is just the current cell, so
			// "cw"/"dw" touch only the word under the cursor, not the next.
			end.Col += count - 1
		case 'b', 'h':
			end.Col -= count
		case 'j':
			end.Row += count
		case 'k':
			end.Row -= count
		case '$':
			end.Col = doc.ColumnCount() - 1
		case '0':
			end.Col = 0
		case 'G':
			end.Row = doc.RowCount() - 1
		default:
			return nil // unrecognized motion cancels the pending operator silently
		}
		rng = SelectionRange{Type: SelectionCharacter, Start: st.Cursor, End: end}
	}

	content := captureYank(doc, rng)
	st.LastChange = &LastChange{Kind: ChangeOperator, Operator: op, Motion: key.Rune, Count: count}

	switch op {
	case 'y':
		_ = eng.CopyToClipboard(st, content)
		eng.DispatchMessage(YankMessage)
		eng.MoveCursor(doc, st, GridPosition{Row: rng.StartRow(), Col: rng.StartColumn()})
	case 'd':
		_ = eng.CopyToClipboard(st, content)
		if err := eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng}); err != nil {
			return newError(ErrOutOfBoundsId, err)
		}
		eng.MoveCursor(doc, st, GridPosition{Row: rng.StartRow(), Col: rng.StartColumn()})
		eng.DispatchMessage(DeleteMessage)
	case 'c':
		_ = eng.CopyToClipboard(st, content)
		if err := eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng}); err != nil {
			return newError(ErrOutOfBoundsId, err)
		}
		eng.MoveCursor(doc, st, GridPosition{Row: rng.StartRow(), Col: rng.StartColumn()})
		// A Line range always spans the full row width regardless of what its
		// raw Start/End columns say (see rangeColumnBounds), so "cc" needs the
		// bulk-edit path even though rng.ColumnCount() reports 1.
		if rng.Type == SelectionLine || rng.RowCount() > 1 || rng.ColumnCount() > 1 {
			r := rng
			st.PendingBulkEditRange = &r
		}
		m.enterInsert(eng, doc, st, CaretStart)
	}
	return nil
}

func captureYank(doc *Document, rng SelectionRange) YankedContent {
	sr, er := rng.StartRow(), rng.EndRow()
	sc, ec := rangeColumnBounds(rng, doc)
	var rows [][]string
	for r := sr; r <= er; r++ {
		var row []string
		for c := sc; c <= ec; c++ {
			cell, _ := doc.GetCell(GridPosition{Row: r, Col: c})
			row = append(row, cell.Value)
		}
		rows = append(rows, row)
	}
	return YankedContent{Rows: rows, SourceType: rng.Type}
}

func (m *normalMode) deleteCells(eng *Engine, doc *Document, st *VimState, count int) *Error {
	rng := SelectionRange{Type: SelectionCharacter, Start: st.Cursor, End: GridPosition{Row: st.Cursor.Row, Col: st.Cursor.Col + count - 1}}
	content := captureYank(doc, rng)
	_ = eng.CopyToClipboard(st, content)
	if err := eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng}); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	st.LastChange = &LastChange{Kind: ChangeOperator, Operator: 'x', Count: count}
	return nil
}

func (m *normalMode) finishReplace(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	st.awaitingReplaceChar = false
	count := st.operatorCount
	st.operatorCount = 0
	if key.Rune == 0 {
		return nil
	}
	values := make(map[GridPosition]string, count)
	for i := 0; i < count; i++ {
		values[GridPosition{Row: st.Cursor.Row, Col: st.Cursor.Col + i}] = string(key.Rune)
	}
	if err := eng.Execute(doc, st, NewBulkEditCellsCommand(values)); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	st.LastChange = &LastChange{Kind: ChangeOperator, Operator: 'r', Count: count, ReplaceRune: key.Rune}
	return nil
}

func (m *normalMode) paste(eng *Engine, doc *Document, st *VimState, before bool) *Error {
	content, err := eng.ReadFromClipboard(st)
	if err != nil {
		return nil
	}
	cmd := &PasteCommand{Pos: st.Cursor, Yank: content, Before: before}
	origin := cmd.targetOrigin()
	if err := eng.Execute(doc, st, cmd); err != nil {
		return newError(ErrOutOfBoundsId, err)
	}
	eng.MoveCursor(doc, st, origin)
	return nil
}

func (m *normalMode) repeatLastChange(eng *Engine, doc *Document, st *VimState) *Error {
	lc := st.LastChange
	if lc == nil {
		return nil
	}
	switch lc.Kind {
	case ChangeOperator:
		switch lc.Operator {
		case 'r':
			values := make(map[GridPosition]string, lc.Count)
			for i := 0; i < lc.Count; i++ {
				values[GridPosition{Row: st.Cursor.Row, Col: st.Cursor.Col + i}] = string(lc.ReplaceRune)
			}
			_ = eng.Execute(doc, st, NewBulkEditCellsCommand(values))
		case 'x':
			rng := SelectionRange{Type: SelectionCharacter, Start: st.Cursor, End: GridPosition{Row: st.Cursor.Row, Col: st.Cursor.Col + lc.Count - 1}}
			_ = eng.Execute(doc, st, &DeleteSelectionCommand{Range: rng})
		default:
			// Re-run the recorded operator+motion so the replayed range is
			// built exactly as the original one was.
			st.CurrentOperator = lc.Operator
			st.operatorCount = lc.Count
			return m.applyPendingOperator(eng, doc, st, KeyEvent{Rune: lc.Motion})
		}
	case ChangeInsertCell:
		_ = eng.Execute(doc, st, NewEditCellCommand(st.Cursor, lc.InsertedText))
	}
	return nil
}
