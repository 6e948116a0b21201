package core

import "time"

// insertMode edits a scratch copy of the current cell's value and commits
// it as a single EditCellCommand on exit — the "two-way data binding"
// pattern the design notes call for replacing with an explicit commit.
type insertMode struct{}

func (m *insertMode) Name() Mode { return InsertMode }

func (m *insertMode) Enter(eng *Engine, doc *Document, st *VimState) {
	cell, _ := doc.GetCell(st.Cursor)
	st.InsertOriginalValue = cell.Value
	st.InsertStartPosition = st.Cursor
	st.insertScratch = []rune(cell.Value)
	if st.CellEditCaret == CaretStart {
		st.insertCaretOffset = 0
	} else {
		st.insertCaretOffset = len(st.insertScratch)
	}
}

// Exit commits the scratch buffer as an EditCellCommand, applies any
// pending bulk-edit range (spec §4.7(b)), and records a LastChange entry
// for dot-repeat. It does not itself change mode — the caller (Escape
// handling, jj) has already done that via Engine.SetMode.
func (m *insertMode) Exit(eng *Engine, doc *Document, st *VimState) {
	final := string(st.insertScratch)

	if st.PendingBulkEditRange != nil {
		rng := *st.PendingBulkEditRange
		st.PendingBulkEditRange = nil
		values := map[GridPosition]string{}
		sr, er := rng.StartRow(), rng.EndRow()
		sc, ec := rangeColumnBounds(rng, doc)
		for r := sr; r <= er; r++ {
			for c := sc; c <= ec; c++ {
				values[GridPosition{Row: r, Col: c}] = final
			}
		}
		_ = eng.Execute(doc, st, NewBulkEditCellsCommand(values))
	} else if final != st.InsertOriginalValue {
		cmd := NewEditCellCommand(st.InsertStartPosition, final)
		cmd.AddExecuted(st.InsertOriginalValue)
		_ = eng.Execute(doc, st, cmd)
	}

	st.LastChange = &LastChange{
		Kind:          ChangeInsertCell,
		InsertedText:  final,
		CaretPosition: st.CellEditCaret,
	}
	st.insertScratch = nil
	st.insertCaretOffset = 0
}

func (m *insertMode) HandleKey(eng *Engine, doc *Document, st *VimState, key KeyEvent) *Error {
	if key.Key == KeyEscape {
		eng.SetMode(doc, st, NormalMode)
		return nil
	}

	if key.Rune == 'j' {
		now := time.Now()
		st.PushPendingKey(key, now)
		if st.PendingKeyRunes() == "jj" {
			if st.insertCaretOffset > 0 {
				// drop the first buffered 'j', which sits just left of the caret
				st.insertScratch = append(st.insertScratch[:st.insertCaretOffset-1], st.insertScratch[st.insertCaretOffset:]...)
				st.insertCaretOffset--
			}
			st.ClearPending()
			eng.SetMode(doc, st, NormalMode)
			return nil
		}
	} else {
		st.ClearPending()
	}

	switch key.Key {
	case KeyBackspace:
		if st.insertCaretOffset > 0 {
			st.insertScratch = append(st.insertScratch[:st.insertCaretOffset-1], st.insertScratch[st.insertCaretOffset:]...)
			st.insertCaretOffset--
		}
	case KeyDelete:
		if st.insertCaretOffset < len(st.insertScratch) {
			st.insertScratch = append(st.insertScratch[:st.insertCaretOffset], st.insertScratch[st.insertCaretOffset+1:]...)
		}
	case KeyLeft:
		if st.insertCaretOffset > 0 {
			st.insertCaretOffset--
		}
	case KeyRight:
		if st.insertCaretOffset < len(st.insertScratch) {
			st.insertCaretOffset++
		}
	case KeyHome:
		st.insertCaretOffset = 0
	case KeyEnd:
		st.insertCaretOffset = len(st.insertScratch)
	case KeyEnter, KeyTab:
		eng.SetMode(doc, st, NormalMode)
	default:
		if key.Rune != 0 {
			st.insertScratch = append(st.insertScratch[:st.insertCaretOffset],
				append([]rune{key.Rune}, st.insertScratch[st.insertCaretOffset:]...)...)
			st.insertCaretOffset++
		}
	}
	eng.DispatchSignal(CellChangedSignal{Pos: st.Cursor})
	return nil
}
