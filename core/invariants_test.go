package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_UndoInvertsExecute exercises undo-inverts-execute over
// randomly generated grids and edits: running a command's Execute then its
// Undo must leave the document byte-for-byte as it started.
func TestProperty_UndoInvertsExecute(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 4).Draw(t, "rows")
		cols := rapid.IntRange(1, 4).Draw(t, "cols")
		cellGen := rapid.StringMatching(`[a-z]{0,4}`)

		grid := make([][]string, rows)
		for r := 0; r < rows; r++ {
			row := make([]string, cols)
			for c := 0; c < cols; c++ {
				row[c] = cellGen.Draw(t, fmt.Sprintf("seed-%d-%d", r, c))
			}
			grid[r] = row
		}
		doc := NewDocument(grid)
		before := doc.Snapshot()

		pos := GridPosition{
			Row: rapid.IntRange(0, rows-1).Draw(t, "row"),
			Col: rapid.IntRange(0, cols-1).Draw(t, "col"),
		}
		newValue := cellGen.Draw(t, "newValue")

		hist := NewHistory()
		require.NoError(t, hist.Execute(doc, NewEditCellCommand(pos, newValue)))
		require.NoError(t, hist.Undo(doc))

		require.Equal(t, before, doc.Snapshot())
	})
}

// TestProperty_RedoReappliesUndoneCommand exercises redo-reapplies-undo: a
// command undone and then redone must land the document back where Execute
// first put it.
func TestProperty_RedoReappliesUndoneCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 4).Draw(t, "rows")
		grid := make([][]string, rows)
		for r := range grid {
			grid[r] = []string{"seed"}
		}
		doc := NewDocument(grid)

		row := rapid.IntRange(0, rows-1).Draw(t, "row")
		newValue := rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "newValue")

		hist := NewHistory()
		pos := GridPosition{Row: row, Col: 0}
		require.NoError(t, hist.Execute(doc, NewEditCellCommand(pos, newValue)))
		afterExecute := doc.Snapshot()

		require.NoError(t, hist.Undo(doc))
		require.NoError(t, hist.Redo(doc))

		require.Equal(t, afterExecute, doc.Snapshot())
	})
}

// TestProperty_CountMultipliesMotion exercises count×motion: an N-count
// prefix on a single-axis motion moves the cursor by exactly N cells,
// clamped to the document's bounds.
func TestProperty_CountMultipliesMotion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(2, 12).Draw(t, "rows")
		grid := make([][]string, rows)
		for r := range grid {
			grid[r] = []string{"x"}
		}
		doc := NewDocument(grid)
		st := NewVimState()
		eng := NewEngine(&fakeClipboard{}, nil)

		count := rapid.IntRange(1, rows+3).Draw(t, "count")
		for _, r := range fmt.Sprintf("%d", count) {
			eng.HandleKey(doc, st, KeyEvent{Rune: r})
		}
		eng.HandleKey(doc, st, KeyEvent{Rune: 'j'})

		want := count
		if want > rows-1 {
			want = rows - 1
		}
		require.Equal(t, want, st.Cursor.Row)
	})
}

// TestProperty_DotRepeatReplaysInsertedText exercises dot-repeat fidelity:
// whatever text an insert left behind, '.' writes that same text into the
// next cell, discarding whatever was there before.
func TestProperty_DotRepeatReplaysInsertedText(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		original := rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "original")
		typed := rapid.StringMatching(`[A-Z]{1,5}`).Draw(t, "typed")
		neighbor := rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "neighbor")

		doc := NewDocument([][]string{{original, neighbor}})
		st := NewVimState()
		eng := NewEngine(&fakeClipboard{}, nil)

		eng.HandleKey(doc, st, KeyEvent{Rune: 'i'})
		for _, r := range typed {
			eng.HandleKey(doc, st, KeyEvent{Rune: r})
		}
		eng.HandleKey(doc, st, KeyEvent{Key: KeyEscape})
		want := typed + original

		eng.HandleKey(doc, st, KeyEvent{Rune: 'l'})
		eng.HandleKey(doc, st, KeyEvent{Rune: '.'})

		require.Equal(t, []string{want, want}, doc.Snapshot()[0])
	})
}
