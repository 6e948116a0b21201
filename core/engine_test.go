package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func key(r rune) KeyEvent { return KeyEvent{Rune: r} }

func keyEsc() KeyEvent { return KeyEvent{Key: KeyEscape} }

func newTestEngine() (*Engine, *Document, *VimState) {
	eng := NewEngine(&fakeClipboard{}, nil)
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}})
	st := NewVimState()
	return eng, doc, st
}

// TestYankLinePasteBelow is end-to-end scenario 1: "yy" "j" "p".
func TestYankLinePasteBelow(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('y'))
	eng.HandleKey(doc, st, key('y'))
	eng.HandleKey(doc, st, key('j'))
	eng.HandleKey(doc, st, key('p'))

	require.Equal(t, [][]string{
		{"a", "b"}, {"c", "d"}, {"a", "b"}, {"e", "f"},
	}, doc.Snapshot())
	require.Equal(t, GridPosition{Row: 2, Col: 0}, st.Cursor)
}

// TestChangeCell is end-to-end scenario 2: "c" "w" "X" "Y" "Z" Escape.
func TestChangeCell(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('c'))
	eng.HandleKey(doc, st, key('w'))
	require.Equal(t, InsertMode, st.Mode)

	eng.HandleKey(doc, st, key('X'))
	eng.HandleKey(doc, st, key('Y'))
	eng.HandleKey(doc, st, key('Z'))
	eng.HandleKey(doc, st, keyEsc())

	require.Equal(t, NormalMode, st.Mode)
	require.Equal(t, [][]string{
		{"XYZ", "b"}, {"c", "d"}, {"e", "f"},
	}, doc.Snapshot(), "cw must touch only the cell under the cursor, not its neighbor")
}

// TestDeleteWholeRow covers "dd": the operator rune repeated acts on the
// full current row, not just the cursor's column.
func TestDeleteWholeRow(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('d'))
	eng.HandleKey(doc, st, key('d'))

	require.Equal(t, [][]string{
		{"", ""}, {"c", "d"}, {"e", "f"},
	}, doc.Snapshot())
}

// TestChangeWholeRow covers "cc": every cell in the row is blanked and then
// the one typed value lands in every cell of that row.
func TestChangeWholeRow(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('c'))
	eng.HandleKey(doc, st, key('c'))
	require.Equal(t, InsertMode, st.Mode)

	eng.HandleKey(doc, st, key('X'))
	eng.HandleKey(doc, st, keyEsc())

	require.Equal(t, [][]string{
		{"X", "X"}, {"c", "d"}, {"e", "f"},
	}, doc.Snapshot())
}

// TestVisualLineDelete covers Visual-Line 'd': the selected row is cleared
// across every column, matching "dd"'s full-row behavior.
func TestVisualLineDelete(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('V'))
	require.Equal(t, VisualMode, st.Mode)
	require.Equal(t, SelectionLine, st.Selection.Type)

	eng.HandleKey(doc, st, key('d'))

	require.Equal(t, NormalMode, st.Mode)
	require.Equal(t, [][]string{
		{"", ""}, {"c", "d"}, {"e", "f"},
	}, doc.Snapshot())
}

// TestVisualBlockReplace is end-to-end scenario 3: Ctrl+v, j, l, r, *.
func TestVisualBlockReplace(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, KeyEvent{Rune: 'v', Modifiers: ModCtrl})
	require.Equal(t, VisualMode, st.Mode)
	require.Equal(t, SelectionBlock, st.Selection.Type)

	eng.HandleKey(doc, st, key('j'))
	eng.HandleKey(doc, st, key('l'))
	eng.HandleKey(doc, st, key('r'))
	eng.HandleKey(doc, st, key('*'))

	require.Equal(t, NormalMode, st.Mode)
	require.Equal(t, [][]string{
		{"*", "*"}, {"*", "*"}, {"e", "f"},
	}, doc.Snapshot())
}

// TestSearchThenNext is end-to-end scenario 4: "/" "e" Enter, then "n" wrapping.
func TestSearchThenNext(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('/'))
	require.Equal(t, CommandMode, st.Mode)
	eng.HandleKey(doc, st, key('e'))
	eng.HandleKey(doc, st, KeyEvent{Key: KeyEnter})

	require.Equal(t, NormalMode, st.Mode)
	require.Equal(t, GridPosition{Row: 2, Col: 0}, st.Cursor)

	// Only one match ("e" at row 2 col 0); stepping forward wraps onto itself.
	eng.HandleKey(doc, st, key('n'))
	require.Equal(t, GridPosition{Row: 2, Col: 0}, st.Cursor)
}

// TestExSubstituteWholeDocument is end-to-end scenario 5: ":%s/bar/baz/g".
func TestExSubstituteWholeDocument(t *testing.T) {
	eng, doc, st := newTestEngine()
	doc2 := NewDocument([][]string{{"foo bar", "bar"}, {"bar baz", "nope"}})

	eng.HandleKey(doc2, st, key(':'))
	require.Equal(t, CommandMode, st.Mode)
	for _, r := range "%s/bar/baz/g" {
		eng.HandleKey(doc2, st, key(r))
	}
	eng.HandleKey(doc2, st, KeyEvent{Key: KeyEnter})

	require.Equal(t, NormalMode, st.Mode)
	require.Equal(t, [][]string{
		{"foo baz", "baz"}, {"baz baz", "nope"},
	}, doc2.Snapshot())
}

// TestDotRepeatReplaysInsertedText covers the dot-repeat testable property
// for the simplest change kind: typing into a cell, then replaying it
// elsewhere with '.'.
func TestDotRepeatReplaysInsertedText(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('i'))
	eng.HandleKey(doc, st, key('Z'))
	eng.HandleKey(doc, st, keyEsc())
	require.Equal(t, "Za", doc.Snapshot()[0][0])

	eng.HandleKey(doc, st, key('l'))
	eng.HandleKey(doc, st, key('.'))
	require.Equal(t, "Za", doc.Snapshot()[0][1])
}

// TestUndoRedoRoundTripsThroughEngine exercises 'u' and Ctrl+r after an
// 'x' cell delete.
func TestUndoRedoRoundTripsThroughEngine(t *testing.T) {
	eng, doc, st := newTestEngine()
	before := doc.Snapshot()

	eng.HandleKey(doc, st, key('x'))
	require.NotEqual(t, before, doc.Snapshot())

	eng.HandleKey(doc, st, key('u'))
	require.Equal(t, before, doc.Snapshot())

	eng.HandleKey(doc, st, KeyEvent{Rune: 'r', Modifiers: ModCtrl})
	require.NotEqual(t, before, doc.Snapshot())
}

// TestCountPrefixMultipliesMotion covers the count×motion invariant for a
// simple 'j' repeat.
func TestCountPrefixMultipliesMotion(t *testing.T) {
	eng, doc, st := newTestEngine()

	eng.HandleKey(doc, st, key('2'))
	eng.HandleKey(doc, st, key('j'))

	require.Equal(t, GridPosition{Row: 2, Col: 0}, st.Cursor)
}
