package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// snapshotEqual is the "observationally identical" check named by spec §8:
// execute(); undo() must leave the document byte-identical to its
// pre-execute snapshot.
func snapshotEqual(t *testing.T, doc *Document, want [][]string) {
	t.Helper()
	require.Equal(t, want, doc.Snapshot())
}

func TestEditCellCommandInvertible(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}})
	before := doc.Snapshot()

	cmd := NewEditCellCommand(GridPosition{Row: 0, Col: 0}, "X")
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, "X", doc.Snapshot()[0][0])

	require.NoError(t, cmd.Undo(doc))
	snapshotEqual(t, doc, before)
}

func TestInsertDeleteRowCommandInvertible(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}})
	before := doc.Snapshot()

	ins := &InsertRowCommand{Index: 1}
	require.NoError(t, ins.Execute(doc))
	require.Equal(t, 3, doc.RowCount())
	require.NoError(t, ins.Undo(doc))
	snapshotEqual(t, doc, before)

	del := &DeleteRowCommand{Index: 0}
	require.NoError(t, del.Execute(doc))
	require.Equal(t, 1, doc.RowCount())
	require.NoError(t, del.Undo(doc))
	snapshotEqual(t, doc, before)
}

func TestInsertDeleteColumnCommandInvertible(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}})
	before := doc.Snapshot()

	ins := &InsertColumnCommand{Index: 1}
	require.NoError(t, ins.Execute(doc))
	require.Equal(t, 3, doc.ColumnCount())
	require.NoError(t, ins.Undo(doc))
	snapshotEqual(t, doc, before)

	del := &DeleteColumnCommand{Index: 0}
	require.NoError(t, del.Execute(doc))
	require.Equal(t, 1, doc.ColumnCount())
	require.NoError(t, del.Undo(doc))
	snapshotEqual(t, doc, before)
}

func TestBulkEditCellsCommandInvertible(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}})
	before := doc.Snapshot()

	cmd := NewBulkEditCellsCommand(map[GridPosition]string{
		{Row: 0, Col: 0}: "X",
		{Row: 1, Col: 1}: "Y",
	})
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, "X", doc.Snapshot()[0][0])
	require.Equal(t, "Y", doc.Snapshot()[1][1])
	require.NoError(t, cmd.Undo(doc))
	snapshotEqual(t, doc, before)
}

func TestDeleteSelectionCommandInvertible(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}})
	before := doc.Snapshot()

	rng := SelectionRange{Type: SelectionBlock, Start: GridPosition{Row: 0, Col: 0}, End: GridPosition{Row: 1, Col: 1}}
	cmd := &DeleteSelectionCommand{Range: rng}
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, [][]string{{"", ""}, {"", ""}}, doc.Snapshot())
	require.NoError(t, cmd.Undo(doc))
	snapshotEqual(t, doc, before)
}

func TestPasteOverSelectionCommandTilesAndInverts(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}})
	before := doc.Snapshot()

	rng := SelectionRange{Type: SelectionBlock, Start: GridPosition{Row: 0, Col: 0}, End: GridPosition{Row: 1, Col: 1}}
	yank := YankedContent{Rows: [][]string{{"*"}}, SourceType: SelectionBlock}
	cmd := &PasteOverSelectionCommand{Range: rng, Yank: yank}
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, [][]string{{"*", "*"}, {"*", "*"}}, doc.Snapshot())
	require.NoError(t, cmd.Undo(doc))
	snapshotEqual(t, doc, before)
}

// TestPasteCommandGrowsAndInvertsShrinks is the spec's "pasting a rectangle
// wider than the document" edge case: the document grows via EnsureSize and
// undo shrinks back to the captured prior extents.
func TestPasteCommandGrowsAndInvertsShrinks(t *testing.T) {
	doc := NewDocument([][]string{{"a"}})
	before := doc.Snapshot()

	yank := YankedContent{Rows: [][]string{{"x", "y", "z"}}, SourceType: SelectionCharacter}
	cmd := &PasteCommand{Pos: GridPosition{Row: 0, Col: 0}, Yank: yank, Before: true}
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, 3, doc.ColumnCount())
	require.Equal(t, []string{"x", "y", "z"}, doc.Snapshot()[0])

	require.NoError(t, cmd.Undo(doc))
	snapshotEqual(t, doc, before)
	require.Equal(t, 1, doc.ColumnCount())
}

// TestPasteCommandLineInsertsWholeRows covers the yank-line / paste-below
// scenario from spec §8 at the command level (Engine-level coverage lives
// in engine_test.go).
func TestPasteCommandLineInsertsWholeRows(t *testing.T) {
	doc := NewDocument([][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}})
	yank := YankedContent{Rows: [][]string{{"a", "b"}}, SourceType: SelectionLine}
	cmd := &PasteCommand{Pos: GridPosition{Row: 1, Col: 0}, Yank: yank, Before: false}
	require.NoError(t, cmd.Execute(doc))
	require.Equal(t, [][]string{
		{"a", "b"}, {"c", "d"}, {"a", "b"}, {"e", "f"},
	}, doc.Snapshot())

	require.NoError(t, cmd.Undo(doc))
	require.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}}, doc.Snapshot())
}
