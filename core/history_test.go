package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryExecuteUndoRedo(t *testing.T) {
	doc := NewDocument([][]string{{"a"}})
	h := NewHistory()

	cmd := NewEditCellCommand(GridPosition{Row: 0, Col: 0}, "b")
	require.NoError(t, h.Execute(doc, cmd))
	require.Equal(t, "b", doc.Snapshot()[0][0])
	require.True(t, h.CanUndo())
	require.False(t, h.CanRedo())

	require.NoError(t, h.Undo(doc))
	require.Equal(t, "a", doc.Snapshot()[0][0])
	require.False(t, h.CanUndo())
	require.True(t, h.CanRedo())

	require.NoError(t, h.Redo(doc))
	require.Equal(t, "b", doc.Snapshot()[0][0])
}

func TestHistoryExecuteClearsRedo(t *testing.T) {
	doc := NewDocument([][]string{{"a"}})
	h := NewHistory()

	require.NoError(t, h.Execute(doc, NewEditCellCommand(GridPosition{Row: 0, Col: 0}, "b")))
	require.NoError(t, h.Undo(doc))
	require.True(t, h.CanRedo())

	require.NoError(t, h.Execute(doc, NewEditCellCommand(GridPosition{Row: 0, Col: 0}, "c")))
	require.False(t, h.CanRedo(), "a fresh execute must clear the redo stack")
}

func TestHistoryNoOpAtStackBottom(t *testing.T) {
	doc := NewDocument([][]string{{"a"}})
	h := NewHistory()

	require.ErrorIs(t, h.Undo(doc), ErrNothingToUndo)
	require.ErrorIs(t, h.Redo(doc), ErrNothingToRedo)
}

func TestHistoryAddExecutedEnrollsWithoutRerunning(t *testing.T) {
	doc := NewDocument([][]string{{"a"}})
	h := NewHistory()

	// Simulate the view's in-cell edit commit path: the value is already
	// applied before History ever sees the command.
	require.NoError(t, doc.SetCell(GridPosition{Row: 0, Col: 0}, "b"))
	cmd := NewEditCellCommand(GridPosition{Row: 0, Col: 0}, "b")
	cmd.AddExecuted("a")
	h.AddExecuted(cmd)

	require.NoError(t, h.Undo(doc))
	require.Equal(t, "a", doc.Snapshot()[0][0])
}
