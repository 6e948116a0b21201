package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridPositionClamp(t *testing.T) {
	p := GridPosition{Row: -1, Col: 10}
	require.Equal(t, GridPosition{Row: 0, Col: 4}, p.Clamp(5, 5))

	require.Equal(t, GridPosition{Row: 0, Col: 0}, GridPosition{Row: 2, Col: 2}.Clamp(0, 0))
}

func TestGridPositionValid(t *testing.T) {
	require.True(t, GridPosition{Row: 0, Col: 0}.Valid(3, 3))
	require.False(t, GridPosition{Row: 3, Col: 0}.Valid(3, 3))
	require.False(t, GridPosition{Row: 0, Col: -1}.Valid(3, 3))
}

func TestSelectionRangeNormalizesRegardlessOfDirection(t *testing.T) {
	r := SelectionRange{Type: SelectionBlock, Start: GridPosition{Row: 3, Col: 3}, End: GridPosition{Row: 1, Col: 1}}
	require.Equal(t, 1, r.StartRow())
	require.Equal(t, 3, r.EndRow())
	require.Equal(t, 1, r.StartColumn())
	require.Equal(t, 3, r.EndColumn())
	require.Equal(t, 3, r.RowCount())
	require.Equal(t, 3, r.ColumnCount())
}

func TestSelectionRangeLineSpansAllColumns(t *testing.T) {
	r := SelectionRange{Type: SelectionLine, Start: GridPosition{Row: 0, Col: 5}, End: GridPosition{Row: 2, Col: 0}}
	require.True(t, r.Contains(1, 0, 10))
	require.True(t, r.Contains(1, 9, 10))
	require.False(t, r.Contains(3, 0, 10))
}

func TestSelectionRangeBlockIsCartesianProduct(t *testing.T) {
	r := SelectionRange{Type: SelectionBlock, Start: GridPosition{Row: 0, Col: 2}, End: GridPosition{Row: 2, Col: 0}}
	require.True(t, r.Contains(1, 1, 10))
	require.False(t, r.Contains(1, 5, 10))
}

func TestSelectionRangeCharacterMultiRowWrapsAtLineEnds(t *testing.T) {
	r := SelectionRange{Type: SelectionCharacter, Start: GridPosition{Row: 0, Col: 3}, End: GridPosition{Row: 2, Col: 1}}
	require.True(t, r.Contains(0, 5, 10))  // after the anchor on the first row
	require.False(t, r.Contains(0, 1, 10)) // before the anchor on the first row
	require.True(t, r.Contains(1, 0, 10))  // a fully-covered middle row
	require.True(t, r.Contains(2, 0, 10))  // up to the head on the last row
	require.False(t, r.Contains(2, 5, 10)) // past the head on the last row
}
