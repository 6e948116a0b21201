package core

// Command is an invertible mutation on a Document. Execute and Undo must
// round-trip: execute(); undo() leaves the document observationally
// identical to its pre-execute state. Implementations capture whatever
// prior state they need lazily, on first Execute, rather than up front.
type Command interface {
	Execute(doc *Document) error
	Undo(doc *Document) error
}

// EditCellCommand sets a single cell's value.
type EditCellCommand struct {
	Pos      GridPosition
	NewValue string

	oldValue  string
	captured  bool
}

func NewEditCellCommand(pos GridPosition, newValue string) *EditCellCommand {
	return &EditCellCommand{Pos: pos, NewValue: newValue}
}

func (c *EditCellCommand) Execute(doc *Document) error {
	if !c.captured {
		cell, _ := doc.GetCell(c.Pos)
		c.oldValue = cell.Value
		c.captured = true
	}
	return doc.SetCell(c.Pos, c.NewValue)
}

func (c *EditCellCommand) Undo(doc *Document) error {
	return doc.SetCell(c.Pos, c.oldValue)
}

// AddExecuted wraps an edit that the view already applied via its own
// commit path (a TextBox-like in-cell edit surface), so History can enroll
// it without re-running Execute. oldValue is the pre-image the view
// captured before the commit.
func (c *EditCellCommand) AddExecuted(oldValue string) {
	c.oldValue = oldValue
	c.captured = true
}

// BulkEditCellsCommand applies one value (or per-cell values) to many cells
// at once, used for visual-range change operators and pending bulk-edit
// ranges left behind by Insert mode.
type BulkEditCellsCommand struct {
	NewValues map[GridPosition]string

	oldValues map[GridPosition]string
	captured  bool
}

func NewBulkEditCellsCommand(newValues map[GridPosition]string) *BulkEditCellsCommand {
	return &BulkEditCellsCommand{NewValues: newValues}
}

func (c *BulkEditCellsCommand) Execute(doc *Document) error {
	if !c.captured {
		c.oldValues = make(map[GridPosition]string, len(c.NewValues))
		for pos := range c.NewValues {
			cell, _ := doc.GetCell(pos)
			c.oldValues[pos] = cell.Value
		}
		c.captured = true
	}
	for pos, v := range c.NewValues {
		if err := doc.SetCell(pos, v); err != nil {
			return err
		}
	}
	return nil
}

func (c *BulkEditCellsCommand) Undo(doc *Document) error {
	for pos, v := range c.oldValues {
		if err := doc.SetCell(pos, v); err != nil {
			return err
		}
	}
	return nil
}

// InsertRowCommand inserts a blank row at Index; undo deletes it.
type InsertRowCommand struct {
	Index int
}

func (c *InsertRowCommand) Execute(doc *Document) error { return doc.InsertRow(c.Index, nil) }
func (c *InsertRowCommand) Undo(doc *Document) error {
	_, err := doc.DeleteRow(c.Index)
	return err
}

// DeleteRowCommand removes the row at Index, capturing its content on
// first execution so undo can restore it exactly.
type DeleteRowCommand struct {
	Index int

	restored Row
	captured bool
}

func (c *DeleteRowCommand) Execute(doc *Document) error {
	removed, err := doc.DeleteRow(c.Index)
	if err != nil {
		return err
	}
	if !c.captured {
		c.restored = removed
		c.captured = true
	}
	return nil
}

func (c *DeleteRowCommand) Undo(doc *Document) error {
	return doc.InsertRow(c.Index, c.restored)
}

// InsertColumnCommand inserts a blank column at Index; undo deletes it.
type InsertColumnCommand struct {
	Index int
}

func (c *InsertColumnCommand) Execute(doc *Document) error { return doc.InsertColumn(c.Index, nil) }
func (c *InsertColumnCommand) Undo(doc *Document) error {
	_, err := doc.DeleteColumn(c.Index)
	return err
}

// DeleteColumnCommand removes the column at Index, capturing its values.
type DeleteColumnCommand struct {
	Index int

	restored map[int]string
	captured bool
}

func (c *DeleteColumnCommand) Execute(doc *Document) error {
	removed, err := doc.DeleteColumn(c.Index)
	if err != nil {
		return err
	}
	if !c.captured {
		c.restored = removed
		c.captured = true
	}
	return nil
}

func (c *DeleteColumnCommand) Undo(doc *Document) error {
	return doc.InsertColumn(c.Index, c.restored)
}

// PasteCommand inserts yanked content at Pos, before or after the cursor
// cell depending on Before. If the paste region exceeds current bounds the
// document grows via EnsureSize; the grown extents are captured so Undo can
// shrink back and the overwritten region can be restored.
type PasteCommand struct {
	Pos    GridPosition
	Yank   YankedContent
	Before bool

	overwritten  map[GridPosition]string
	priorRowCnt  int
	priorColCnt  int
	captured     bool
}

func (c *PasteCommand) targetOrigin() GridPosition {
	if c.Yank.SourceType == SelectionLine {
		row := c.Pos.Row
		if !c.Before {
			row++
		}
		return GridPosition{Row: row, Col: 0}
	}
	col := c.Pos.Col
	if !c.Before && c.Yank.SourceType != SelectionLine {
		// character/block paste inserts to the right of the cursor on 'p'
		col++
	}
	return GridPosition{Row: c.Pos.Row, Col: col}
}

func (c *PasteCommand) Execute(doc *Document) error {
	if !c.captured {
		c.priorRowCnt = doc.RowCount()
		c.priorColCnt = doc.ColumnCount()
		c.overwritten = map[GridPosition]string{}
		c.captured = true
	}

	if c.Yank.SourceType == SelectionLine {
		origin := c.targetOrigin()
		for i, row := range c.Yank.Rows {
			_ = doc.InsertRow(origin.Row+i, toRow(row))
		}
		return nil
	}

	origin := c.targetOrigin()
	needRows := origin.Row + c.Yank.rowCount()
	needCols := origin.Col + c.Yank.colCount()
	doc.EnsureSize(needRows, needCols)

	for r, row := range c.Yank.Rows {
		for cidx, v := range row {
			pos := GridPosition{Row: origin.Row + r, Col: origin.Col + cidx}
			if _, seen := c.overwritten[pos]; !seen {
				cell, _ := doc.GetCell(pos)
				c.overwritten[pos] = cell.Value
			}
			_ = doc.SetCell(pos, v)
		}
	}
	return nil
}

func (c *PasteCommand) Undo(doc *Document) error {
	if c.Yank.SourceType == SelectionLine {
		origin := c.targetOrigin()
		for range c.Yank.Rows {
			if _, err := doc.DeleteRow(origin.Row); err != nil {
				return err
			}
		}
		return nil
	}
	for pos, v := range c.overwritten {
		_ = doc.SetCell(pos, v)
	}
	shrinkToPrior(doc, c.priorRowCnt, c.priorColCnt)
	return nil
}

func toRow(vals []string) Row {
	row := make(Row, len(vals))
	for i, v := range vals {
		row[i] = Cell{Value: v}
	}
	return row
}

// shrinkToPrior trims rows/columns a paste grew past, used by undo paths
// that record the document's extents before the paste ran.
func shrinkToPrior(doc *Document, priorRows, priorCols int) {
	if doc.RowCount() > priorRows {
		doc.rows = doc.rows[:priorRows]
	}
	if doc.ColumnCount() > priorCols {
		for i := range doc.rows {
			if len(doc.rows[i]) > priorCols {
				doc.rows[i] = doc.rows[i][:priorCols]
			}
		}
	}
}

// PasteOverSelectionCommand overwrites every cell in Range with the yanked
// content, tiling it if the yank is smaller than the range.
type PasteOverSelectionCommand struct {
	Range SelectionRange
	Yank  YankedContent

	overwritten map[GridPosition]string
	captured    bool
}

func (c *PasteOverSelectionCommand) Execute(doc *Document) error {
	if !c.captured {
		c.overwritten = map[GridPosition]string{}
		c.captured = true
	}
	sr, er := c.Range.StartRow(), c.Range.EndRow()
	sc, ec := rangeColumnBounds(c.Range, doc)
	yRows, yCols := c.Yank.rowCount(), c.Yank.colCount()
	if yRows == 0 || yCols == 0 {
		return nil
	}
	for r := sr; r <= er; r++ {
		for col := sc; col <= ec; col++ {
			pos := GridPosition{Row: r, Col: col}
			cell, ok := doc.GetCell(pos)
			if !ok {
				continue
			}
			if _, seen := c.overwritten[pos]; !seen {
				c.overwritten[pos] = cell.Value
			}
			v := c.Yank.Rows[(r-sr)%yRows][(col-sc)%yCols]
			_ = doc.SetCell(pos, v)
		}
	}
	return nil
}

func (c *PasteOverSelectionCommand) Undo(doc *Document) error {
	for pos, v := range c.overwritten {
		_ = doc.SetCell(pos, v)
	}
	return nil
}

// DeleteSelectionCommand blanks every cell in Range, capturing prior values.
type DeleteSelectionCommand struct {
	Range SelectionRange

	overwritten map[GridPosition]string
	captured    bool
}

func (c *DeleteSelectionCommand) Execute(doc *Document) error {
	if !c.captured {
		c.overwritten = map[GridPosition]string{}
		c.captured = true
	}
	sr, er := c.Range.StartRow(), c.Range.EndRow()
	sc, ec := rangeColumnBounds(c.Range, doc)
	for r := sr; r <= er; r++ {
		for col := sc; col <= ec; col++ {
			pos := GridPosition{Row: r, Col: col}
			cell, ok := doc.GetCell(pos)
			if !ok {
				continue
			}
			if _, seen := c.overwritten[pos]; !seen {
				c.overwritten[pos] = cell.Value
			}
			_ = doc.SetCell(pos, "")
		}
	}
	return nil
}

func (c *DeleteSelectionCommand) Undo(doc *Document) error {
	for pos, v := range c.overwritten {
		_ = doc.SetCell(pos, v)
	}
	return nil
}

// rangeColumnBounds returns a range's column span, widened to the full
// document width for a SelectionLine range (whose Start/End columns are
// just the cursor's column, not the row's extent) — the same widening
// captureYank applies so a whole-row yank and a whole-row delete/overwrite
// act on the same cells.
func rangeColumnBounds(rng SelectionRange, doc *Document) (int, int) {
	if rng.Type == SelectionLine {
		return 0, doc.ColumnCount() - 1
	}
	return rng.StartColumn(), rng.EndColumn()
}
