package core

import (
	"regexp"
	"sort"
	"strings"
)

// DelimiterFormat names the on-disk field separator a Document was parsed
// with (or will be serialized with).
type DelimiterFormat int

const (
	DelimiterAuto DelimiterFormat = iota
	DelimiterTab
	DelimiterComma
)

func (d DelimiterFormat) rune() rune {
	if d == DelimiterComma {
		return ','
	}
	return '\t'
}

// Cell holds one grid value plus view-derived projection flags. The flags
// are recomputed by Document.RefreshSearchFlags / RefreshSelection; they
// are never authoritative state on their own.
type Cell struct {
	Value                string
	IsSelected           bool
	IsSearchMatch        bool
	IsCurrentSearchMatch bool
}

// Row is a dense, ordered sequence of Cells.
type Row []Cell

// Document is a mutable grid of rows and cells. It has no reference back to
// any VimState, mode, or view; everything reentrant lives one layer up.
type Document struct {
	rows       []Row
	FilePath   string
	HasPath    bool
	Dirty      bool
	Delimiter  DelimiterFormat
	ParseWarn  bool // set by Codec when a malformed quoting sequence was accepted verbatim

	selectedCells map[GridPosition]bool // delta-tracked projection written by RefreshSelection
	matches       []GridPosition
	currentMatch  int // index into matches, -1 if none
}

// NewDocument builds a Document from already-split rows (used by the codec
// and by tests). Rows are padded to a dense rectangle.
func NewDocument(rows [][]string) *Document {
	d := &Document{currentMatch: -1, selectedCells: map[GridPosition]bool{}}
	d.rows = make([]Row, len(rows))
	for i, r := range rows {
		row := make(Row, len(r))
		for j, v := range r {
			row[j] = Cell{Value: v}
		}
		d.rows[i] = row
	}
	d.normalizeColumnCount()
	return d
}

// CreateEmpty returns a Document of the given extents, every cell "".
func CreateEmpty(rows, cols int) *Document {
	d := &Document{currentMatch: -1, selectedCells: map[GridPosition]bool{}}
	d.EnsureSize(rows, cols)
	return d
}

// RowCount returns the number of rows.
func (d *Document) RowCount() int { return len(d.rows) }

// ColumnCount returns the maximum cell count across all rows.
func (d *Document) ColumnCount() int {
	max := 0
	for _, r := range d.rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// GetCell returns the value at pos and whether pos was in bounds.
func (d *Document) GetCell(pos GridPosition) (Cell, bool) {
	if pos.Row < 0 || pos.Row >= len(d.rows) {
		return Cell{}, false
	}
	row := d.rows[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return Cell{}, false
	}
	return row[pos.Col], true
}

// SetCell stores value at pos, marking the document dirty. Returns
// ErrOutOfBounds if pos does not address an existing cell.
func (d *Document) SetCell(pos GridPosition, value string) error {
	if pos.Row < 0 || pos.Row >= len(d.rows) {
		return ErrOutOfBounds
	}
	row := d.rows[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return ErrOutOfBounds
	}
	row[pos.Col].Value = value
	d.Dirty = true
	return nil
}

// InsertRow inserts a blank row (width = ColumnCount) at index, or restores
// a previously captured row when restored is non-nil. index == RowCount
// appends.
func (d *Document) InsertRow(index int, restored Row) error {
	if index < 0 || index > len(d.rows) {
		return ErrOutOfBounds
	}
	width := d.ColumnCount()
	var row Row
	if restored != nil {
		row = append(Row(nil), restored...)
	} else {
		row = make(Row, width)
	}
	d.rows = append(d.rows, Row{})
	copy(d.rows[index+1:], d.rows[index:])
	d.rows[index] = row
	d.Dirty = true
	return nil
}

// DeleteRow removes the row at index, returning its prior content so the
// inverse command can restore it. Deleting the only row leaves a
// zero-row Document.
func (d *Document) DeleteRow(index int) (Row, error) {
	if index < 0 || index >= len(d.rows) {
		return nil, ErrOutOfBounds
	}
	removed := append(Row(nil), d.rows[index]...)
	d.rows = append(d.rows[:index], d.rows[index+1:]...)
	d.Dirty = true
	return removed, nil
}

// InsertColumn inserts a blank column at index across every row, or
// restores previously captured values when restored is non-nil (keyed by
// row index).
func (d *Document) InsertColumn(index int, restored map[int]string) error {
	cols := d.ColumnCount()
	if index < 0 || index > cols {
		return ErrOutOfBounds
	}
	for i := range d.rows {
		row := d.rows[i]
		for len(row) < index {
			row = append(row, Cell{})
		}
		val := ""
		if restored != nil {
			val = restored[i]
		}
		row = append(row, Cell{})
		copy(row[index+1:], row[index:])
		row[index] = Cell{Value: val}
		d.rows[i] = row
	}
	d.Dirty = true
	return nil
}

// DeleteColumn removes the column at index from every row, returning the
// removed values keyed by row index.
func (d *Document) DeleteColumn(index int) (map[int]string, error) {
	cols := d.ColumnCount()
	if index < 0 || index >= cols {
		return nil, ErrOutOfBounds
	}
	removed := make(map[int]string, len(d.rows))
	for i := range d.rows {
		row := d.rows[i]
		if index >= len(row) {
			continue
		}
		removed[i] = row[index].Value
		d.rows[i] = append(row[:index], row[index+1:]...)
	}
	d.Dirty = true
	return removed, nil
}

// EnsureSize grows the document (never shrinks) so it has at least rows
// rows and cols columns, padding with empty cells.
func (d *Document) EnsureSize(rows, cols int) {
	for len(d.rows) < rows {
		d.rows = append(d.rows, make(Row, 0))
	}
	for i := range d.rows {
		for len(d.rows[i]) < cols {
			d.rows[i] = append(d.rows[i], Cell{})
		}
	}
	d.normalizeColumnCount()
}

// normalizeColumnCount pads every row out to the document's widest row so
// the grid stays dense, per the Document invariant.
func (d *Document) normalizeColumnCount() {
	width := d.ColumnCount()
	for i := range d.rows {
		for len(d.rows[i]) < width {
			d.rows[i] = append(d.rows[i], Cell{})
		}
	}
}

// NormalizeColumnCount is the exported form of the Document invariant
// repair pass, callable after bulk mutation.
func (d *Document) NormalizeColumnCount() { d.normalizeColumnCount() }

// SortByColumn stably sorts rows by the string value of column index,
// ascending or descending. Empty cells sort as "".
func (d *Document) SortByColumn(index int, ascending bool) error {
	if index < 0 || index >= d.ColumnCount() {
		return ErrOutOfBounds
	}
	valueAt := func(r Row) string {
		if index >= len(r) {
			return ""
		}
		return r[index].Value
	}
	sort.SliceStable(d.rows, func(i, j int) bool {
		a, b := valueAt(d.rows[i]), valueAt(d.rows[j])
		if ascending {
			return a < b
		}
		return a > b
	})
	d.Dirty = true
	return nil
}

// FindMatches returns every position whose cell value matches pattern, in
// row-major order. A bad regex (when isRegex is set) returns ErrBadPattern
// and an empty slice, per the spec's BadPattern recovery rule.
func (d *Document) FindMatches(pattern string, isRegex, caseSensitive bool) ([]GridPosition, error) {
	var matcher func(string) bool
	if isRegex {
		expr := pattern
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, ErrBadPattern
		}
		matcher = re.MatchString
	} else {
		needle := pattern
		matcher = func(v string) bool {
			if !caseSensitive {
				return strings.Contains(strings.ToLower(v), strings.ToLower(needle))
			}
			return strings.Contains(v, needle)
		}
	}

	var out []GridPosition
	for r, row := range d.rows {
		for c, cell := range row {
			if matcher(cell.Value) {
				out = append(out, GridPosition{Row: r, Col: c})
			}
		}
	}
	return out, nil
}

// Snapshot returns the rows as a plain [][]string, used by the codec and by
// tests asserting document equality.
func (d *Document) Snapshot() [][]string {
	out := make([][]string, len(d.rows))
	for i, r := range d.rows {
		row := make([]string, len(r))
		for j, c := range r {
			row[j] = c.Value
		}
		out[i] = row
	}
	return out
}

// RefreshSearchFlags recomputes is_search_match / is_current_search_match
// across the document from a match list and current index, clearing flags
// on cells no longer in the set instead of scanning the whole grid twice.
func (d *Document) RefreshSearchFlags(matches []GridPosition, current int) {
	for _, pos := range d.matches {
		if cell, ok := d.GetCell(pos); ok {
			cell.IsSearchMatch = false
			cell.IsCurrentSearchMatch = false
			d.rows[pos.Row][pos.Col] = cell
		}
	}
	d.matches = matches
	d.currentMatch = current
	for i, pos := range matches {
		cell, ok := d.GetCell(pos)
		if !ok {
			continue
		}
		cell.IsSearchMatch = true
		cell.IsCurrentSearchMatch = i == current
		d.rows[pos.Row][pos.Col] = cell
	}
}

// RefreshSelection recomputes is_selected across the document from a visual
// range plus selected row/column sets, touching only cells whose flag
// actually changes (the tracking set named in the spec's design notes).
func (d *Document) RefreshSelection(rng *SelectionRange, selectedRows, selectedCols map[int]bool) {
	next := map[GridPosition]bool{}
	cols := d.ColumnCount()
	for r, row := range d.rows {
		for c := range row {
			selected := selectedRows[r] || selectedCols[c]
			if !selected && rng != nil {
				selected = rng.Contains(r, c, cols)
			}
			if selected {
				next[GridPosition{Row: r, Col: c}] = true
			}
		}
	}
	for pos := range d.selectedCells {
		if !next[pos] {
			if cell, ok := d.GetCell(pos); ok {
				cell.IsSelected = false
				d.rows[pos.Row][pos.Col] = cell
			}
		}
	}
	for pos := range next {
		if !d.selectedCells[pos] {
			if cell, ok := d.GetCell(pos); ok {
				cell.IsSelected = true
				d.rows[pos.Row][pos.Col] = cell
			}
		}
	}
	d.selectedCells = next
}
