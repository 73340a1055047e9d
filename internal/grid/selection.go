package grid

// Cell is a grid coordinate: a row index into the current visible row
// order plus a column id. Coordinates are derived state; across a data
// refresh the row index must be re-resolved from the row id.
type Cell struct {
	Row      int
	ColumnID string
}

// Rect is a normalized rectangular cell selection in (row, column-index)
// space. Both bounds are inclusive.
type Rect struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// NormalizeRect builds the rectangle spanned by an anchor and a focus
// corner, in either direction.
func NormalizeRect(anchorRow, anchorCol, focusRow, focusCol int) Rect {
	r := Rect{
		MinRow: anchorRow, MaxRow: focusRow,
		MinCol: anchorCol, MaxCol: focusCol,
	}
	if r.MinRow > r.MaxRow {
		r.MinRow, r.MaxRow = r.MaxRow, r.MinRow
	}
	if r.MinCol > r.MaxCol {
		r.MinCol, r.MaxCol = r.MaxCol, r.MinCol
	}
	return r
}

// Contains reports whether the rectangle covers the given coordinate.
func (r Rect) Contains(row, col int) bool {
	return row >= r.MinRow && row <= r.MaxRow && col >= r.MinCol && col <= r.MaxCol
}

// Rows returns the number of rows the rectangle spans.
func (r Rect) Rows() int {
	return r.MaxRow - r.MinRow + 1
}

// Cols returns the number of columns the rectangle spans.
func (r Rect) Cols() int {
	return r.MaxCol - r.MinCol + 1
}
