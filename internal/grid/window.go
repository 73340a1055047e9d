package grid

import "sort"

// RowHeightMode is the user-selectable row density. Heights are in
// terminal lines.
type RowHeightMode string

const (
	RowHeightShort     RowHeightMode = "short"
	RowHeightMedium    RowHeightMode = "medium"
	RowHeightTall      RowHeightMode = "tall"
	RowHeightExtraTall RowHeightMode = "extra-tall"
)

// RowHeightModes lists the selectable modes in menu order.
var RowHeightModes = []RowHeightMode{
	RowHeightShort, RowHeightMedium, RowHeightTall, RowHeightExtraTall,
}

// Lines returns the fixed row height of a mode.
func (m RowHeightMode) Lines() int {
	switch m {
	case RowHeightMedium:
		return 2
	case RowHeightTall:
		return 3
	case RowHeightExtraTall:
		return 4
	default:
		return 1
	}
}

// Window is the contiguous index range of rows that must be mounted,
// inclusive of Start, exclusive of End.
type Window struct {
	Start int
	End   int
}

// Windower maps a scroll offset and per-row heights onto the row window
// that must be rendered. It keeps a cumulative offset table so range
// queries are a binary search (O(log n)) instead of an O(n) re-scan per
// scroll event; the table suffix is rebuilt lazily after height changes.
type Windower struct {
	count     int
	base      int
	overscan  int
	overrides map[int]int // measured heights differing from base

	// offsets[i] is the top of row i; offsets[count] is the total height.
	offsets   []int
	dirtyFrom int // first index whose offset is stale; count+1 when clean
}

// NewWindower creates a windower over count rows with the given base row
// height and overscan.
func NewWindower(count, baseHeight, overscan int) *Windower {
	if baseHeight < 1 {
		baseHeight = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	w := &Windower{
		count:     count,
		base:      baseHeight,
		overscan:  overscan,
		overrides: make(map[int]int),
	}
	w.invalidateFrom(0)
	return w
}

// SetCount updates the total row count, keeping measurements for rows
// that still exist.
func (w *Windower) SetCount(count int) {
	if count == w.count {
		return
	}
	for i := range w.overrides {
		if i >= count {
			delete(w.overrides, i)
		}
	}
	from := w.count
	if count < from {
		from = count
	}
	w.count = count
	w.invalidateFrom(from)
}

// Count returns the current row count.
func (w *Windower) Count() int {
	return w.count
}

// SetBaseHeight switches the uniform row height (row-height-mode change)
// and drops per-row measurements, which were relative to the old mode.
func (w *Windower) SetBaseHeight(h int) {
	if h < 1 {
		h = 1
	}
	if h == w.base && len(w.overrides) == 0 {
		return
	}
	w.base = h
	w.overrides = make(map[int]int)
	w.invalidateFrom(0)
}

// Measure records the actual rendered height of a mounted row. It
// returns the height delta so the caller can correct the scroll offset
// when the measured row sits above the viewport, keeping rows already
// scrolled past visually stable.
func (w *Windower) Measure(index, height int) int {
	if index < 0 || index >= w.count || height < 1 {
		return 0
	}
	prev := w.heightOf(index)
	if height == prev {
		return 0
	}
	if height == w.base {
		delete(w.overrides, index)
	} else {
		w.overrides[index] = height
	}
	w.invalidateFrom(index + 1)
	return height - prev
}

func (w *Windower) heightOf(index int) int {
	if h, ok := w.overrides[index]; ok {
		return h
	}
	return w.base
}

func (w *Windower) invalidateFrom(index int) {
	if len(w.offsets) != w.count+1 {
		old := w.offsets
		w.offsets = make([]int, w.count+1)
		copy(w.offsets, old)
	}
	// The dirty mark only ever moves up the table; a resize must not
	// mask an earlier invalidation above the resize point.
	if index < w.dirtyFrom {
		w.dirtyFrom = index
	}
}

// rebuild brings the offset table up to date. Amortized: each height
// change only recomputes the suffix below it, once, on next query.
func (w *Windower) rebuild() {
	if w.dirtyFrom > w.count {
		return
	}
	start := w.dirtyFrom
	if start < 1 {
		w.offsets[0] = 0
		start = 1
	}
	for i := start; i <= w.count; i++ {
		w.offsets[i] = w.offsets[i-1] + w.heightOf(i-1)
	}
	w.dirtyFrom = w.count + 1
}

// TotalHeight is the full scrollable height in lines.
func (w *Windower) TotalHeight() int {
	w.rebuild()
	return w.offsets[w.count]
}

// OffsetOf returns the top position of a row.
func (w *Windower) OffsetOf(index int) int {
	if index < 0 {
		return 0
	}
	if index > w.count {
		index = w.count
	}
	w.rebuild()
	return w.offsets[index]
}

// IndexAt returns the row covering a vertical position, clamped to the
// valid range. Binary search over the offset table.
func (w *Windower) IndexAt(pos int) int {
	if w.count == 0 {
		return 0
	}
	w.rebuild()
	if pos <= 0 {
		return 0
	}
	if pos >= w.offsets[w.count] {
		return w.count - 1
	}
	// First row whose bottom edge is past pos.
	return sort.Search(w.count, func(i int) bool {
		return w.offsets[i+1] > pos
	})
}

// Range computes the window of rows to mount for a viewport, including
// overscan rows above and below, clamped at the grid edges.
func (w *Windower) Range(scrollOffset, viewportHeight int) Window {
	if w.count == 0 || viewportHeight <= 0 {
		return Window{}
	}
	start := w.IndexAt(scrollOffset) - w.overscan
	if start < 0 {
		start = 0
	}
	end := w.IndexAt(scrollOffset+viewportHeight-1) + 1 + w.overscan
	if end > w.count {
		end = w.count
	}
	return Window{Start: start, End: end}
}

// ClampScroll bounds a scroll offset to the scrollable range for the
// given viewport height.
func (w *Windower) ClampScroll(scrollOffset, viewportHeight int) int {
	maxScroll := w.TotalHeight() - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollOffset > maxScroll {
		scrollOffset = maxScroll
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	return scrollOffset
}
