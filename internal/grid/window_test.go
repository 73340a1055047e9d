package grid

import "testing"

func TestWindower_UniformHeights(t *testing.T) {
	w := NewWindower(100, 1, 2)

	if got := w.TotalHeight(); got != 100 {
		t.Fatalf("expected total height 100, got %d", got)
	}
	if got := w.IndexAt(42); got != 42 {
		t.Fatalf("expected index 42 at position 42, got %d", got)
	}

	win := w.Range(10, 20)
	if win.Start != 8 || win.End != 32 {
		t.Fatalf("expected window [8,32) with overscan 2, got [%d,%d)", win.Start, win.End)
	}
}

func TestWindower_RangeClampsAtEdges(t *testing.T) {
	w := NewWindower(10, 1, 3)

	win := w.Range(0, 5)
	if win.Start != 0 {
		t.Fatalf("expected window start clamped to 0, got %d", win.Start)
	}
	win = w.Range(8, 5)
	if win.End != 10 {
		t.Fatalf("expected window end clamped to 10, got %d", win.End)
	}
}

func TestWindower_MeasureShiftsFollowingRows(t *testing.T) {
	w := NewWindower(10, 2, 0)

	delta := w.Measure(3, 5)
	if delta != 3 {
		t.Fatalf("expected delta 3 after growing row 3 from 2 to 5, got %d", delta)
	}
	if got := w.TotalHeight(); got != 23 {
		t.Fatalf("expected total height 23, got %d", got)
	}
	if got := w.OffsetOf(4); got != 11 {
		t.Fatalf("expected row 4 at offset 11, got %d", got)
	}
	// Rows above the measured one keep their offsets.
	if got := w.OffsetOf(3); got != 6 {
		t.Fatalf("expected row 3 at offset 6, got %d", got)
	}

	// Measuring back to the base height removes the override.
	delta = w.Measure(3, 2)
	if delta != -3 {
		t.Fatalf("expected delta -3, got %d", delta)
	}
	if got := w.TotalHeight(); got != 20 {
		t.Fatalf("expected total height 20, got %d", got)
	}
}

func TestWindower_IndexAtStraddlesVariableHeights(t *testing.T) {
	w := NewWindower(5, 1, 0)
	w.Measure(1, 4)

	// Heights: 1,4,1,1,1 -> offsets 0,1,5,6,7.
	cases := []struct{ pos, want int }{
		{0, 0}, {1, 1}, {3, 1}, {4, 1}, {5, 2}, {6, 3}, {100, 4}, {-5, 0},
	}
	for _, tc := range cases {
		if got := w.IndexAt(tc.pos); got != tc.want {
			t.Errorf("IndexAt(%d) = %d, want %d", tc.pos, got, tc.want)
		}
	}
}

func TestWindower_SetCountKeepsValidMeasurements(t *testing.T) {
	w := NewWindower(10, 1, 0)
	w.Measure(2, 3)
	w.Measure(8, 3)

	w.SetCount(5)
	// Row 2's measurement survives, row 8's is gone.
	if got := w.TotalHeight(); got != 7 {
		t.Fatalf("expected total height 7 after shrink, got %d", got)
	}

	w.SetCount(12)
	if got := w.TotalHeight(); got != 14 {
		t.Fatalf("expected total height 14 after grow, got %d", got)
	}
}

func TestWindower_ResizeKeepsEarlierInvalidation(t *testing.T) {
	w := NewWindower(3, 1, 0)
	if got := w.TotalHeight(); got != 3 {
		t.Fatalf("expected total height 3, got %d", got)
	}
	// The measurement dirties the table above the resize point; growing
	// the count must not mask it.
	w.Measure(0, 2)
	w.SetCount(5)
	if got := w.TotalHeight(); got != 6 {
		t.Fatalf("expected total height 6, got %d", got)
	}
	if got := w.OffsetOf(1); got != 2 {
		t.Fatalf("expected offset 2 for row 1, got %d", got)
	}
}

func TestWindower_SetBaseHeightDropsOverrides(t *testing.T) {
	w := NewWindower(4, 1, 0)
	w.Measure(0, 7)
	w.SetBaseHeight(3)
	if got := w.TotalHeight(); got != 12 {
		t.Fatalf("expected uniform total 12 after mode switch, got %d", got)
	}
}

func TestWindower_ClampScroll(t *testing.T) {
	w := NewWindower(10, 2, 0)
	if got := w.ClampScroll(100, 8); got != 12 {
		t.Fatalf("expected scroll clamped to 12, got %d", got)
	}
	if got := w.ClampScroll(-4, 8); got != 0 {
		t.Fatalf("expected scroll clamped to 0, got %d", got)
	}
	// Viewport taller than content pins scroll at 0.
	if got := w.ClampScroll(5, 100); got != 0 {
		t.Fatalf("expected scroll 0 for oversized viewport, got %d", got)
	}
}

func TestWindower_EmptyGrid(t *testing.T) {
	w := NewWindower(0, 1, 2)
	if got := w.TotalHeight(); got != 0 {
		t.Fatalf("expected zero height, got %d", got)
	}
	win := w.Range(0, 20)
	if win.Start != 0 || win.End != 0 {
		t.Fatalf("expected empty window, got [%d,%d)", win.Start, win.End)
	}
}
