package layout

import (
	"image"
	"reflect"
	"testing"
)

func drain(b *Board) []Drawable {
	b.Reset()
	var out []Drawable
	for !b.Drawn() {
		out = append(out, b.Next())
	}
	return out
}

func TestBoardDrainCountAndOrder(t *testing.T) {
	b := NewBoard(1000, 715)
	got := drain(b)
	if len(got) != RectangleCount+LabelCount || len(got) != 52 {
		t.Fatalf("drained %d drawables, want %d", len(got), RectangleCount+LabelCount)
	}
	if b.Len() != len(got) {
		t.Fatalf("Len()=%d, drained %d", b.Len(), len(got))
	}
	for i, d := range got {
		var want Kind
		switch {
		case i < FrameCount:
			want = KindFrame
		case i < RectangleCount:
			want = KindCell
		default:
			want = KindLabel
		}
		if d.Kind != want {
			t.Fatalf("drawable %d is %v, want %v", i, d.Kind, want)
		}
	}
	for i := 1; i < FrameCount; i++ {
		if got[i].Rect.W >= got[i-1].Rect.W {
			t.Fatalf("frames not ordered largest to smallest at %d", i)
		}
	}
}

func TestBoardDrainIsDeterministic(t *testing.T) {
	b := NewBoard(1000, 715)
	first := drain(b)
	for i := 0; i < 3; i++ {
		if again := drain(b); !reflect.DeepEqual(first, again) {
			t.Fatalf("cycle %d produced a different sequence", i)
		}
	}
}

func TestNextPastCompletionIsIdempotent(t *testing.T) {
	b := NewBoard(1000, 715)
	seq := drain(b)
	last := seq[len(seq)-1]
	for i := 0; i < 5; i++ {
		if d := b.Next(); d != last {
			t.Fatalf("call %d after completion returned %+v", i, d)
		}
		if !b.Drawn() {
			t.Fatalf("board no longer drawn after extra Next")
		}
	}
	b.Reset()
	if b.Drawn() {
		t.Fatalf("Reset did not clear the drawn flag")
	}
	if d := b.Next(); d != seq[0] {
		t.Fatalf("Reset did not rewind the cursor")
	}
}

func TestFramesAreCentered(t *testing.T) {
	b := NewBoard(1000, 715)
	seq := drain(b)
	for _, d := range seq[:FrameCount] {
		cx := d.Rect.X + d.Rect.W/2
		cy := d.Rect.Y + d.Rect.H/2
		if cx != 500 || cy != 357.5 {
			t.Fatalf("frame %v centered at (%v,%v)", d.Rect.W, cx, cy)
		}
	}
	x0, y0 := b.Origin()
	if seq[FrameCount-1].Rect != Square(x0, y0, BoardSide) {
		t.Fatalf("board square %+v does not start at origin (%v,%v)", seq[FrameCount-1].Rect, x0, y0)
	}
}

func TestDarkCellsFormCheckerboard(t *testing.T) {
	b := NewBoard(1000, 715)
	seq := drain(b)
	seen := map[[2]int]bool{}
	for _, d := range seq[FrameCount:RectangleCount] {
		col := int((d.Rect.X - b.X(0)) / CellSize)
		row := int((d.Rect.Y - b.Y(0)) / CellSize)
		if d.Rect.X != b.X(col) || d.Rect.Y != b.Y(row) {
			t.Fatalf("cell %+v not aligned to the grid", d.Rect)
		}
		if col < 0 || col >= Cols || row < 0 || row >= Rows {
			t.Fatalf("cell %+v outside the board", d.Rect)
		}
		if (row+col)%2 != 1 {
			t.Fatalf("cell at row %d col %d should be light", row, col)
		}
		key := [2]int{row, col}
		if seen[key] {
			t.Fatalf("cell at row %d col %d emitted twice", row, col)
		}
		seen[key] = true
	}
	if len(seen) != 32 {
		t.Fatalf("got %d dark cells", len(seen))
	}
}

func TestLabelsFollowRowsAndColumns(t *testing.T) {
	b := NewBoard(1000, 715)
	labels := drain(b)[RectangleCount:]
	ranks, files := labels[:Rows], labels[Rows:]
	for i, d := range ranks {
		if d.Text != rankLabels[i] {
			t.Fatalf("rank label %d is %q", i, d.Text)
		}
		if d.Rect.X >= b.X(0) {
			t.Fatalf("rank label %q is not left of the board", d.Text)
		}
		if i > 0 && d.Rect.Y-ranks[i-1].Rect.Y != CellSize {
			t.Fatalf("rank label %q not one cell below the previous", d.Text)
		}
	}
	for i, d := range files {
		if d.Text != fileLabels[i] {
			t.Fatalf("file label %d is %q", i, d.Text)
		}
		if d.Rect.Y <= b.Y(Rows-1)+CellSize {
			t.Fatalf("file label %q is not below the board", d.Text)
		}
		if i > 0 && d.Rect.X-files[i-1].Rect.X != CellSize {
			t.Fatalf("file label %q not one cell right of the previous", d.Text)
		}
	}
}

func TestCoordinatesAreLinear(t *testing.T) {
	b := NewBoard(1000, 715)
	for c := 0; c < Cols-1; c++ {
		if b.X(c+1)-b.X(c) != b.CellSize() {
			t.Fatalf("X step at %d", c)
		}
		if b.Y(c+1)-b.Y(c) != b.CellSize() {
			t.Fatalf("Y step at %d", c)
		}
	}
	if b.X(0) != 260 || b.Y(0) != 117.5 {
		t.Fatalf("origin (%v,%v)", b.X(0), b.Y(0))
	}
}

func TestInsetAndFitAspect(t *testing.T) {
	r := image.Rect(10, 10, 20, 20)
	if got := Inset(r, -3); got != image.Rect(7, 7, 23, 23) {
		t.Fatalf("outset: %v", got)
	}
	if got := Inset(r, 2); got != image.Rect(12, 12, 18, 18) {
		t.Fatalf("inset: %v", got)
	}
	if got := Inset(r, 8); !got.Empty() {
		t.Fatalf("over-inset should be empty, got %v", got)
	}
	if got := FitAspect(image.Rect(0, 0, 200, 100), 50, 50); got != image.Rect(50, 0, 150, 100) {
		t.Fatalf("fit: %v", got)
	}
}

func TestInsetPastMiddleCollapsesToCenter(t *testing.T) {
	cases := []struct {
		name    string
		rect    image.Rectangle
		padding int
		want    image.Point
	}{
		{"both axes", image.Rect(10, 10, 20, 20), 8, image.Pt(15, 15)},
		{"exactly half", image.Rect(0, 0, 10, 10), 6, image.Pt(5, 5)},
		{"narrow axis only", image.Rect(0, 0, 40, 6), 4, image.Pt(20, 3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Inset(tc.rect, tc.padding)
			if !got.Empty() || got.Min != tc.want || got.Max != tc.want {
				t.Fatalf("Inset(%v, %d) = %v, want empty at %v", tc.rect, tc.padding, got, tc.want)
			}
		})
	}
	if got := Inset(image.Rect(0, 0, 10, 10), 5); got != image.Rect(5, 5, 5, 5) {
		t.Fatalf("inset to a point: %v", got)
	}
}
