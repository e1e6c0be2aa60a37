package layout

import "image/color"

// Board geometry, in logical pixels.
const (
	BoardSide   = 480.0
	BigFrame    = 600.0
	MediumFrame = 550.0
	SmallFrame  = 500.0
	CellSize    = BoardSide / Cols

	Rows = 8
	Cols = 8

	FrameCount       = 4
	DarkCellsPerFile = 4
	RectangleCount   = FrameCount + DarkCellsPerFile*Rows
	LabelCount       = Rows + Cols

	FontSize  = 20.0
	FontWidth = FontSize / 2

	frameOutline = 3.0
)

var (
	DarkBrown = color.RGBA{R: 78, G: 53, B: 36, A: 0xFF}
	Gold      = color.RGBA{R: 225, G: 184, B: 148, A: 0xFF}
	Black     = color.RGBA{A: 0xFF}
)

var (
	rankLabels = []string{"8", "7", "6", "5", "4", "3", "2", "1"}
	fileLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}
)

type Kind int

const (
	KindFrame Kind = iota
	KindCell
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindFrame:
		return "frame"
	case KindCell:
		return "cell"
	case KindLabel:
		return "label"
	default:
		return "unknown"
	}
}

// Drawable is one static element of the board decoration. Squares use Rect,
// Fill and the optional outline; labels place Text with its top-left corner
// at (Rect.X, Rect.Y) and use Fill as the glyph color.
type Drawable struct {
	Kind         Kind
	Rect         Rect
	Fill         color.RGBA
	Outline      color.RGBA
	OutlineWidth float64
	Text         string
	FontSize     float64
}

// Board holds the precomputed decoration for one window size and a cursor
// used to hand it out one element at a time during a render cycle.
type Board struct {
	x0, y0    float64
	drawables []Drawable

	cursor int
	drawn  bool
}

// NewBoard lays out the board centered in a width x height window.
func NewBoard(width, height int) *Board {
	w, h := float64(width), float64(height)
	b := &Board{
		x0:        (w - BoardSide) / 2,
		y0:        (h - BoardSide) / 2,
		drawables: make([]Drawable, 0, RectangleCount+LabelCount),
	}

	cx, cy := w/2, h/2
	b.drawables = append(b.drawables,
		Drawable{Kind: KindFrame, Rect: CenteredSquare(cx, cy, BigFrame), Fill: DarkBrown, Outline: Black, OutlineWidth: frameOutline},
		Drawable{Kind: KindFrame, Rect: CenteredSquare(cx, cy, MediumFrame), Fill: Gold, Outline: Black, OutlineWidth: frameOutline},
		Drawable{Kind: KindFrame, Rect: CenteredSquare(cx, cy, SmallFrame), Fill: DarkBrown},
		Drawable{Kind: KindFrame, Rect: CenteredSquare(cx, cy, BoardSide), Fill: Gold},
	)

	// Only the dark cells are emitted; the gold board square provides the
	// light ones. The cursor zig-zags one cell down then up while moving
	// right, then returns to the left edge two rows lower.
	cell := Square(b.x0, b.y0, CellSize)
	for pair := 0; pair < DarkCellsPerFile; pair++ {
		for i := 0; i < Cols; i++ {
			if i%2 == 0 {
				cell = cell.Translate(0, CellSize)
			} else {
				cell = cell.Translate(0, -CellSize)
			}
			b.drawables = append(b.drawables, Drawable{Kind: KindCell, Rect: cell, Fill: DarkBrown})
			cell = cell.Translate(CellSize, 0)
		}
		cell = cell.Translate(-Cols*CellSize, 2*CellSize)
	}

	rankX := (w - MediumFrame + (MediumFrame-SmallFrame)/2 - FontWidth) / 2
	rankY := b.y0 + (CellSize-FontSize)/2
	for i, text := range rankLabels {
		b.drawables = append(b.drawables, label(text, rankX, rankY+float64(i)*CellSize))
	}

	fileX := b.x0 + (CellSize-FontWidth)/2
	fileY := (h+SmallFrame)/2 + (MediumFrame-SmallFrame)/4 - FontSize/2
	for i, text := range fileLabels {
		b.drawables = append(b.drawables, label(text, fileX+float64(i)*CellSize, fileY))
	}
	return b
}

func label(text string, x, y float64) Drawable {
	return Drawable{
		Kind:     KindLabel,
		Rect:     Square(x, y, FontSize),
		Fill:     DarkBrown,
		Text:     text,
		FontSize: FontSize,
	}
}

// Drawn reports whether every drawable has been handed out since the last Reset.
func (b *Board) Drawn() bool { return b.drawn }

// Next returns the drawable under the cursor and advances it. Once the last
// drawable has been returned the board is marked drawn and further calls keep
// returning the last drawable.
func (b *Board) Next() Drawable {
	if b.cursor >= len(b.drawables) {
		b.drawn = true
		return b.drawables[len(b.drawables)-1]
	}
	d := b.drawables[b.cursor]
	b.cursor++
	if b.cursor == len(b.drawables) {
		b.drawn = true
	}
	return d
}

// Reset rewinds the cursor. Call it once at the start of every render cycle.
func (b *Board) Reset() {
	b.cursor = 0
	b.drawn = false
}

// Len returns the number of drawables served per cycle.
func (b *Board) Len() int { return len(b.drawables) }

// Origin returns the top-left corner of the playing area.
func (b *Board) Origin() (x, y float64) { return b.x0, b.y0 }

func (b *Board) CellSize() float64 { return CellSize }

// X returns the left edge of column col.
func (b *Board) X(col int) float64 { return b.x0 + float64(col)*CellSize }

// Y returns the top edge of row row.
func (b *Board) Y(row int) float64 { return b.y0 + float64(row)*CellSize }
