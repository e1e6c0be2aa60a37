package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render/layout"
)

// ErrClosed is returned by Render once the renderer can no longer draw.
var ErrClosed = errors.New("renderer closed")

// CycleStats counts the draw submissions of the last render cycle.
type CycleStats struct {
	Layout  int // frame squares, cells and labels
	Pieces  int // piece sprites
	Skipped int // cells holding an unrecognized symbol
}

// BoardRenderer draws board states onto a Surface. It is not safe for
// concurrent use: one cycle runs to completion before the next starts.
type BoardRenderer struct {
	surface Surface
	layout  *layout.Board
	valid   bool
	last    CycleStats

	Logger         obslog.Logger
	BackgroundMode ScaleMode
}

// NewBoardRenderer lays out the board for the surface's size.
func NewBoardRenderer(surface Surface) *BoardRenderer {
	w, h := surface.Size()
	return &BoardRenderer{surface: surface, layout: layout.NewBoard(w, h), valid: true}
}

func (r *BoardRenderer) Layout() *layout.Board { return r.layout }

// LastCycle returns the counters of the most recent completed cycle.
func (r *BoardRenderer) LastCycle() CycleStats { return r.last }

// IsRenderable reports whether the surface is open and the last board was
// well formed. Once false, callers must stop rendering.
func (r *BoardRenderer) IsRenderable() bool {
	return r.valid && r.surface.IsOpen()
}

// Render runs one cycle: validate m, draw the background and the board
// decoration, overlay the pieces and present the frame. A malformed board
// closes the renderer for good. m is not retained after Render returns.
func (r *BoardRenderer) Render(m board.Matrix, background image.Image, pieces *assets.PieceTextures) error {
	if !r.IsRenderable() {
		return ErrClosed
	}
	if err := board.Validate(m); err != nil {
		r.valid = false
		r.errorf("board", "%v", err)
		return fmt.Errorf("render: %w", err)
	}

	var stats CycleStats
	w, h := r.surface.Size()
	r.surface.Clear(ClearColor)
	r.surface.DrawImageInRect(background, image.Rect(0, 0, w, h), r.BackgroundMode)

	r.layout.Reset()
	for !r.layout.Drawn() {
		r.drawDecoration(r.layout.Next())
		stats.Layout++
	}

	for row, cells := range m {
		for col, symbol := range cells {
			if board.IsEmpty(symbol) {
				continue
			}
			piece, ok := board.ParseSymbol(symbol)
			if !ok {
				stats.Skipped++
				r.errorf("board", "unrecognized char %q at row %d col %d, treated as an empty cell", symbol, row, col)
				continue
			}
			texture, ok := pieces.Lookup(piece.Kind)
			if !ok {
				stats.Skipped++
				r.errorf("board", "no texture for %v at row %d col %d, treated as an empty cell", piece, row, col)
				continue
			}
			r.surface.DrawImage(texture, r.layout.X(col), r.layout.Y(row), ImageOpts{Tint: sideTint(piece.Side)})
			stats.Pieces++
		}
	}

	r.last = stats
	if err := r.surface.Present(); err != nil {
		r.errorf("render", "present failed: %v", err)
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (r *BoardRenderer) drawDecoration(d layout.Drawable) {
	if d.Kind == layout.KindLabel {
		r.surface.DrawText(d.Text, d.Rect.X, d.Rect.Y, TextStyle{Color: d.Fill, Size: d.FontSize})
		return
	}
	style := ShapeStyle{Fill: d.Fill}
	if d.OutlineWidth > 0 {
		style.Outline = d.Outline
		style.OutlineWidth = d.OutlineWidth
	}
	r.surface.FillRect(d.Rect, style)
}

func sideTint(side board.Side) color.Color {
	if side == board.Dark {
		return DarkTint
	}
	return LightTint
}

func (r *BoardRenderer) errorf(component, format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Errorf(component, format, args...)
	}
}
