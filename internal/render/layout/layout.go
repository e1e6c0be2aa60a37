package layout

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in logical canvas coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Square returns a side x side rect whose top-left corner is (x, y).
func Square(x, y, side float64) Rect { return Rect{X: x, Y: y, W: side, H: side} }

// CenteredSquare returns a side x side rect centered on (cx, cy).
func CenteredSquare(cx, cy, side float64) Rect {
	return Square(cx-side/2, cy-side/2, side)
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Bounds rounds r to the nearest pixel rectangle.
func (r Rect) Bounds() image.Rectangle {
	return Normalize(image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	))
}

// Inset shrinks rect by paddingPx on all sides. A negative padding grows it.
// Insetting past the middle collapses to an empty rectangle at the center.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx == 0 {
		return rect
	}
	// Built by hand: image.Rect would swap crossed edges.
	out := image.Rectangle{
		Min: image.Pt(rect.Min.X+paddingPx, rect.Min.Y+paddingPx),
		Max: image.Pt(rect.Max.X-paddingPx, rect.Max.Y-paddingPx),
	}
	if out.Max.X < out.Min.X || out.Max.Y < out.Min.Y {
		center := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
		return image.Rectangle{Min: center, Max: center}
	}
	return Normalize(out)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// FitAspect returns the largest rectangle with the aspect ratio of
// widthPx:heightPx that fits into rect, centered in it.
func FitAspect(rect image.Rectangle, widthPx, heightPx int) image.Rectangle {
	rect = Normalize(rect)
	if widthPx <= 0 || heightPx <= 0 || rect.Empty() {
		return rect
	}
	scale := math.Min(float64(rect.Dx())/float64(widthPx), float64(rect.Dy())/float64(heightPx))
	w := int(float64(widthPx) * scale)
	h := int(float64(heightPx) * scale)
	x := rect.Min.X + (rect.Dx()-w)/2
	y := rect.Min.Y + (rect.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
