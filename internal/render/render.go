package render

import (
	"context"
	"image"
	"image/color"

	"github.com/rook-computer/boardview/internal/render/layout"
)

// Surface is the drawing target of a render cycle. Draw calls accumulate into
// a frame that becomes visible on Present.
type Surface interface {
	// Size returns the logical canvas size (in pixels).
	Size() (width int, height int)
	// IsOpen reports whether the surface still accepts frames.
	IsOpen() bool

	Clear(c color.Color)

	// Shape and text primitives.
	FillRect(rect layout.Rect, style ShapeStyle)
	DrawText(text string, x, y float64, style TextStyle)

	// Image primitives.
	DrawImage(img image.Image, x, y float64, opts ImageOpts)
	DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode)

	Present() error
}

// Device is a Surface backed by something that has to be opened and closed.
type Device interface {
	Surface
	Start(ctx context.Context) error
	Stop() error
	Close()
}

// ShapeStyle describes a filled rectangle with an optional outline drawn
// outside of it.
type ShapeStyle struct {
	Fill         color.Color
	Outline      color.Color
	OutlineWidth float64
}

// TextStyle describes how to render text. DrawText anchors (x, y) at the
// top-left of the text box.
type TextStyle struct {
	Color color.Color
	Size  float64 // glyph size in pixels; 0 means renderer default
}

type ScaleMode int

const (
	ScaleModeStretch ScaleMode = iota
	ScaleModeFit
)

// ParseScaleMode maps a config value to a ScaleMode, defaulting to stretch.
func ParseScaleMode(s string) ScaleMode {
	if s == "fit" {
		return ScaleModeFit
	}
	return ScaleModeStretch
}

type ImageOpts struct {
	// Tint multiplies every channel of the image; nil leaves it unchanged.
	Tint color.Color
}
