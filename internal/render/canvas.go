package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render/layout"
)

// FaceSource hands out font faces by pixel size.
type FaceSource interface {
	Face(size float64) (font.Face, error)
}

const defaultTextSize = layout.FontSize

// Canvas is an offscreen Surface drawing into an *image.RGBA. It is the base
// of the framebuffer and snapshot surfaces and is usable on its own headless.
type Canvas struct {
	img    *image.RGBA
	fonts  FaceSource
	closed atomic.Bool
	frames atomic.Int64
	Logger obslog.Logger
}

// NewCanvas returns a width x height canvas. fonts may be nil, in which case
// text falls back to a fixed bitmap face.
func NewCanvas(width, height int, fonts FaceSource) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height)), fonts: fonts}
}

func (c *Canvas) Start(ctx context.Context) error { return nil }
func (c *Canvas) Stop() error                     { return nil }

// Close marks the canvas closed; IsOpen reports false afterwards.
func (c *Canvas) Close() { c.closed.Store(true) }

func (c *Canvas) IsOpen() bool { return !c.closed.Load() }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the backing image. It is only consistent between frames.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Frames returns how many frames have been presented.
func (c *Canvas) Frames() int64 { return c.frames.Load() }

func (c *Canvas) Present() error {
	c.frames.Add(1)
	return nil
}

func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(rect layout.Rect, style ShapeStyle) {
	bounds := rect.Bounds()
	if style.Outline != nil && style.OutlineWidth > 0 {
		outer := layout.Inset(bounds, -int(math.Round(style.OutlineWidth)))
		draw.Draw(c.img, outer, &image.Uniform{C: style.Outline}, image.Point{}, draw.Over)
	}
	if style.Fill != nil {
		draw.Draw(c.img, bounds, &image.Uniform{C: style.Fill}, image.Point{}, draw.Over)
	}
}

func (c *Canvas) DrawText(text string, x, y float64, style TextStyle) {
	if text == "" {
		return
	}
	size := style.Size
	if size <= 0 {
		size = defaultTextSize
	}
	face := c.face(size)
	fg := style.Color
	if fg == nil {
		fg = color.Black
	}
	drawer := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	ascent := face.Metrics().Ascent
	drawer.Dot = fixed.Point26_6{
		X: fixed.Int26_6(math.Round(x * 64)),
		Y: fixed.Int26_6(math.Round(y*64)) + ascent,
	}
	drawer.DrawString(text)
}

func (c *Canvas) face(size float64) font.Face {
	if c.fonts != nil {
		face, err := c.fonts.Face(size)
		if err == nil {
			return face
		}
		if c.Logger != nil {
			c.Logger.Errorf("canvas", "font face %.0fpx failed, using basicfont: %v", size, err)
		}
	}
	return basicfont.Face7x13
}

func (c *Canvas) DrawImage(img image.Image, x, y float64, opts ImageOpts) {
	if img == nil {
		return
	}
	src := tint(img, opts.Tint)
	sb := src.Bounds()
	at := image.Pt(int(math.Round(x)), int(math.Round(y)))
	dst := image.Rectangle{Min: at, Max: at.Add(sb.Size())}
	draw.Draw(c.img, dst, src, sb.Min, draw.Over)
}

func (c *Canvas) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil {
		return
	}
	if mode == ScaleModeFit {
		rect = layout.FitAspect(rect, img.Bounds().Dx(), img.Bounds().Dy())
	}
	xdraw.ApproxBiLinear.Scale(c.img, rect, img, img.Bounds(), xdraw.Over, nil)
}

// tint multiplies every channel of img by t. A nil or opaque white tint
// returns img unchanged.
func tint(img image.Image, t color.Color) image.Image {
	if t == nil {
		return img
	}
	tr, tg, tb, ta := t.RGBA()
	if tr == 0xFFFF && tg == 0xFFFF && tb == 0xFFFF && ta == 0xFFFF {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA64(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out.SetRGBA64(x, y, color.RGBA64{
				R: uint16(r * tr / 0xFFFF),
				G: uint16(g * tg / 0xFFFF),
				B: uint16(bl * tb / 0xFFFF),
				A: uint16(a * ta / 0xFFFF),
			})
		}
	}
	return out
}
