package render

import (
	"context"
	"fmt"
	"image"
	"image/color"

	fb "github.com/gonutz/framebuffer"
)

const DefaultFramebuffer = "/dev/fb0"

// FBSurface renders to the Linux framebuffer using an offscreen logical canvas
// that is scaled to the device on every Present.
type FBSurface struct {
	*Canvas
	Path  string
	fbDev *fb.Device
}

func NewFBSurface(path string, width, height int, fonts FaceSource) *FBSurface {
	if path == "" {
		path = DefaultFramebuffer
	}
	return &FBSurface{Canvas: NewCanvas(width, height, fonts), Path: path}
}

func (s *FBSurface) Start(ctx context.Context) error {
	dev, err := fb.Open(s.Path)
	if err != nil {
		return fmt.Errorf("open framebuffer %s: %w", s.Path, err)
	}
	s.fbDev = dev
	if s.Logger != nil {
		bounds := dev.Bounds()
		w, h := s.Size()
		s.Logger.Infof("fb", "framebuffer open, bounds=%dx%d canvas=%dx%d", bounds.Dx(), bounds.Dy(), w, h)
	}
	return nil
}

func (s *FBSurface) Stop() error {
	s.Close()
	if s.fbDev != nil {
		s.fbDev.Close()
		s.fbDev = nil
	}
	return nil
}

func (s *FBSurface) IsOpen() bool { return s.fbDev != nil && s.Canvas.IsOpen() }

func (s *FBSurface) Present() error {
	if s.fbDev == nil {
		return fmt.Errorf("framebuffer %s not open", s.Path)
	}
	blitToFB(s.fbDev, s.Image())
	return s.Canvas.Present()
}

// blitToFB copies canvas to the device with nearest-neighbour scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	cw := canvas.Bounds().Dx()
	ch := canvas.Bounds().Dy()
	if fbWidth == 0 || fbHeight == 0 {
		return
	}
	for y := 0; y < fbHeight; y++ {
		sy := (y * ch) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * cw) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
