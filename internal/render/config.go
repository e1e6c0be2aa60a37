package render

import "image/color"

// Window size matching the default background image.
const (
	DefaultWidth  = 1000
	DefaultHeight = 715
)

var (
	// ClearColor fills the canvas before the background is drawn.
	ClearColor = color.RGBA{R: 131, G: 105, B: 83, A: 0xFF}

	// Piece tints per side; textures are shared between sides.
	LightTint = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	DarkTint  = color.RGBA{R: 75, G: 75, B: 75, A: 0xFF}
)
