package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/rook-computer/boardview/internal/board"
)

// LoadBackground decodes dir/background.png.
func LoadBackground(dir string) (image.Image, error) {
	path := filepath.Join(dir, BackgroundFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, missing(path, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, missing(path, err)
	}
	return img, nil
}

// LoadPieces loads one texture per kind from dir, named after the kind's
// letter (C, D, F, P, R, T). An .svg file is preferred over a .png one.
func LoadPieces(dir string, cellSize int) (PieceTextures, error) {
	var textures PieceTextures
	for _, kind := range board.Kinds() {
		img, err := loadPiece(dir, kind, cellSize)
		if err != nil {
			return PieceTextures{}, err
		}
		textures[kind] = img
	}
	return textures, nil
}

func loadPiece(dir string, kind board.PieceKind, cellSize int) (image.Image, error) {
	base := filepath.Join(dir, string(kind.Letter()))

	svgPath := base + ".svg"
	data, err := os.ReadFile(svgPath)
	if err == nil {
		img, rerr := rasterizeSVG(data, cellSize)
		if rerr != nil {
			return nil, missing(svgPath, rerr)
		}
		return img, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, missing(svgPath, err)
	}

	pngPath := base + ".png"
	data, err = os.ReadFile(pngPath)
	if err != nil {
		return nil, missing(pngPath, err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, missing(pngPath, err)
	}
	return fitTexture(img, cellSize), nil
}

func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, err
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// fitTexture scales img to size x size unless it already has that size.
func fitTexture(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (b.Dx() == size && b.Dy() == size) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// oksvg rejects some style spellings that browsers accept.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill:000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}
