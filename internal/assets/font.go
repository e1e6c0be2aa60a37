package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// Font produces faces of any pixel size from a parsed TrueType or OpenType
// font. Faces are cached per size.
type Font struct {
	name string
	tt   *truetype.Font
	ot   *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// DefaultFont returns the embedded Go Mono Bold font.
func DefaultFont() (*Font, error) {
	tt, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	return &Font{name: "gomonobold", tt: tt}, nil
}

// LoadFont parses the font at path, or the embedded font when path is empty.
// .otf files go through opentype; anything else is tried as TrueType first.
func LoadFont(path string) (*Font, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultFont()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, missing(path, err)
	}
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(path), ".otf") {
		if tt, terr := truetype.Parse(data); terr == nil {
			return &Font{name: name, tt: tt}, nil
		}
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return nil, missing(path, err)
	}
	return &Font{name: name, ot: ot}, nil
}

func (f *Font) Name() string { return f.name }

// Face returns a face rendering glyphs size pixels tall.
func (f *Font) Face(size float64) (font.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	var face font.Face
	switch {
	case f.tt != nil:
		face = truetype.NewFace(f.tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	case f.ot != nil:
		var err error
		face, err = opentype.NewFace(f.ot, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", f.name, err)
		}
	default:
		return nil, fmt.Errorf("font %s: not loaded", f.name)
	}
	if f.faces == nil {
		f.faces = make(map[float64]font.Face)
	}
	f.faces[size] = face
	return face, nil
}
