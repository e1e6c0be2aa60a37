package assets

import (
	"errors"
	"fmt"
	"image"

	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/obslog"
)

// ErrMissing is wrapped by every error caused by an asset that cannot be found
// or decoded.
var ErrMissing = errors.New("missing asset")

const BackgroundFile = "background.png"

// PieceTextures holds one texture per piece kind. Both sides share a texture.
type PieceTextures [board.PieceKindCount]image.Image

// Lookup returns the texture for kind, if loaded.
func (p *PieceTextures) Lookup(kind board.PieceKind) (image.Image, bool) {
	if p == nil || kind < 0 || int(kind) >= len(p) {
		return nil, false
	}
	img := p[kind]
	return img, img != nil
}

// Set is everything the renderer needs besides the board itself.
type Set struct {
	Background image.Image
	Pieces     PieceTextures
	Font       *Font
}

// Load reads the background, the six piece textures and the label font.
// Piece textures are normalized to cellSize pixels. Any failure is fatal for
// the caller: the renderer never runs without its assets.
func Load(dir, fontPath string, cellSize int, logger obslog.Logger) (*Set, error) {
	background, err := LoadBackground(dir)
	if err != nil {
		logAssetError(logger, err)
		return nil, err
	}
	pieces, err := LoadPieces(dir, cellSize)
	if err != nil {
		logAssetError(logger, err)
		return nil, err
	}
	fnt, err := LoadFont(fontPath)
	if err != nil {
		logAssetError(logger, err)
		return nil, err
	}
	if logger != nil {
		b := background.Bounds()
		logger.Infof("assets", "loaded background %dx%d, %d piece textures, font %s", b.Dx(), b.Dy(), len(pieces), fnt.Name())
	}
	return &Set{Background: background, Pieces: pieces, Font: fnt}, nil
}

func logAssetError(logger obslog.Logger, err error) {
	if logger != nil {
		logger.Errorf("assets", "%v", err)
	}
}

func missing(name string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrMissing, name)
	}
	return fmt.Errorf("%w: %s: %v", ErrMissing, name, err)
}
