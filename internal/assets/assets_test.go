package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rook-computer/boardview/internal/board"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">
<rect x="5" y="5" width="35" height="35" style="fill: #ffffff; stroke: #000000"/>
</svg>`

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func seedAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, BackgroundFile), 100, 72)
	for _, kind := range board.Kinds() {
		name := string(kind.Letter())
		if kind == board.King {
			if err := os.WriteFile(filepath.Join(dir, name+".svg"), []byte(testSVG), 0o644); err != nil {
				t.Fatalf("write svg: %v", err)
			}
			continue
		}
		writePNG(t, filepath.Join(dir, name+".png"), 30, 30)
	}
	return dir
}

type captureLogger struct{ errors []string }

func (l *captureLogger) Infof(string, string, ...interface{}) {}
func (l *captureLogger) Errorf(component, format string, args ...interface{}) {
	l.errors = append(l.errors, component)
}

func TestLoadNormalizesTextures(t *testing.T) {
	dir := seedAssets(t)
	set, err := Load(dir, "", 60, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Background.Bounds().Dx() != 100 {
		t.Fatalf("background width %d", set.Background.Bounds().Dx())
	}
	for _, kind := range board.Kinds() {
		img, ok := set.Pieces.Lookup(kind)
		if !ok {
			t.Fatalf("no texture for %v", kind)
		}
		if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 60 {
			t.Fatalf("%v texture is %dx%d", kind, b.Dx(), b.Dy())
		}
	}
	king, _ := set.Pieces.Lookup(board.King)
	if _, _, _, a := king.At(30, 30).RGBA(); a == 0 {
		t.Fatalf("svg texture was not rasterized")
	}
	if set.Font == nil || set.Font.Name() != "gomonobold" {
		t.Fatalf("expected embedded font")
	}
}

func TestLoadMissingAssetsAreFatal(t *testing.T) {
	dir := seedAssets(t)
	if err := os.Remove(filepath.Join(dir, "T.png")); err != nil {
		t.Fatal(err)
	}
	logger := &captureLogger{}
	_, err := Load(dir, "", 60, logger)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected one diagnostic, got %v", logger.errors)
	}

	if _, err := Load(t.TempDir(), "", 60, nil); !errors.Is(err, ErrMissing) {
		t.Fatalf("missing background: got %v", err)
	}
	if _, err := Load(seedAssets(t), filepath.Join(dir, "nope.ttf"), 60, nil); !errors.Is(err, ErrMissing) {
		t.Fatalf("missing font: got %v", err)
	}
}

func TestFontFacesAreCached(t *testing.T) {
	f, err := DefaultFont()
	if err != nil {
		t.Fatalf("DefaultFont: %v", err)
	}
	a, err := f.Face(20)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	b, _ := f.Face(20)
	if a != b {
		t.Fatalf("expected cached face")
	}
	if a.Metrics().Ascent.Ceil() <= 0 {
		t.Fatalf("face has no ascent")
	}
}

func TestLookupOutOfRange(t *testing.T) {
	var p PieceTextures
	if _, ok := p.Lookup(board.PieceKind(42)); ok {
		t.Fatalf("lookup of unknown kind succeeded")
	}
	if _, ok := p.Lookup(board.Pawn); ok {
		t.Fatalf("lookup of unloaded kind succeeded")
	}
}
