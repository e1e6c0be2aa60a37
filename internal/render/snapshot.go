package render

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
)

// SnapshotSurface is a headless surface that writes every presented frame to
// a PNG file. The file is replaced atomically so readers never see a partial
// image.
type SnapshotSurface struct {
	*Canvas
	Path string
}

func NewSnapshotSurface(path string, width, height int, fonts FaceSource) *SnapshotSurface {
	return &SnapshotSurface{Canvas: NewCanvas(width, height, fonts), Path: path}
}

func (s *SnapshotSurface) Present() error {
	if err := s.writePNG(); err != nil {
		return err
	}
	return s.Canvas.Present()
}

func (s *SnapshotSurface) writePNG() error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.png")
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := png.Encode(tmp, s.Image()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("snapshot encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
