//go:build !linux

package system

import "github.com/rook-computer/boardview/internal/obslog"

// EnterGraphics is a no-op without a Linux console.
func EnterGraphics(l obslog.Logger) (restore func()) { return func() {} }
