//go:build !linux

package system

import (
	"context"

	"github.com/rook-computer/boardview/internal/obslog"
)

// WatchExitKeys is unsupported without evdev; the app still exits on signals.
func WatchExitKeys(ctx context.Context, l obslog.Logger, onExit func()) {}
