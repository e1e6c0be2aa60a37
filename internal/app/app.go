package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/feed"
	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render"
	"github.com/rook-computer/boardview/internal/state"
	"github.com/rook-computer/boardview/internal/system"
)

const defaultFPS = 30

type App struct {
	Store    *state.Store
	Device   render.Device
	Renderer *render.BoardRenderer
	Assets   *assets.Set
	Feed     feed.Source
	Logger   obslog.Logger

	FPS int
	// Console switches the VT to graphics mode and watches Escape/F4.
	Console bool
	// RedrawOnTick redraws the current board on every tick, not only on updates.
	RedrawOnTick bool
	// ExitOnEOF stops the app once the feed ends and its last board is drawn.
	ExitOnEOF bool

	rendered uint64

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, device render.Device, set *assets.Set, source feed.Source) *App {
	return &App{
		Store:    store,
		Device:   device,
		Renderer: render.NewBoardRenderer(device),
		Assets:   set,
		Feed:     source,
		Logger:   obslog.NoopLogger{},
		FPS:      defaultFPS,
		exitCh:   make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs render cycles until the renderer stops being renderable, Exit is
// called or ctx is done. A malformed board is returned as an error wrapping
// board.ErrShape; closing the surface is a clean exit.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = obslog.NoopLogger{}
	}
	if app.Renderer.Logger == nil {
		app.Renderer.Logger = app.Logger
	}

	if err := app.Device.Start(ctx); err != nil {
		app.Logger.Errorf("app", "surface start error: %v", err)
		return err
	}
	defer app.Device.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.Console {
		restore := system.EnterGraphics(app.Logger)
		defer restore()
		system.WatchExitKeys(loopCtx, app.Logger, app.Device.Close)
	}

	// The feed goroutine may stay blocked on a read after the app returns;
	// it exits with the process.
	if app.Feed != nil {
		go func() {
			err := app.Feed.Run(loopCtx, app.Store)
			switch {
			case err != nil && !errors.Is(err, context.Canceled):
				app.Logger.Errorf("feed", "%v", err)
				app.Exit(err)
			case app.ExitOnEOF:
				app.Exit(nil)
			}
		}()
	}

	fps := app.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		force := false
		select {
		case <-loopCtx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			if cerr := app.cycle(false); cerr != nil {
				return cerr
			}
			return err
		case <-app.Store.Updates():
		case <-ticker.C:
			force = app.RedrawOnTick
		}
		if err := app.cycle(force); err != nil {
			return err
		}
		if !app.Renderer.IsRenderable() {
			app.Logger.Infof("app", "surface closed")
			return nil
		}
	}
}

// cycle renders the latest board if it changed, or unconditionally when force
// is set. Only a malformed board is returned as an error.
func (app *App) cycle(force bool) error {
	if !app.Renderer.IsRenderable() {
		return nil
	}
	snap := app.Store.Snapshot()
	if !snap.Ready() || (!force && snap.Version == app.rendered) {
		return nil
	}
	app.rendered = snap.Version
	err := app.Renderer.Render(snap.Board, app.Assets.Background, &app.Assets.Pieces)
	switch {
	case errors.Is(err, board.ErrShape):
		return fmt.Errorf("board %d from %s: %w", snap.Version, snap.Source, err)
	case err != nil:
		app.Logger.Errorf("app", "render cycle %d: %v", snap.Version, err)
	}
	return nil
}
