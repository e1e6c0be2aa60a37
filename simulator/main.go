// Command simulator runs the board renderer headless behind an HTTP control
// API, for development machines without a framebuffer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/config"
	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render"
	"github.com/rook-computer/boardview/internal/render/layout"
	"github.com/rook-computer/boardview/internal/state"
	"github.com/rook-computer/boardview/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}
	cfg, err := config.Load("")
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable permissive CORS; also configurable via "+web.EnvDevMode)
	assetsDir := flag.String("assets", cfg.AssetsDir, "directory holding background.png and the piece textures")
	fontPath := flag.String("font", cfg.FontPath, "label font; embedded Go Mono Bold when empty")
	width := flag.Int("width", cfg.Width, "canvas width")
	height := flag.Int("height", cfg.Height, "canvas height")
	startFEN := flag.String("fen", "startpos", "position shown at startup; empty for an empty board")
	flag.Parse()

	zl, err := obslog.New(obslog.OptionsFromEnv())
	if err != nil {
		fmt.Println("logger error:", err)
		os.Exit(2)
	}
	logger := obslog.Components(zl)
	defer func() { _ = logger.Sync() }()

	set, err := assets.Load(*assetsDir, *fontPath, int(layout.CellSize), logger)
	if err != nil {
		os.Exit(2)
	}

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	canvas := render.NewCanvas(*width, *height, set.Font)
	canvas.Logger = logger
	api := web.NewBoardAPI(state.NewStore(), canvas, set)
	api.Logger = logger
	api.BackgroundMode = render.ParseScaleMode(cfg.BackgroundMode)
	if *startFEN != "" {
		if err := api.LoadFEN(*startFEN); err != nil {
			logger.Errorf("simulator", "startup position: %v", err)
			os.Exit(2)
		}
	}

	mux := http.NewServeMux()
	api.Register(mux)

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Handler = mux
	server.Logger = logger
	if err := server.Start(processCtx); err != nil {
		logger.Errorf("simulator", "server start: %v", err)
		os.Exit(1)
	}

	logger.Infof("simulator", "listening on %s, frame at http://%s/sim/frame.png", server.Addr, server.Addr)

	<-processCtx.Done()
	_ = server.Stop()
}
