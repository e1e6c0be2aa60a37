package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rook-computer/boardview/internal/app"
	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/config"
	"github.com/rook-computer/boardview/internal/feed"
	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render"
	"github.com/rook-computer/boardview/internal/render/layout"
	"github.com/rook-computer/boardview/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Flags
	configPath := flag.String("config", "", "YAML config file (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via BOARDVIEW_STDIO_LOG")
	surface := flag.String("surface", "", "output surface: fb | png")
	assetsDir := flag.String("assets", "", "directory holding background.png and the piece textures")
	fontPath := flag.String("font", "", "label font (.ttf or .otf); embedded Go Mono Bold when empty")
	input := flag.String("input", "", "board feed: '-' for stdin, a file path, or redis://host:port/db?channel=name")
	snapshot := flag.String("snapshot", "", "PNG path written on every frame by the png surface")
	fps := flag.Int("fps", 0, "redraw rate")
	fen := flag.String("fen", "", "render this FEN position instead of reading a feed")
	exitOnEOF := flag.Bool("exit-on-eof", false, "exit once the feed ends and its last board is drawn")
	flag.Parse()

	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("BOARDVIEW_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Fprintln(os.Stderr, "stdio log redirect error:", err)
		}
	}

	logOpts := obslog.OptionsFromEnv()
	logOpts.Debug = *debug
	zl, err := obslog.New(logOpts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		return 2
	}
	logger := obslog.Components(zl)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("main", "config: %v", err)
		return 2
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "surface":
			cfg.Surface = *surface
		case "assets":
			cfg.AssetsDir = *assetsDir
		case "font":
			cfg.FontPath = *fontPath
		case "input":
			cfg.Input = *input
		case "snapshot":
			cfg.SnapshotPath = *snapshot
		case "fps":
			cfg.FPS = *fps
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Errorf("main", "config: %v", err)
		return 2
	}

	set, err := assets.Load(cfg.AssetsDir, cfg.FontPath, int(layout.CellSize), logger)
	if err != nil {
		return 1
	}

	var device render.Device
	switch cfg.Surface {
	case config.SurfaceSnapshot:
		s := render.NewSnapshotSurface(cfg.SnapshotPath, cfg.Width, cfg.Height, set.Font)
		s.Logger = logger
		device = s
	default:
		s := render.NewFBSurface(cfg.Framebuffer, cfg.Width, cfg.Height, set.Font)
		s.Logger = logger
		device = s
	}

	src, closeSrc, err := openSource(cfg, *fen, logger)
	if err != nil {
		logger.Errorf("main", "input: %v", err)
		return 2
	}
	defer closeSrc()

	a := app.New(state.NewStore(), device, set, src)
	a.Logger = logger
	a.FPS = cfg.FPS
	a.Console = cfg.Surface == config.SurfaceFramebuffer
	a.RedrawOnTick = a.Console
	a.ExitOnEOF = *exitOnEOF || *fen != ""
	a.Renderer.BackgroundMode = render.ParseScaleMode(cfg.BackgroundMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("main", "boardview starting: surface=%s window=%dx%d input=%s", cfg.Surface, cfg.Width, cfg.Height, cfg.Input)
	err = a.Start(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		logger.Infof("main", "boardview stopped")
		return 0
	default:
		logger.Errorf("main", "boardview stopped: %v", err)
		return 1
	}
}

// openSource picks the board source: a single FEN, a Redis channel, stdin or
// a file.
func openSource(cfg config.Config, fen string, logger obslog.Logger) (feed.Source, func(), error) {
	if fen != "" {
		r := feed.NewReader(strings.NewReader("fen " + fen + "\n"))
		r.Logger = logger
		return r, func() {}, nil
	}
	if cfg.RedisInput() {
		opts, channel, err := feed.ParseRedisURL(cfg.Input)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		sub := feed.NewRedisSubscriber(client, channel)
		sub.Logger = logger
		return sub, func() { _ = client.Close() }, nil
	}
	if cfg.Input == "" || cfg.Input == "-" {
		r := feed.NewReader(os.Stdin)
		r.Logger = logger
		return r, func() {}, nil
	}
	f, err := os.Open(cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	r := feed.NewReader(f)
	r.Logger = logger
	return r, func() { _ = f.Close() }, nil
}
