package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const (
	SurfaceFramebuffer = "fb"
	SurfaceSnapshot    = "png"
)

// Env variable names.
const (
	EnvAssetsDir    = "BOARDVIEW_ASSETS_DIR"
	EnvFontPath     = "BOARDVIEW_FONT"
	EnvSurface      = "BOARDVIEW_SURFACE"
	EnvFramebuffer  = "BOARDVIEW_FRAMEBUFFER"
	EnvSnapshotPath = "BOARDVIEW_SNAPSHOT"
	EnvInput        = "BOARDVIEW_INPUT"
	EnvFPS          = "BOARDVIEW_FPS"
	EnvWidth        = "BOARDVIEW_WIDTH"
	EnvHeight       = "BOARDVIEW_HEIGHT"
	EnvBackground   = "BOARDVIEW_BACKGROUND_MODE"
)

type Config struct {
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	AssetsDir      string `yaml:"assets_dir"`
	FontPath       string `yaml:"font"`
	Surface        string `yaml:"surface"`
	Framebuffer    string `yaml:"framebuffer"`
	SnapshotPath   string `yaml:"snapshot"`
	Input          string `yaml:"input"`
	FPS            int    `yaml:"fps"`
	BackgroundMode string `yaml:"background_mode"`
}

func Default() Config {
	return Config{
		Width:          1000,
		Height:         715,
		AssetsDir:      "./assets/textures",
		Surface:        SurfaceFramebuffer,
		Framebuffer:    "/dev/fb0",
		SnapshotPath:   "./boardview.png",
		Input:          "-",
		FPS:            30,
		BackgroundMode: "stretch",
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any) and
// then with BOARDVIEW_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	setString(&cfg.AssetsDir, EnvAssetsDir)
	setString(&cfg.FontPath, EnvFontPath)
	setString(&cfg.Surface, EnvSurface)
	setString(&cfg.Framebuffer, EnvFramebuffer)
	setString(&cfg.SnapshotPath, EnvSnapshotPath)
	setString(&cfg.Input, EnvInput)
	setString(&cfg.BackgroundMode, EnvBackground)
	if err := setInt(&cfg.FPS, EnvFPS); err != nil {
		return err
	}
	if err := setInt(&cfg.Width, EnvWidth); err != nil {
		return err
	}
	return setInt(&cfg.Height, EnvHeight)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// RedisInput reports whether Input names a Redis pub/sub channel
// (redis://host:port/db?channel=name) instead of a stream.
func (cfg Config) RedisInput() bool {
	return strings.HasPrefix(cfg.Input, "redis://") || strings.HasPrefix(cfg.Input, "rediss://")
}

// Validate rejects configurations the app cannot run with.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", cfg.Width, cfg.Height))
	}
	switch cfg.Surface {
	case SurfaceFramebuffer, SurfaceSnapshot:
	default:
		errs = append(errs, fmt.Errorf("unknown surface %q", cfg.Surface))
	}
	if cfg.FPS < 1 || cfg.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d outside 1..240", cfg.FPS))
	}
	switch cfg.BackgroundMode {
	case "stretch", "fit":
	default:
		errs = append(errs, fmt.Errorf("unknown background mode %q", cfg.BackgroundMode))
	}
	if strings.TrimSpace(cfg.AssetsDir) == "" {
		errs = append(errs, errors.New("assets dir is required"))
	}
	return errors.Join(errs...)
}
