package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "BOARDVIEW_LISTEN"
	EnvDevMode    = "BOARDVIEW_DEV"
)

// ServerConfig holds the simulator HTTP settings.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	cfg := ServerConfig{ListenAddr: defaultListenAddr}
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.ListenAddr = addr
	}
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		cfg.DevMode = parsed
	}
	return cfg, nil
}
