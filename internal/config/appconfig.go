// Package config loads the app state file and user settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default window geometry, in terminal cells.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// AppConfig is the state remembered between runs.
type AppConfig struct {
	LastFile   string `json:"last_file"`
	WindowSize string `json:"window_size"`
	Maximized  bool   `json:"maximized"`
}

// DefaultAppConfig is used when the state file is absent or unreadable.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		WindowSize: FormatSize(DefaultWidth, DefaultHeight),
		Maximized:  true,
	}
}

// LoadAppConfig reads path. It always returns a usable config; the error
// says why the defaults were used and is only worth logging.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read app config: %w", err)
	}
	var loaded AppConfig
	if err := json.Unmarshal(b, &loaded); err != nil {
		return cfg, fmt.Errorf("parse app config: %w", err)
	}
	if _, _, err := ParseSize(loaded.WindowSize); err != nil {
		loaded.WindowSize = cfg.WindowSize
	}
	return loaded, nil
}

// SaveAppConfig writes cfg as indented JSON.
func SaveAppConfig(path string, cfg AppConfig) error {
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal app config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write app config: %w", err)
	}
	return nil
}

// FormatSize renders a WxH geometry string.
func FormatSize(w, h int) string { return fmt.Sprintf("%dx%d", w, h) }

// ParseSize parses a WxH geometry string. A trailing +X+Y offset is ignored.
func ParseSize(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("window size %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("window size %q: bad width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("window size %q: bad height", s)
	}
	return w, h, nil
}
