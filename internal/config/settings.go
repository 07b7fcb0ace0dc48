package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings are user preferences from settings.toml and TASKBARN_* env vars.
type Settings struct {
	Theme     string `toml:"theme"`      // classic | neon | mono
	LogLevel  string `toml:"log_level"`  // debug | info | warn | error
	LogFile   string `toml:"log_file"`   // TUI log destination
	Sort      string `toml:"sort"`       // time_left | size | name | created
	CardWidth int    `toml:"card_width"` // width of a group card in cells
}

// DefaultSettings returns built-in preferences.
func DefaultSettings() Settings {
	return Settings{
		Theme:     "classic",
		LogLevel:  "info",
		Sort:      "time_left",
		CardWidth: 36,
	}
}

// LoadSettings decodes path over the defaults and applies environment
// overrides. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		if _, err := toml.DecodeFile(path, &s); err != nil && !errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return s, err
	}
	if s.CardWidth < 20 {
		s.CardWidth = 20
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("TASKBARN_THEME")); v != "" {
		s.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKBARN_LOG_LEVEL")); v != "" {
		s.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKBARN_LOG_FILE")); v != "" {
		s.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKBARN_SORT")); v != "" {
		s.Sort = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKBARN_CARD_WIDTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKBARN_CARD_WIDTH: %w", err)
		}
		s.CardWidth = n
	}
	return nil
}
