package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppConfigName is the app state file, kept next to the documents.
	AppConfigName = "taskbarn_config.json"
	settingsName  = "settings.toml"
	logName       = "taskbarn.log"
)

// Dir is the per-user directory for settings and logs.
func Dir() (string, error) {
	if d := os.Getenv("TASKBARN_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".taskbarn"), nil
}

// SettingsPath is the default settings file location.
func SettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsName), nil
}

// DefaultLogPath is where the TUI logs when no log_file is configured.
func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logName), nil
}

// AppConfigPath resolves the app state file in the working directory.
func AppConfigPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, AppConfigName), nil
}
