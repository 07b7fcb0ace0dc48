package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), AppConfigName)
	want := AppConfig{LastFile: "/tmp/work.brn", WindowSize: "120x40", Maximized: false}
	if err := SaveAppConfig(path, want); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	got, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAppConfigFallsBack(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"missing", ""},
		{"corrupt", "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.data != "" {
				if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			got, err := LoadAppConfig(path)
			if err == nil {
				t.Error("expected a reason for the fallback")
			}
			if got != DefaultAppConfig() {
				t.Errorf("got %+v, want defaults", got)
			}
		})
	}
}

func TestAppConfigBadWindowSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), AppConfigName)
	data := `{"last_file": "a.brn", "window_size": "huge", "maximized": true}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if got.LastFile != "a.brn" || got.WindowSize != DefaultAppConfig().WindowSize {
		t.Errorf("got %+v", got)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"800x600", 800, 600, false},
		{"800x600+10+20", 800, 600, false},
		{"800", 0, 0, true},
		{"0x600", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		w, h, err := ParseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSize(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("ParseSize(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.w, tt.h)
		}
	}
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	data := "theme = \"neon\"\nsort = \"name\"\ncard_width = 10\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKBARN_LOG_LEVEL", "debug")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.Theme != "neon" || s.Sort != "name" {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want env override debug", s.LogLevel)
	}
	if s.CardWidth != 20 {
		t.Errorf("CardWidth = %d, want clamp to 20", s.CardWidth)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestLoadSettingsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("theme = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("expected parse error")
	}
}
