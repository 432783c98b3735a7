package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slidesort.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSettingsOverlaysDefinedKeys(t *testing.T) {
	path := writeSettings(t, `
port = 9090
config_dir = " puzzles "
session_ttl = "2h"
`)

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	def := DefaultSettings()
	if s.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", s.Port)
	}
	if s.ConfigDir != "puzzles" {
		t.Errorf("Expected trimmed config dir, got %q", s.ConfigDir)
	}
	if s.SessionTTL != 2*time.Hour {
		t.Errorf("Expected 2h TTL, got %v", s.SessionTTL)
	}
	if s.Host != def.Host || s.SessionsDir != def.SessionsDir || s.CleanupInterval != def.CleanupInterval {
		t.Errorf("Expected undefined keys to keep defaults, got %+v", s)
	}
	if s.Addr() != "localhost:9090" {
		t.Errorf("Unexpected addr %q", s.Addr())
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad syntax", `port = `, "load settings"},
		{"unknown key", `colour = "blue"`, "unknown key"},
		{"bad port", `port = 70000`, "out of range"},
		{"bad duration", `sync_interval = "soon"`, "sync_interval"},
		{"negative duration", `cleanup_interval = "-1m"`, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
