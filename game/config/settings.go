package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds server runtime settings read from slidesort.toml
type Settings struct {
	Host            string
	Port            int
	ConfigDir       string
	SessionsDir     string
	DefaultConfig   string
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	SyncInterval    time.Duration
	NgrokDomain     string
}

// DefaultSettings returns the settings used when no file is given
func DefaultSettings() Settings {
	return Settings{
		Host:            "localhost",
		Port:            8080,
		ConfigDir:       "configs",
		SessionsDir:     "sessions",
		DefaultConfig:   "classic",
		SessionTTL:      24 * time.Hour,
		CleanupInterval: time.Hour,
		SyncInterval:    5 * time.Second,
	}
}

// slidesort.toml key mapping
type fileSettings struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ConfigDir       string `toml:"config_dir"`
	SessionsDir     string `toml:"sessions_dir"`
	DefaultConfig   string `toml:"default_config"`
	SessionTTL      string `toml:"session_ttl"`
	CleanupInterval string `toml:"cleanup_interval"`
	SyncInterval    string `toml:"sync_interval"`
	NgrokDomain     string `toml:"ngrok_domain"`
}

// LoadSettings reads a TOML settings file and overlays the keys it defines on DefaultSettings.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	var raw fileSettings
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("load settings: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		if raw.Port <= 0 || raw.Port > 65535 {
			return Settings{}, fmt.Errorf("load settings: port %d out of range", raw.Port)
		}
		cfg.Port = raw.Port
	}
	if meta.IsDefined("config_dir") {
		cfg.ConfigDir = strings.TrimSpace(raw.ConfigDir)
	}
	if meta.IsDefined("sessions_dir") {
		cfg.SessionsDir = strings.TrimSpace(raw.SessionsDir)
	}
	if meta.IsDefined("default_config") {
		cfg.DefaultConfig = strings.TrimSpace(raw.DefaultConfig)
	}
	if meta.IsDefined("ngrok_domain") {
		cfg.NgrokDomain = strings.TrimSpace(raw.NgrokDomain)
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"session_ttl", raw.SessionTTL, &cfg.SessionTTL},
		{"cleanup_interval", raw.CleanupInterval, &cfg.CleanupInterval},
		{"sync_interval", raw.SyncInterval, &cfg.SyncInterval},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Settings{}, fmt.Errorf("load settings: %s: %w", d.key, err)
		}
		if v <= 0 {
			return Settings{}, fmt.Errorf("load settings: %s must be positive", d.key)
		}
		*d.dst = v
	}

	return cfg, nil
}

// Addr returns host:port
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
