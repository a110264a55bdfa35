package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func loadConfigFromString(t *testing.T, content string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return cfg
}

func TestParse_FullConfig(t *testing.T) {
	content := `
duration: 200
seed: 42
modulation:
  circadian: true
  fatigue: false
  food: true
  medication: false
live:
  transport: nats
  url: "nats://127.0.0.1:4222"
  subject: "eeg.samples"
`
	cfg := loadConfigFromString(t, content)

	if cfg.Duration != 200 {
		t.Errorf("expected duration 200, got %d", cfg.Duration)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Seed)
	}
	if !cfg.Modulation.Circadian || cfg.Modulation.Fatigue {
		t.Errorf("modulation flags not parsed: %+v", cfg.Modulation)
	}
	if cfg.Live == nil {
		t.Fatal("expected live section")
	}
	if cfg.Live.Transport != "nats" {
		t.Errorf("expected transport nats, got %q", cfg.Live.Transport)
	}
}

func TestParse_LiveDefaults(t *testing.T) {
	content := `
duration: 10
live:
  transport: mqtt
  url: "tcp://127.0.0.1:1883"
  subject: "sensors/eeg"
`
	cfg := loadConfigFromString(t, content)

	if cfg.Live.DiscoverTimeout != 5*time.Second {
		t.Errorf("expected 5s discover timeout, got %v", cfg.Live.DiscoverTimeout)
	}
	if cfg.Live.PullTimeout != 500*time.Millisecond {
		t.Errorf("expected 500ms pull timeout, got %v", cfg.Live.PullTimeout)
	}
	if cfg.Live.StreamType != "EEG" {
		t.Errorf("expected stream type EEG, got %q", cfg.Live.StreamType)
	}
	if cfg.Live.SamplePath != "samples" {
		t.Errorf("expected sample path 'samples', got %q", cfg.Live.SamplePath)
	}
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	content := `
duration: 10
durration: 20
`
	if _, err := Parse([]byte(content)); err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("duration: 33\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Duration != 33 {
		t.Errorf("expected duration 33, got %d", cfg.Duration)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "zero duration",
			mutate:  func(c *Config) { c.Duration = 0 },
			wantErr: "duration",
		},
		{
			name:    "negative duration",
			mutate:  func(c *Config) { c.Duration = -5 },
			wantErr: "duration",
		},
		{
			name: "unknown transport",
			mutate: func(c *Config) {
				c.Live = &LiveConfig{Transport: "carrier-pigeon", URL: "x", Subject: "y"}
			},
			wantErr: "transport",
		},
		{
			name: "missing url",
			mutate: func(c *Config) {
				c.Live = &LiveConfig{Transport: "nats", Subject: "y"}
			},
			wantErr: "live.url",
		},
		{
			name: "missing subject",
			mutate: func(c *Config) {
				c.Live = &LiveConfig{Transport: "nats", URL: "x"}
			},
			wantErr: "live.subject",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Duration != 100 {
		t.Errorf("expected default duration 100, got %d", cfg.Duration)
	}
	tog := cfg.Modulation.Toggles()
	if !tog.Circadian || !tog.Fatigue || !tog.Food || !tog.Medication {
		t.Errorf("expected all modulation toggles on by default, got %+v", tog)
	}
	if cfg.Live != nil {
		t.Error("expected synthetic EEG by default")
	}
}
