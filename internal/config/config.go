// Package config handles YAML configuration parsing and validation.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"vagus/internal/model"

	"gopkg.in/yaml.v3"
)

// Default timeouts for the live sensor path.
const (
	DefaultDiscoverTimeout = 5 * time.Second
	DefaultPullTimeout     = 500 * time.Millisecond
)

// Config is the root configuration for a simulation run.
type Config struct {
	// Duration is the number of timesteps. Must be >= 1.
	Duration int `yaml:"duration"`

	// Seed for the random source. 0 means seed from wall clock at startup.
	Seed int64 `yaml:"seed"`

	Modulation ModulationConfig `yaml:"modulation"`

	// Live enables substitution of the EEG channel from an external
	// sensor stream. Nil means fully synthetic.
	Live *LiveConfig `yaml:"live,omitempty"`
}

// ModulationConfig toggles the per-timestep modulation factors.
type ModulationConfig struct {
	Circadian  bool `yaml:"circadian"`
	Fatigue    bool `yaml:"fatigue"`
	Food       bool `yaml:"food"`
	Medication bool `yaml:"medication"`
}

// LiveConfig describes the external sensor stream.
type LiveConfig struct {
	// Transport selects the sensor backend: "nats" or "mqtt".
	Transport string `yaml:"transport"`
	// URL of the broker, e.g. nats://127.0.0.1:4222 or tcp://127.0.0.1:1883.
	URL string `yaml:"url"`
	// Subject (NATS) or topic (MQTT) carrying the EEG samples.
	Subject string `yaml:"subject"`
	// StreamType is the advertised stream property value to discover,
	// e.g. "EEG".
	StreamType string `yaml:"streamType"`
	// SamplePath is the gjson path of the scalar inside each payload.
	SamplePath string `yaml:"samplePath"`
	// Username and Password are usually supplied via environment.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	DiscoverTimeout time.Duration `yaml:"discoverTimeout"`
	PullTimeout     time.Duration `yaml:"pullTimeout"`

	// SampleRate paces the simulation loop at this many steps per second
	// while live. 0 disables pacing.
	SampleRate float64 `yaml:"sampleRate"`
}

// Default returns the configuration used when no file is given: 100 steps,
// every modulation factor enabled, synthetic EEG.
func Default() *Config {
	return &Config{
		Duration: 100,
		Modulation: ModulationConfig{
			Circadian:  true,
			Fatigue:    true,
			Food:       true,
			Medication: true,
		},
	}
}

// Load reads and parses a YAML configuration file. Unknown keys are
// rejected so a misspelled flag fails before the run starts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into a Config with defaults applied.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Live == nil {
		return
	}
	if c.Live.DiscoverTimeout == 0 {
		c.Live.DiscoverTimeout = DefaultDiscoverTimeout
	}
	if c.Live.PullTimeout == 0 {
		c.Live.PullTimeout = DefaultPullTimeout
	}
	if c.Live.StreamType == "" {
		c.Live.StreamType = "EEG"
	}
	if c.Live.SamplePath == "" {
		c.Live.SamplePath = "samples"
	}
}

// Validate rejects configurations the engine must not run with.
func (c *Config) Validate() error {
	if c.Duration < 1 {
		return fmt.Errorf("duration must be >= 1, got %d", c.Duration)
	}
	if c.Live != nil {
		switch c.Live.Transport {
		case "nats", "mqtt":
		default:
			return fmt.Errorf("unknown live transport %q (use nats or mqtt)", c.Live.Transport)
		}
		if c.Live.URL == "" {
			return fmt.Errorf("live.url is required when live is configured")
		}
		if c.Live.Subject == "" {
			return fmt.Errorf("live.subject is required when live is configured")
		}
	}
	return nil
}

// Toggles returns the modulation flags in the model's representation.
func (m ModulationConfig) Toggles() model.Toggles {
	return model.Toggles{
		Circadian:  m.Circadian,
		Fatigue:    m.Fatigue,
		Food:       m.Food,
		Medication: m.Medication,
	}
}
