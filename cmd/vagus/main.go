package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vagus/internal/config"
	"vagus/internal/core"
	"vagus/internal/engine"
	"vagus/internal/report"
	"vagus/internal/sensor"
	"vagus/internal/summary"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	duration := flag.Int("duration", 100, "number of simulation timesteps")
	circadian := flag.Bool("circadian", true, "enable circadian modulation")
	fatigue := flag.Bool("fatigue", true, "enable fatigue modulation")
	food := flag.Bool("food", true, "enable food modulation")
	medication := flag.Bool("medication", true, "enable medication modulation")
	live := flag.Bool("live", false, "substitute the EEG channel from a live sensor stream")
	transport := flag.String("transport", "nats", "live sensor transport: nats, mqtt")
	brokerURL := flag.String("url", "nats://127.0.0.1:4222", "live sensor broker URL")
	subject := flag.String("subject", "eeg.samples", "live sensor subject/topic")
	seed := flag.Int64("seed", 0, "random seed (0 = time-based)")
	output := flag.String("output", "text", "output format: text, json")
	csvPath := flag.String("csv", "", "write the session table to this CSV file")
	quiet := flag.Bool("quiet", false, "suppress engine warnings")
	flag.Parse()

	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		os.Exit(ExitError)
	}

	// Broker credentials may live in a .env file next to the binary.
	_ = godotenv.Load()

	cfg, err := buildConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	applyFlagOverrides(cfg, *duration, *circadian, *fatigue, *food, *medication,
		*live, *transport, *brokerURL, *subject, *seed)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	runSeed := cfg.Seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	var source core.Source
	if cfg.Live != nil {
		source, err = sensor.FromConfig(cfg.Live)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger = engine.SilentLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	interrupted := false
	go func() {
		<-sigCh
		interrupted = true
		if !*quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
		cancel()
	}()

	eng := &engine.Engine{
		Config: cfg,
		Rand:   rand.New(rand.NewSource(runSeed)),
		Source: source,
		Logger: logger,
	}

	series, err := eng.Run(ctx)
	if err != nil {
		if interrupted {
			os.Exit(ExitSuccess)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	sum, err := summary.Build(series)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}

	if *output == "json" {
		if err := report.FormatJSON(os.Stdout, series, sum); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	} else {
		report.FormatText(os.Stdout, sum)
	}

	// An export failure must not invalidate the already-computed results,
	// so it is reported but the run still counts as complete.
	if *csvPath != "" {
		if err := writeCSVFile(*csvPath, series, sum.Feedback); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else if !*quiet {
			fmt.Fprintf(os.Stderr, "session table written to %s\n", *csvPath)
		}
	}

	os.Exit(ExitSuccess)
}

func buildConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlagOverrides applies only the flags the user actually set, so a
// config file keeps authority over untouched defaults.
func applyFlagOverrides(cfg *config.Config, duration int, circadian, fatigue, food, medication,
	live bool, transport, brokerURL, subject string, seed int64) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["duration"] {
		cfg.Duration = duration
	}
	if set["circadian"] {
		cfg.Modulation.Circadian = circadian
	}
	if set["fatigue"] {
		cfg.Modulation.Fatigue = fatigue
	}
	if set["food"] {
		cfg.Modulation.Food = food
	}
	if set["medication"] {
		cfg.Modulation.Medication = medication
	}
	if set["seed"] {
		cfg.Seed = seed
	}
	if set["live"] && live && cfg.Live == nil {
		cfg.Live = &config.LiveConfig{}
	}
	if set["live"] && !live {
		cfg.Live = nil
	}
	if cfg.Live != nil {
		if set["transport"] || cfg.Live.Transport == "" {
			cfg.Live.Transport = transport
		}
		if set["url"] || cfg.Live.URL == "" {
			cfg.Live.URL = brokerURL
		}
		if set["subject"] || cfg.Live.Subject == "" {
			cfg.Live.Subject = subject
		}
		if cfg.Live.DiscoverTimeout == 0 {
			cfg.Live.DiscoverTimeout = config.DefaultDiscoverTimeout
		}
		if cfg.Live.PullTimeout == 0 {
			cfg.Live.PullTimeout = config.DefaultPullTimeout
		}
		if cfg.Live.StreamType == "" {
			cfg.Live.StreamType = "EEG"
		}
		if cfg.Live.SamplePath == "" {
			cfg.Live.SamplePath = "samples"
		}
	}
}

// applyEnvOverrides picks up broker credentials from the environment
// (optionally loaded from .env) so they never live in config files.
func applyEnvOverrides(cfg *config.Config) {
	if cfg.Live == nil {
		return
	}
	if v := os.Getenv("VAGUS_BROKER_URL"); v != "" {
		cfg.Live.URL = v
	}
	if v := os.Getenv("VAGUS_BROKER_USERNAME"); v != "" {
		cfg.Live.Username = v
	}
	if v := os.Getenv("VAGUS_BROKER_PASSWORD"); v != "" {
		cfg.Live.Password = v
	}
}

func writeCSVFile(path string, series *core.Series, feedback string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := report.WriteCSV(f, series, feedback); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
