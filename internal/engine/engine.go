// Package engine drives the timestep loop and assembles the output series.
package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/time/rate"

	"vagus/internal/config"
	"vagus/internal/core"
	"vagus/internal/model"
)

// Engine runs one simulation per call to Run. An Engine is NOT safe for
// concurrent use: concurrent runs must not share a random source or a
// sensor binding, so give each its own Engine.
type Engine struct {
	Config *config.Config
	Rand   core.Rand

	// Source provides live EEG samples. Ignored when Config.Live is nil.
	Source core.Source

	// Logger receives the non-fatal sensor warnings. Defaults to stderr.
	Logger *log.Logger
}

// eegMode is decided once, before the loop. The binding never changes
// mid-run, so the loop never re-checks availability.
type eegMode interface {
	next(ctx context.Context, t int) float64
}

// syntheticEEG generates every sample from the model.
type syntheticEEG struct {
	rng core.Rand
}

func (m *syntheticEEG) next(_ context.Context, t int) float64 {
	return model.SyntheticEEG(t, m.rng)
}

// liveEEG pulls every sample from a bound stream, substituting a synthetic
// value for any timestep whose pull times out.
type liveEEG struct {
	stream  core.Stream
	timeout time.Duration
	rng     core.Rand
	logger  *log.Logger
}

func (m *liveEEG) next(ctx context.Context, t int) float64 {
	v, err := m.stream.Pull(ctx, m.timeout)
	if err != nil {
		m.logger.Printf("live EEG pull failed at t=%d, substituting synthetic sample: %v", t, err)
		return model.SyntheticEEG(t, m.rng)
	}
	return v
}

// Run executes one full simulation and returns a fresh series.
//
// Configuration errors are fatal and returned before the loop starts.
// Sensor problems are never fatal: discovery failure degrades the whole
// run to synthetic EEG with a logged warning, and a pull timeout degrades
// only that timestep.
func (e *Engine) Run(ctx context.Context) (*core.Series, error) {
	if e.Config == nil {
		return nil, fmt.Errorf("engine: nil config")
	}
	if err := e.Config.Validate(); err != nil {
		return nil, fmt.Errorf("engine: invalid config: %w", err)
	}
	if e.Rand == nil {
		return nil, fmt.Errorf("engine: nil random source")
	}

	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}

	eeg, limiter, cleanup := e.selectEEGMode(ctx, logger)
	defer cleanup()

	tog := e.Config.Modulation.Toggles()
	series := core.NewSeries(e.Config.Duration)

	for t := 0; t < e.Config.Duration; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("engine: run cancelled at t=%d: %w", t, err)
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("engine: run cancelled at t=%d: %w", t, err)
			}
		}

		st := model.Step(t, tog, e.Rand)
		sample := eeg.next(ctx, t)
		series.Append(t, st.Balance, st.Stimulus, st.Glucose, st.BAT, st.Cytokine, st.Energy, sample)
	}

	return series, nil
}

// selectEEGMode hoists the live-vs-synthetic decision out of the loop.
// The returned cleanup closes the stream binding, if any.
func (e *Engine) selectEEGMode(ctx context.Context, logger *log.Logger) (eegMode, *rate.Limiter, func()) {
	noop := func() {}
	live := e.Config.Live
	if live == nil || e.Source == nil {
		return &syntheticEEG{rng: e.Rand}, nil, noop
	}

	stream, err := e.Source.Discover(ctx, "type", live.StreamType, live.DiscoverTimeout)
	if err != nil {
		logger.Printf("live EEG discovery failed, falling back to synthetic EEG for the whole run: %v", err)
		return &syntheticEEG{rng: e.Rand}, nil, noop
	}

	logger.Printf("live EEG stream bound (%s %s)", live.Transport, live.Subject)
	mode := &liveEEG{stream: stream, timeout: live.PullTimeout, rng: e.Rand, logger: logger}

	var limiter *rate.Limiter
	if live.SampleRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(live.SampleRate), 1)
	}

	return mode, limiter, func() {
		if err := stream.Close(); err != nil {
			logger.Printf("closing live EEG stream: %v", err)
		}
	}
}

// discard is a logger sink for callers that want a silent engine.
var discard = log.New(io.Discard, "", 0)

// SilentLogger returns a logger that drops everything. Tests use it to
// keep output clean while still exercising the logging paths.
func SilentLogger() *log.Logger {
	return discard
}
