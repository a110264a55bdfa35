// Package model computes one timestep of the physiological state.
//
// All numeric constants below are part of the contract; changing them
// changes the produced series. Every random draw flows through the
// injected core.Rand, in a fixed order, so a seeded run is reproducible.
package model

import (
	"math"

	"vagus/internal/core"
)

// Toggles enables the per-timestep modulation factors.
type Toggles struct {
	Circadian  bool
	Fatigue    bool
	Food       bool
	Medication bool
}

// State holds the derived values of a single timestep. It is ephemeral:
// the engine copies what it needs into the Series and discards it.
type State struct {
	VagalTone       float64
	StressIndex     float64
	Balance         float64
	Stimulus        float64
	Glucose         float64
	BAT             float64
	Cytokine        float64
	Energy          float64
	CircadianFactor float64
}

// normal returns a draw from Normal(mean, sd).
func normal(rng core.Rand, mean, sd float64) float64 {
	return mean + sd*rng.NormFloat64()
}

// uniform returns a draw from Uniform(lo, hi).
func uniform(rng core.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Step computes the state for timestep t.
//
// Draw order is fixed: alpha, beta, heart rate, HRV, breath rate, then the
// fatigue/food/medication factors (only when toggled on), then the glucose,
// BAT, cytokine and energy noise terms. The EEG channel is not drawn here;
// see SyntheticEEG.
func Step(t int, tog Toggles, rng core.Rand) State {
	circ := 1.0
	if tog.Circadian {
		circ = 1 + 0.2*math.Sin(2*math.Pi*float64(t%24)/24)
	}

	alpha := normal(rng, 20, 3)
	beta := normal(rng, 14, 4)
	hr := normal(rng, 75, 5)
	hrv := normal(rng, 55, 8)
	breath := normal(rng, 14, 2)

	fatigueF := 1.0
	if tog.Fatigue {
		fatigueF = uniform(rng, 0.8, 1.0)
	}
	foodF := 1.0
	if tog.Food {
		foodF = uniform(rng, 0.95, 1.05)
	}
	medF := 1.0
	if tog.Medication {
		medF = uniform(rng, 0.9, 1.1)
	}

	vagal := (alpha / (beta + 1)) * (hrv / 100) * circ * fatigueF
	stress := math.Abs(hr-70)/10 + math.Abs(breath-12)/2 + math.Max(0.1, 70-hrv)/20
	balance := vagal - stress
	stimulus := clamp(balance*10, -10, 10)

	return State{
		VagalTone:       vagal,
		StressIndex:     stress,
		Balance:         balance,
		Stimulus:        stimulus,
		Glucose:         math.Max(70, (110-stimulus*1.5)*foodF+normal(rng, 0, 2)),
		BAT:             math.Max(0, 10+stimulus*0.8+normal(rng, 0, 1)),
		Cytokine:        math.Max(5, (20-stimulus*0.9)*medF+normal(rng, 0, 2)),
		Energy:          math.Max(40, 60+stimulus*1.2*circ+normal(rng, 0, 1)),
		CircadianFactor: circ,
	}
}

// SyntheticEEG generates the fallback EEG amplitude for timestep t:
// a 10-cycles-per-100-steps alpha wave plus Normal(0, 0.2) noise.
func SyntheticEEG(t int, rng core.Rand) float64 {
	return math.Sin(2*math.Pi*10*float64(t)/100) + normal(rng, 0, 0.2)
}
