package summary

import "math"

// Stats contains aggregate statistics for one channel.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Compute calculates aggregate statistics for a channel.
// Pure function, no side effects. Std is the population standard deviation.
func Compute(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	s := Stats{Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(len(values)))

	return s
}

// meanAbs returns the mean of absolute values, used by the resilience score.
func meanAbs(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += math.Abs(v)
	}
	return sum / float64(len(values))
}

// round2 rounds to two decimal places, matching the score contract.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
