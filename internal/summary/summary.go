// Package summary derives feedback, recommendations and aggregate
// statistics from a completed simulation series.
package summary

import (
	"fmt"

	"vagus/internal/core"
)

// Outcome is the categorical feedback classification of a run.
type Outcome string

const (
	OutcomeStrongRecovery      Outcome = "strong_autonomic_recovery"
	OutcomeParasympatheticLow  Outcome = "parasympathetic_underactivity"
	OutcomeSuboptimalMetabolic Outcome = "suboptimal_metabolic_regulation"
	OutcomeStableHomeostasis   Outcome = "stable_homeostasis"
)

var outcomeText = map[Outcome]string{
	OutcomeStrongRecovery:      "Vagal dominance and low inflammation indicate strong autonomic recovery.",
	OutcomeParasympatheticLow:  "Autonomic imbalance and suppressed energy hint at parasympathetic underactivity.",
	OutcomeSuboptimalMetabolic: "Elevated glucose suggests suboptimal vagal regulation of metabolism.",
	OutcomeStableHomeostasis:   "Markers stable; adaptive VNS is maintaining homeostasis.",
}

// Summary is the immutable result of a completed run.
type Summary struct {
	Outcome   Outcome  `json:"outcome"`
	Feedback  string   `json:"feedback"`
	Nutrition []string `json:"nutrition"`
	Exercise  []string `json:"exercise"`

	// ResilienceScore = round(5 + mean(balance) - 0.1*mean(|stimulus|), 2).
	// Deliberately unbounded; it can go negative or exceed 10.
	ResilienceScore float64 `json:"resilienceScore"`

	Balance  Stats `json:"balance"`
	Stimulus Stats `json:"stimulus"`
	Glucose  Stats `json:"glucose"`
	BAT      Stats `json:"bat"`
	Cytokine Stats `json:"cytokine"`
	Energy   Stats `json:"energy"`
	EEG      Stats `json:"eeg"`

	Technical string `json:"technical"`
	Detail    string `json:"detail"`
	Headline  string `json:"headline"`
}

// Classify maps the final timestep's markers to an outcome. The rules form
// an ordered decision list; the first match wins.
func Classify(balance, cytokine, energy, glucose float64) Outcome {
	switch {
	case balance > 2 && cytokine < 10:
		return OutcomeStrongRecovery
	case balance < -2 && energy < 55:
		return OutcomeParasympatheticLow
	case glucose > 105:
		return OutcomeSuboptimalMetabolic
	default:
		return OutcomeStableHomeostasis
	}
}

// NutritionRecs builds the nutrition list. Rules are independent appends in
// fixed order; the vagal-tone entry is unconditional.
func NutritionRecs(cytokine, glucose, energy float64) []string {
	recs := make([]string, 0, 4)
	if cytokine > 15 {
		recs = append(recs, "Increase omega-3 fatty acids (fish oil) to mitigate inflammation.")
	}
	if glucose > 100 {
		recs = append(recs, "Adopt low-GI vegetables and lean protein to stabilize blood sugar.")
	}
	if energy < 50 {
		recs = append(recs, "Incorporate MCT-rich foods (e.g., coconut oil) for sustained energy.")
	}
	recs = append(recs, "Include turmeric and flavonoid-rich fruits to support vagal tone.")
	return recs
}

// ExerciseRecs builds the exercise list; the cold-exposure entry is
// unconditional.
func ExerciseRecs(energy, balance float64) []string {
	recs := make([]string, 0, 2)
	if energy > 60 && balance > 0 {
		recs = append(recs, "Add moderate-intensity interval cycling to boost cardiovascular resilience.")
	} else {
		recs = append(recs, "Perform daily diaphragmatic breathing and passive range-of-motion exercises.")
	}
	recs = append(recs, "Include cold-exposure sessions to activate BAT and vagal pathways.")
	return recs
}

// ResilienceScore summarizes a run in a single scalar.
func ResilienceScore(balance, stimulus []float64) float64 {
	return round2(5 + Compute(balance).Mean - 0.1*meanAbs(stimulus))
}

// Build computes the full summary for a completed series. Classification
// and recommendations use the final timestep's values; the score and the
// narrative paragraphs use aggregates over the whole series.
func Build(s *core.Series) (*Summary, error) {
	if s == nil || s.Len() == 0 {
		return nil, fmt.Errorf("summary: empty series")
	}

	balance, _, glucose, _, cytokine, energy, _ := s.Last()
	outcome := Classify(balance, cytokine, energy, glucose)

	sum := &Summary{
		Outcome:         outcome,
		Feedback:        outcomeText[outcome],
		Nutrition:       NutritionRecs(cytokine, glucose, energy),
		Exercise:        ExerciseRecs(energy, balance),
		ResilienceScore: ResilienceScore(s.Balance, s.Stimulus),
		Balance:         Compute(s.Balance),
		Stimulus:        Compute(s.Stimulus),
		Glucose:         Compute(s.Glucose),
		BAT:             Compute(s.BAT),
		Cytokine:        Compute(s.Cytokine),
		Energy:          Compute(s.Energy),
		EEG:             Compute(s.EEG),
	}

	sum.Technical = fmt.Sprintf(
		"Over %d timepoints, balance averaged %.2f (±%.2f) with peak %.2f. "+
			"Stimulation peaked at %.2f units, glucose ranged %.1f-%.1f mg/dL, "+
			"cytokines %.1f-%.1f AU, BAT peaked %.1f, energy peaked %.1f kcal/hr.",
		s.Len(), sum.Balance.Mean, sum.Balance.Std, sum.Balance.Max,
		sum.Stimulus.Max, sum.Glucose.Min, sum.Glucose.Max,
		sum.Cytokine.Min, sum.Cytokine.Max, sum.BAT.Max, sum.Energy.Max,
	)
	sum.Detail = fmt.Sprintf(
		"Mean balance %.2f±%.2f across the run. EEG amplitude averaged %.2f±%.2f. "+
			"Glucose held within %.1f-%.1f mg/dL and cytokines within %.1f-%.1f AU.",
		sum.Balance.Mean, sum.Balance.Std, sum.EEG.Mean, sum.EEG.Std,
		sum.Glucose.Min, sum.Glucose.Max, sum.Cytokine.Min, sum.Cytokine.Max,
	)
	sum.Headline = "The data indicate robust autonomic recovery with maintained metabolic homeostasis."

	return sum, nil
}
