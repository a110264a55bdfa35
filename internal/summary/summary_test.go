package summary

import (
	"math"
	"strings"
	"testing"

	"vagus/internal/core"
)

func TestClassify_OrderedDecisionList(t *testing.T) {
	tests := []struct {
		name                               string
		balance, cytokine, energy, glucose float64
		want                               Outcome
	}{
		{"strong recovery", 3, 8, 70, 90, OutcomeStrongRecovery},
		{"parasympathetic underactivity", -3, 12, 50, 90, OutcomeParasympatheticLow},
		{"suboptimal metabolic", 0, 12, 70, 110, OutcomeSuboptimalMetabolic},
		{"stable homeostasis", 0, 12, 70, 90, OutcomeStableHomeostasis},
		// Rule 1 wins even when rule 3 would also match.
		{"first match wins", 3, 8, 70, 110, OutcomeStrongRecovery},
		// High balance alone is not enough for rule 1.
		{"high balance high cytokine", 3, 12, 70, 90, OutcomeStableHomeostasis},
		// Low balance alone is not enough for rule 2.
		{"low balance high energy", -3, 12, 70, 90, OutcomeStableHomeostasis},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.balance, tt.cytokine, tt.energy, tt.glucose)
			if got != tt.want {
				t.Errorf("Classify(%v, %v, %v, %v) = %v, want %v",
					tt.balance, tt.cytokine, tt.energy, tt.glucose, got, tt.want)
			}
		})
	}
}

func TestNutritionRecs(t *testing.T) {
	// All conditions triggered: three conditional entries plus the
	// unconditional vagal-tone entry, in order.
	recs := NutritionRecs(20, 110, 45)
	if len(recs) != 4 {
		t.Fatalf("expected 4 recommendations, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "omega-3") {
		t.Errorf("expected omega-3 first, got %q", recs[0])
	}
	if !strings.Contains(recs[1], "low-GI") {
		t.Errorf("expected low-GI second, got %q", recs[1])
	}
	if !strings.Contains(recs[2], "MCT") {
		t.Errorf("expected MCT third, got %q", recs[2])
	}

	// No conditions triggered: only the unconditional entry remains.
	recs = NutritionRecs(10, 90, 60)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "vagal tone") {
		t.Errorf("expected unconditional vagal-tone entry, got %q", recs[0])
	}
}

func TestExerciseRecs(t *testing.T) {
	recs := ExerciseRecs(70, 1)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if !strings.Contains(recs[0], "interval cycling") {
		t.Errorf("expected interval cycling for high energy and positive balance, got %q", recs[0])
	}

	recs = ExerciseRecs(50, 1)
	if !strings.Contains(recs[0], "breathing") {
		t.Errorf("expected breathing recommendation for low energy, got %q", recs[0])
	}

	// The cold-exposure entry is always last.
	for _, args := range [][2]float64{{70, 1}, {50, -1}, {61, 0}} {
		recs := ExerciseRecs(args[0], args[1])
		last := recs[len(recs)-1]
		if !strings.Contains(last, "cold-exposure") {
			t.Errorf("ExerciseRecs(%v, %v): expected trailing cold-exposure entry, got %q",
				args[0], args[1], last)
		}
	}
}

func TestCompute(t *testing.T) {
	s := Compute([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 {
		t.Errorf("expected mean 2.5, got %v", s.Mean)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Errorf("expected min 1 max 4, got min %v max %v", s.Min, s.Max)
	}
	want := math.Sqrt(1.25) // population std
	if math.Abs(s.Std-want) > 1e-12 {
		t.Errorf("expected std %v, got %v", want, s.Std)
	}
}

func TestCompute_Empty(t *testing.T) {
	if s := Compute(nil); s != (Stats{}) {
		t.Errorf("expected zero stats for empty input, got %+v", s)
	}
}

func TestResilienceScore(t *testing.T) {
	// 5 + mean([1,2]) - 0.1*mean(|[-5,5]|) = 5 + 1.5 - 0.5 = 6.00
	if got := ResilienceScore([]float64{1, 2}, []float64{-5, 5}); got != 6.0 {
		t.Errorf("expected score 6.0, got %v", got)
	}
	// The score has no floor: it can go negative.
	if got := ResilienceScore([]float64{-10}, []float64{10}); got != -6.0 {
		t.Errorf("expected score -6.0, got %v", got)
	}
	// Rounded to two decimals.
	if got := ResilienceScore([]float64{0.333}, []float64{0}); got != 5.33 {
		t.Errorf("expected score 5.33, got %v", got)
	}
}

func buildSeries(t *testing.T, rows [][7]float64) *core.Series {
	t.Helper()
	s := core.NewSeries(len(rows))
	for i, r := range rows {
		s.Append(i, r[0], r[1], r[2], r[3], r[4], r[5], r[6])
	}
	return s
}

func TestBuild_UsesFinalTimestep(t *testing.T) {
	// balance, stimulus, glucose, bat, cytokine, energy, eeg
	s := buildSeries(t, [][7]float64{
		{-5, -10, 120, 5, 25, 45, 0},
		{3, 10, 90, 12, 8, 70, 0.5}, // final step matches rule 1
	})

	sum, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Outcome != OutcomeStrongRecovery {
		t.Errorf("expected strong recovery from final timestep, got %v", sum.Outcome)
	}
	if sum.Feedback == "" {
		t.Error("expected non-empty feedback text")
	}
	// mean(balance) = -1, mean(|stim|) = 10 -> 5 - 1 - 1 = 3.00
	if sum.ResilienceScore != 3.0 {
		t.Errorf("expected resilience score 3.0, got %v", sum.ResilienceScore)
	}
	if !strings.Contains(sum.Technical, "2 timepoints") {
		t.Errorf("expected technical paragraph to embed the run length, got %q", sum.Technical)
	}
}

func TestBuild_EmptySeries(t *testing.T) {
	if _, err := Build(core.NewSeries(0)); err == nil {
		t.Fatal("expected error for empty series, got nil")
	}
	if _, err := Build(nil); err == nil {
		t.Fatal("expected error for nil series, got nil")
	}
}

func TestBuild_AggregateStats(t *testing.T) {
	s := buildSeries(t, [][7]float64{
		{1, 2, 80, 10, 10, 60, 0},
		{3, 4, 100, 20, 20, 80, 1},
	})

	sum, err := Build(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Balance.Mean != 2 {
		t.Errorf("expected balance mean 2, got %v", sum.Balance.Mean)
	}
	if sum.Glucose.Min != 80 || sum.Glucose.Max != 100 {
		t.Errorf("unexpected glucose stats: %+v", sum.Glucose)
	}
	if sum.EEG.Mean != 0.5 {
		t.Errorf("expected EEG mean 0.5, got %v", sum.EEG.Mean)
	}
}
