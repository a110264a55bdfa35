// Package report renders a completed run for downstream consumers: a
// human-readable session report, a JSON document, and the flat CSV table
// one row per timestep.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"vagus/internal/core"
	"vagus/internal/summary"
)

// csvHeader is the column contract of the tabular dump.
var csvHeader = []string{"Time", "Balance", "VNS", "Glucose", "BAT", "Cytokines", "Energy", "EEG", "Feedback"}

// WriteCSV writes the series as a flat table: one row per timestep, one
// column per channel, plus the feedback string repeated on every row.
func WriteCSV(w io.Writer, s *core.Series, feedback string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := 0; i < s.Len(); i++ {
		row := []string{
			strconv.Itoa(s.Time[i]),
			formatFloat(s.Balance[i]),
			formatFloat(s.Stimulus[i]),
			formatFloat(s.Glucose[i]),
			formatFloat(s.BAT[i]),
			formatFloat(s.Cytokine[i]),
			formatFloat(s.Energy[i]),
			formatFloat(s.EEG[i]),
			feedback,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatText writes the session summary in human-readable form.
func FormatText(w io.Writer, sum *summary.Summary) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Vagus - Session Report")
	fmt.Fprintln(w, "======================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Resilience Score: %.2f\n", sum.ResilienceScore)
	fmt.Fprintf(w, "Outcome:          %s\n", sum.Outcome)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, sum.Feedback)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Technical Summary:")
	fmt.Fprintln(w, "  "+sum.Technical)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Detailed Analysis:")
	fmt.Fprintln(w, "  "+sum.Detail)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Nutrition Recommendations:")
	for _, r := range sum.Nutrition {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Exercise Recommendations:")
	for _, r := range sum.Exercise {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Session Metrics:")
	for _, ch := range []struct {
		name  string
		stats summary.Stats
	}{
		{"Balance", sum.Balance},
		{"VNS", sum.Stimulus},
		{"Glucose", sum.Glucose},
		{"BAT", sum.BAT},
		{"Cytokines", sum.Cytokine},
		{"Energy", sum.Energy},
		{"EEG", sum.EEG},
	} {
		fmt.Fprintf(w, "  %-10s mean=%.2f  std=%.2f  min=%.2f  max=%.2f\n",
			ch.name, ch.stats.Mean, ch.stats.Std, ch.stats.Min, ch.stats.Max)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, sum.Headline)
}

// FormatJSON writes the series and summary as a single JSON document.
func FormatJSON(w io.Writer, s *core.Series, sum *summary.Summary) error {
	out := struct {
		Series  *core.Series     `json:"series"`
		Summary *summary.Summary `json:"summary"`
	}{Series: s, Summary: sum}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
