package core

// Series is the engine's output: eight parallel channels, one entry per
// timestep. All channels share the Time index. A Series is created fresh
// per run and owned solely by the caller that receives it.
type Series struct {
	Time     []int     `json:"time"`
	Balance  []float64 `json:"balance"`
	Stimulus []float64 `json:"stimulus"`
	Glucose  []float64 `json:"glucose"`
	BAT      []float64 `json:"bat"`
	Cytokine []float64 `json:"cytokine"`
	Energy   []float64 `json:"energy"`
	EEG      []float64 `json:"eeg"`
}

// NewSeries returns a Series with every channel pre-allocated for n steps.
func NewSeries(n int) *Series {
	return &Series{
		Time:     make([]int, 0, n),
		Balance:  make([]float64, 0, n),
		Stimulus: make([]float64, 0, n),
		Glucose:  make([]float64, 0, n),
		BAT:      make([]float64, 0, n),
		Cytokine: make([]float64, 0, n),
		Energy:   make([]float64, 0, n),
		EEG:      make([]float64, 0, n),
	}
}

// Len returns the number of recorded timesteps.
func (s *Series) Len() int {
	return len(s.Time)
}

// Append records one timestep across all channels.
func (s *Series) Append(t int, balance, stimulus, glucose, bat, cytokine, energy, eeg float64) {
	s.Time = append(s.Time, t)
	s.Balance = append(s.Balance, balance)
	s.Stimulus = append(s.Stimulus, stimulus)
	s.Glucose = append(s.Glucose, glucose)
	s.BAT = append(s.BAT, bat)
	s.Cytokine = append(s.Cytokine, cytokine)
	s.Energy = append(s.Energy, energy)
	s.EEG = append(s.EEG, eeg)
}

// Last returns the final value of each float channel. It panics on an
// empty series; the engine guarantees at least one timestep.
func (s *Series) Last() (balance, stimulus, glucose, bat, cytokine, energy, eeg float64) {
	i := s.Len() - 1
	return s.Balance[i], s.Stimulus[i], s.Glucose[i], s.BAT[i], s.Cytokine[i], s.Energy[i], s.EEG[i]
}
