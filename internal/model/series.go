package model

// OHLCVSeries is the canonical price series every provider adapter produces.
// Index i refers to the same time bar across all four slices, and index 0 is
// always the oldest bar. Adapters are responsible for reordering upstream data
// that arrives newest-first before returning a series.
type OHLCVSeries struct {
	Closes  []float64 `json:"closes"`
	Highs   []float64 `json:"highs"`
	Lows    []float64 `json:"lows"`
	Volumes []float64 `json:"volumes"`
}

// Len returns the number of bars in the series.
func (s *OHLCVSeries) Len() int {
	return len(s.Closes)
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s *OHLCVSeries) LastClose() float64 {
	if len(s.Closes) == 0 {
		return 0
	}
	return s.Closes[len(s.Closes)-1]
}

// TailCloses returns up to the n most recent closes, oldest-first order
// preserved. The returned slice is a copy.
func (s *OHLCVSeries) TailCloses(n int) []float64 {
	if n <= 0 || len(s.Closes) == 0 {
		return []float64{}
	}
	start := len(s.Closes) - n
	if start < 0 {
		start = 0
	}
	tail := make([]float64, len(s.Closes)-start)
	copy(tail, s.Closes[start:])
	return tail
}
