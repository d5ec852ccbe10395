// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the break-even search for a single scenario.
type Summary struct {
	Scenario     string   `json:"scenario"`
	Goal         string   `json:"goal"`
	Floor        float64  `json:"floor"`
	Original     float64  `json:"original"`
	Value        float64  `json:"value"`
	Achieved     float64  `json:"achieved"`
	Headroom     float64  `json:"headroom"`
	Iterations   int      `json:"iterations"`
	Converged    bool     `json:"converged"`
	Notes        []string `json:"notes,omitempty"`
	ValueDisplay string   `json:"valueDisplay,omitempty"`
}

// Shift is how far the sensitivity must move from where it is now.
func (s Summary) Shift() float64 {
	return s.Value - s.Original
}
