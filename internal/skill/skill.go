package skill

const (
	// DefaultEstimate is the prior skill at session start.
	DefaultEstimate = 0.5

	// HistoryWeight is the weight kept on the prior estimate.
	HistoryWeight = 0.7

	// ObservationWeight is the weight given to the new observation.
	ObservationWeight = 0.3
)

// Update blends the prior skill estimate with a confidence-weighted
// observation of the latest answer. The result is clamped to [0, 1].
func Update(prior float64, correct bool, confidence float64) float64 {
	confidence = clamp(confidence, 0, 1)
	confidenceFactor := confidence
	if !correct {
		confidenceFactor = 1 - confidence
	}

	observed := 0.0
	if correct {
		observed = 1.0
	}

	return clamp(clamp(prior, 0, 1)*HistoryWeight+observed*ObservationWeight*confidenceFactor, 0, 1)
}

// Estimator tracks a running skill estimate across answers.
type Estimator struct {
	value float64
}

// NewEstimator returns an estimator starting at initial.
func NewEstimator(initial float64) *Estimator {
	return &Estimator{value: clamp(initial, 0, 1)}
}

// Observe folds an answer into the estimate and returns the new value.
func (e *Estimator) Observe(correct bool, confidence float64) float64 {
	e.value = Update(e.value, correct, confidence)
	return e.value
}

// Value returns the current estimate.
func (e *Estimator) Value() float64 {
	return e.value
}

// Reset sets the estimate back to v.
func (e *Estimator) Reset(v float64) {
	e.value = clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
