package forecast

const (
	linearWeight     = 0.6
	monteCarloWeight = 0.4

	baseConfidence       = 85.0
	minConfidence        = 50.0
	maxVolatilityPenalty = 20.0
	dailyDecay           = 3.0

	baseAccuracy = 75.0
	minAccuracy  = 60.0
	maxAccuracy  = 95.0
)

// Blend weights the deterministic regression above the stochastic simulation.
func Blend(linear, monteCarlo []float64) []float64 {
	out := make([]float64, min(len(linear), len(monteCarlo)))
	for i := range out {
		out[i] = linearWeight*linear[i] + monteCarloWeight*monteCarlo[i]
	}
	return out
}

// Confidence for day index i (0 = tomorrow). Bounded to [50, 85].
func Confidence(volatility float64, i int) float64 {
	penalty := min(volatility*100, maxVolatilityPenalty)
	return max(baseConfidence-penalty-dailyDecay*float64(i), minConfidence)
}

// Accuracy is static metadata derived from volatility, not a backtested score.
func Accuracy(volatility float64) float64 {
	bonus := 0.0
	switch {
	case volatility < 0.2:
		bonus = 10
	case volatility > 0.4:
		bonus = -10
	}
	return min(max(baseAccuracy+bonus, minAccuracy), maxAccuracy)
}
