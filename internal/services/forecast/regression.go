package forecast

// Fit returns the ordinary least squares line through (i, closes[i]).
// Series shorter than two points have no slope and return the single close as intercept.
func Fit(closes []float64) (slope, intercept float64) {
	n := float64(len(closes))
	if len(closes) == 0 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range closes {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// LinearRegression extrapolates the fitted line days steps past the last close.
// Predictions never go below zero.
func LinearRegression(closes []float64, days int) []float64 {
	slope, intercept := Fit(closes)
	n := len(closes)
	out := make([]float64, days)
	for i := 1; i <= days; i++ {
		x := float64(n + i - 1)
		out[i-1] = max(slope*x+intercept, 0)
	}
	return out
}
