package indicators

import "math"

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// DefaultVolatility is reported when fewer than two closes are available.
const DefaultVolatility = 0.02

// ComputeReturns computes simple returns r_t = (C_t - C_{t-1}) / C_{t-1}.
// Steps from a zero close are skipped so the result stays finite.
func ComputeReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out = append(out, (closes[i]-prev)/prev)
	}
	return out
}

// Volatility returns annualized volatility from the population variance of daily returns.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return DefaultVolatility
	}
	returns := ComputeReturns(closes)
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)
	variance := 0.0
	for _, r := range returns {
		d := r - m
		variance += d * d
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance * TradingDaysPerYear)
}
