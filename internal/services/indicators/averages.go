package indicators

// SMA returns the mean of the last period closes.
// With fewer than period closes it falls back to the latest close, or 0 for an empty series.
func SMA(closes []float64, period int) float64 {
	n := len(closes)
	if period <= 0 || n < period {
		if n == 0 {
			return 0
		}
		return closes[n-1]
	}
	return mean(closes[n-period:])
}

// WarmupSMA averages the last min(period, n) closes, so short series still yield a mean.
func WarmupSMA(closes []float64, period int) float64 {
	n := len(closes)
	if n == 0 || period <= 0 {
		return 0
	}
	if n < period {
		period = n
	}
	return mean(closes[n-period:])
}

// EMA returns the latest exponential moving average seeded with the first close.
func EMA(closes []float64, period int) float64 {
	if len(closes) == 0 {
		return 0
	}
	k := 2.0 / float64(period+1)
	ema := closes[0]
	for _, p := range closes[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
