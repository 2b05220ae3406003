package indicators

import "math"

const (
	RSIPeriod          = 14
	BollingerPeriod    = 20
	BollingerStdDevs   = 2.0
	MACDFast           = 12
	MACDSlow           = 26
	macdSignalFraction = 0.9
)

// RSI averages the last period gains and losses (a trailing simple mean, not Wilder smoothing).
// It returns 50 when fewer than period+1 closes exist or when the window has no movement,
// and 100 when the window has gains but no losses.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return 50
	}
	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		switch {
		case change > 0:
			gains = append(gains, change)
			losses = append(losses, 0)
		case change < 0:
			gains = append(gains, 0)
			losses = append(losses, -change)
		default:
			gains = append(gains, 0)
			losses = append(losses, 0)
		}
	}
	avgGain := sum(gains[len(gains)-period:]) / float64(period)
	avgLoss := sum(losses[len(losses)-period:]) / float64(period)

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger builds bands around SMA(period). The deviation is measured from the SMA value,
// over the last period closes (or all of them when the series is shorter).
func Bollinger(closes []float64, period int, stdDevs float64) Bands {
	middle := SMA(closes, period)
	window := closes
	if len(closes) > period {
		window = closes[len(closes)-period:]
	}
	if len(window) == 0 {
		return Bands{}
	}
	variance := 0.0
	for _, p := range window {
		d := p - middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(len(window)))
	return Bands{
		Upper:  middle + sd*stdDevs,
		Middle: middle,
		Lower:  middle - sd*stdDevs,
	}
}

// PercentB locates price inside the bands on a 0..100 scale. Collapsed bands report 50.
func (b Bands) PercentB(price float64) float64 {
	width := b.Upper - b.Lower
	if width == 0 {
		return 50
	}
	return (price - b.Lower) / width * 100
}

type MACDResult struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// MACD computes EMA12 - EMA26 from the latest values. The signal line is approximated
// as 0.9 of the MACD line instead of a 9-period EMA over the MACD history.
func MACD(closes []float64) MACDResult {
	line := EMA(closes, MACDFast) - EMA(closes, MACDSlow)
	signal := line * macdSignalFraction
	return MACDResult{
		Line:      line,
		Signal:    signal,
		Histogram: line - signal,
	}
}

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}
