package indicators

import (
	"math"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/service"
)

// flatEpsilon treats tiny float residue (e.g. EMA of a constant series) as zero.
const flatEpsilon = 1e-9

// Calculator builds indicator snapshots.
type Calculator struct{}

var _ service.IndicatorCalculator = Calculator{}

func NewCalculator() Calculator { return Calculator{} }

// Snapshot computes every indicator with its discrete signal.
func (Calculator) Snapshot(closes []float64) models.IndicatorSnapshot {
	price := 0.0
	if len(closes) > 0 {
		price = closes[len(closes)-1]
	}

	rsi := RSI(closes, RSIPeriod)
	macd := MACD(closes)
	sma20 := SMA(closes, BollingerPeriod)
	bands := Bollinger(closes, BollingerPeriod, BollingerStdDevs)

	return models.IndicatorSnapshot{
		models.IndicatorRSI: {
			Value:       rsi,
			Signal:      RSISignal(rsi),
			Description: "Relative Strength Index - measures overbought/oversold conditions",
		},
		models.IndicatorMACD: {
			Value:       macd.Line,
			Signal:      MACDSignal(macd.Histogram),
			Description: "Moving Average Convergence Divergence - trend following momentum indicator",
		},
		models.IndicatorSMA20: {
			Value:       sma20,
			Signal:      SMASignal(price, sma20),
			Description: "Simple Moving Average - trend direction indicator",
		},
		models.IndicatorBollinger: {
			Value:       bands.PercentB(price),
			Signal:      BollingerSignal(price, bands),
			Description: "Volatility indicator using standard deviation",
		},
	}
}

func RSISignal(rsi float64) models.Signal {
	switch {
	case rsi > 70:
		return models.SignalSell
	case rsi < 30:
		return models.SignalBuy
	default:
		return models.SignalNeutral
	}
}

func MACDSignal(histogram float64) models.Signal {
	switch {
	case math.Abs(histogram) < flatEpsilon:
		return models.SignalNeutral
	case histogram > 0:
		return models.SignalBuy
	default:
		return models.SignalSell
	}
}

// SMASignal is BUY while price trades above the average.
func SMASignal(price, sma float64) models.Signal {
	if price > sma {
		return models.SignalBuy
	}
	return models.SignalSell
}

func BollingerSignal(price float64, b Bands) models.Signal {
	switch {
	case price > b.Upper:
		return models.SignalSell
	case price < b.Lower:
		return models.SignalBuy
	default:
		return models.SignalNeutral
	}
}
