package signals

import (
	"math"

	"StockCast/internal/domain/models"
	"StockCast/internal/services/indicators"
)

const (
	shortTrendPeriod = 20
	longTrendPeriod  = 50
	overbought       = 70
	oversold         = 30
)

// Inputs are the indicator readings the synthesizer votes over.
type Inputs struct {
	SMA20 float64
	SMA50 float64
	RSI   float64
	EMA12 float64
	EMA26 float64
}

// InputsFrom derives synthesizer inputs from closing prices. Moving averages use the
// warm-up variant so short series still compare like for like.
func InputsFrom(closes []float64) Inputs {
	return Inputs{
		SMA20: indicators.WarmupSMA(closes, shortTrendPeriod),
		SMA50: indicators.WarmupSMA(closes, longTrendPeriod),
		RSI:   indicators.RSI(closes, indicators.RSIPeriod),
		EMA12: indicators.EMA(closes, indicators.MACDFast),
		EMA26: indicators.EMA(closes, indicators.MACDSlow),
	}
}

// Classify labels trend, momentum and MACD cross.
func Classify(in Inputs) models.Signals {
	return models.Signals{
		Trend:    compare(in.SMA20, in.SMA50),
		Momentum: momentum(in.RSI),
		MACD:     compare(in.EMA12, in.EMA26),
	}
}

// Votes tallies one vote per signal. Neutral readings abstain.
func Votes(s models.Signals) (buy, sell int) {
	switch s.Trend {
	case models.TrendBullish:
		buy++
	case models.TrendBearish:
		sell++
	}
	switch s.Momentum {
	case models.MomentumOversold:
		buy++
	case models.MomentumOverbought:
		sell++
	}
	switch s.MACD {
	case models.TrendBullish:
		buy++
	case models.TrendBearish:
		sell++
	}
	return buy, sell
}

// Recommend takes the majority vote; ties hold.
func Recommend(s models.Signals) models.Recommendation {
	buy, sell := Votes(s)
	switch {
	case buy > sell:
		return models.RecommendationBuy
	case sell > buy:
		return models.RecommendationSell
	default:
		return models.RecommendationHold
	}
}

func momentum(rsi float64) models.Momentum {
	switch {
	case rsi > overbought:
		return models.MomentumOverbought
	case rsi < oversold:
		return models.MomentumOversold
	default:
		return models.MomentumNeutral
	}
}

func compare(fast, slow float64) models.Trend {
	switch {
	case nearlyEqual(fast, slow):
		return models.TrendNeutral
	case fast > slow:
		return models.TrendBullish
	default:
		return models.TrendBearish
	}
}

func nearlyEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= 1e-9*scale
}
