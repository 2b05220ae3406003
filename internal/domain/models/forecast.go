package models

import "time"

// AlgorithmLabel identifies the blended forecast model.
const AlgorithmLabel = "Ensemble (Linear Regression + Monte Carlo)"

// ForecastHorizon is the fixed number of predicted days.
const ForecastHorizon = 7

// MinForecastBars is the shortest series the forecast engine accepts.
const MinForecastBars = 10

type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

type Momentum string

const (
	MomentumOverbought Momentum = "OVERBOUGHT"
	MomentumOversold   Momentum = "OVERSOLD"
	MomentumNeutral    Momentum = "NEUTRAL"
)

type Recommendation string

const (
	RecommendationBuy  Recommendation = "BUY"
	RecommendationSell Recommendation = "SELL"
	RecommendationHold Recommendation = "HOLD"
)

type Prediction struct {
	Date       string  `json:"date"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
}

// TechnicalIndicators is the indicator block embedded in a forecast. Volatility is a percentage.
type TechnicalIndicators struct {
	SMA20      float64 `json:"sma20"`
	SMA50      float64 `json:"sma50"`
	RSI        float64 `json:"rsi"`
	Volatility float64 `json:"volatility"`
}

type Signals struct {
	Trend    Trend    `json:"trend"`
	Momentum Momentum `json:"momentum"`
	MACD     Trend    `json:"macd"`
}

// ForecastRecord is the result of one forecast run.
type ForecastRecord struct {
	ID                  string              `json:"id"`
	Symbol              string              `json:"symbol"`
	Predictions         []Prediction        `json:"predictions"`
	TechnicalIndicators TechnicalIndicators `json:"technicalIndicators"`
	Signals             Signals             `json:"signals"`
	Recommendation      Recommendation      `json:"recommendation"`
	Accuracy            float64             `json:"accuracy"`
	Algorithm           string              `json:"algorithm"`
	Degenerate          bool                `json:"degenerate,omitempty"`
	LastUpdated         time.Time           `json:"lastUpdated"`
}
