package models

// Signal is the discrete reading attached to a single indicator.
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalNeutral Signal = "NEUTRAL"
)

// Indicator names used as IndicatorSnapshot keys.
const (
	IndicatorRSI       = "RSI"
	IndicatorMACD      = "MACD"
	IndicatorSMA20     = "SMA_20"
	IndicatorBollinger = "BOLLINGER"
)

type IndicatorValue struct {
	Value       float64 `json:"value"`
	Signal      Signal  `json:"signal"`
	Description string  `json:"description"`
}

// IndicatorSnapshot is computed fresh from a price series and has no identity of its own.
type IndicatorSnapshot map[string]IndicatorValue

// IndicatorsResponse is returned by the indicators endpoint.
type IndicatorsResponse struct {
	Symbol     string            `json:"symbol"`
	Price      float64           `json:"price"`
	Indicators IndicatorSnapshot `json:"indicators"`
	DataSource string            `json:"dataSource"`
}
