package models

// PriceBar is one trading day's observation. Dates use the YYYY-MM-DD layout.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open" validate:"gte=0"`
	High   float64 `json:"high" validate:"gte=0"`
	Low    float64 `json:"low" validate:"gte=0"`
	Close  float64 `json:"close" validate:"gte=0"`
	Volume int64   `json:"volume" validate:"gte=0"`
}

// Closes extracts closing prices in series order. The input is not modified.
func Closes(bars []PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
