package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a price for display.
func Round2(v float64) float64 { return roundPlaces(v, 2) }

// Round1 rounds a percentage for display.
func Round1(v float64) float64 { return roundPlaces(v, 1) }

func roundPlaces(v float64, places int32) float64 {
	// decimal panics on NaN and Inf
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
