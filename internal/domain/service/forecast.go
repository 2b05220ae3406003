package service

import (
	"context"

	"StockCast/internal/domain/models"
)

// Forecaster turns a price series into a forecast record.
type Forecaster interface {
	GenerateForecast(ctx context.Context, symbol string, bars []models.PriceBar) (*models.ForecastRecord, error)
}

// IndicatorCalculator derives an indicator snapshot from a price series.
type IndicatorCalculator interface {
	Snapshot(closes []float64) models.IndicatorSnapshot
}
