package repository

import (
	"context"

	"StockCast/internal/domain/models"
)

// QuoteProvider supplies market data for a ticker.
type QuoteProvider interface {
	GlobalQuote(ctx context.Context, symbol string) (*models.Quote, error)
	DailySeries(ctx context.Context, symbol string) ([]models.PriceBar, error)
	Overview(ctx context.Context, symbol string) (*models.CompanyInfo, error)
	SymbolSearch(ctx context.Context, keywords string) ([]models.SearchResult, error)
	News(ctx context.Context, limit int) ([]models.Article, error)
}

// ForecastStore persists generated forecasts as history.
type ForecastStore interface {
	Save(ctx context.Context, rec *models.ForecastRecord) error
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.ForecastRecord, error)
}

// ForecastPublisher emits forecast events to downstream consumers.
type ForecastPublisher interface {
	PublishForecast(ctx context.Context, rec *models.ForecastRecord) error
	Close() error
}

type Metrics interface {
	RecordForecast(symbol string, rec models.Recommendation, seconds float64)
	RecordValidationError(kind string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
}

// ProviderMetrics observes calls to the upstream market-data provider.
type ProviderMetrics interface {
	ObserveUpstream(function string, seconds float64, err error)
	RecordFallback(endpoint string)
}
