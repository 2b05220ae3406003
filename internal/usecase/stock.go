package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/alphavantage"
	"StockCast/internal/service/mockdata"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// StockUsecase serves quote payloads with caching and a demo-data fallback.
type StockUsecase struct {
	provider domrepo.QuoteProvider
	cache    cache.Service
	mock     *mockdata.Generator
	ttl      time.Duration
	metrics  domrepo.ProviderMetrics
	l        *applogger.Logger
}

func NewStockUsecase(provider domrepo.QuoteProvider, c cache.Service, mock *mockdata.Generator, ttl time.Duration, metrics domrepo.ProviderMetrics, l *applogger.Logger) *StockUsecase {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &StockUsecase{provider: provider, cache: c, mock: mock, ttl: ttl, metrics: metrics, l: l.With("stock")}
}

// GetStock never fails for a valid symbol: provider problems degrade to mock data.
func (u *StockUsecase) GetStock(ctx context.Context, symbol string) (*models.StockData, error) {
	sym := util.NormalizeSymbol(symbol)
	if !util.ValidSymbol(sym) {
		return nil, fmt.Errorf("%q: %w", symbol, ErrInvalidSymbol)
	}

	key := cache.StockKey(sym)
	var cached models.StockData
	err := u.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		cached.Cached = true
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		u.l.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	data, err := u.fetch(ctx, sym)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		u.l.Warn("provider unavailable, serving mock data",
			applogger.String("symbol", sym),
			applogger.Bool("rate_limited", errors.Is(err, alphavantage.ErrRateLimited)),
			applogger.Error(err),
		)
		u.recordFallback("stock")
		data = u.mock.Stock(sym)
	}

	if err := u.cache.Set(ctx, key, data, u.ttl); err != nil {
		u.l.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return data, nil
}

func (u *StockUsecase) fetch(ctx context.Context, sym string) (*models.StockData, error) {
	quote, err := u.provider.GlobalQuote(ctx, sym)
	if err != nil {
		return nil, err
	}

	history, err := u.provider.DailySeries(ctx, sym)
	if err != nil || len(history) == 0 {
		if err != nil {
			u.l.Warn("daily series unavailable", applogger.String("symbol", sym), applogger.Error(err))
		}
		u.recordFallback("history")
		history = u.mock.History()
	}

	info := alphavantage.DefaultCompanyInfo(sym)
	if ov, err := u.provider.Overview(ctx, sym); err == nil {
		info = *ov
	} else {
		u.l.Debug("overview unavailable", applogger.String("symbol", sym), applogger.Error(err))
	}

	return &models.StockData{
		Symbol:         sym,
		CurrentPrice:   quote.Price,
		Change:         quote.Change,
		ChangePercent:  quote.ChangePercent,
		Volume:         quote.Volume,
		PreviousClose:  quote.PreviousClose,
		LastUpdated:    util.FirstNonEmpty(quote.LatestTradingDay, util.FormatDate(time.Now())),
		HistoricalData: history,
		CompanyInfo:    info,
		DataSource:     models.SourceAlphaVantage,
	}, nil
}

func (u *StockUsecase) recordFallback(endpoint string) {
	if u.metrics != nil {
		u.metrics.RecordFallback(endpoint)
	}
}
