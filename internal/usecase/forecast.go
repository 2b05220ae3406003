package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domsvc "StockCast/internal/domain/service"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// StockSource supplies the latest price history for a symbol.
type StockSource interface {
	GetStock(ctx context.Context, symbol string) (*models.StockData, error)
}

// ForecastUsecase generates forecasts and fans them out to history and events.
type ForecastUsecase struct {
	engine    domsvc.Forecaster
	calc      domsvc.IndicatorCalculator
	stocks    StockSource
	store     domrepo.ForecastStore
	publisher domrepo.ForecastPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

// NewForecastUsecase wires the use case. publisher may be nil when events are disabled.
func NewForecastUsecase(
	engine domsvc.Forecaster,
	calc domsvc.IndicatorCalculator,
	stocks StockSource,
	store domrepo.ForecastStore,
	publisher domrepo.ForecastPublisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *ForecastUsecase {
	return &ForecastUsecase{
		engine:    engine,
		calc:      calc,
		stocks:    stocks,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		l:         l.With("forecast"),
	}
}

// Predict forecasts from caller-supplied bars.
func (u *ForecastUsecase) Predict(ctx context.Context, symbol string, bars []models.PriceBar) (*models.ForecastRecord, error) {
	sym := util.NormalizeSymbol(symbol)
	if !util.ValidSymbol(sym) {
		return nil, fmt.Errorf("%q: %w", symbol, ErrInvalidSymbol)
	}

	start := time.Now()
	rec, err := u.engine.GenerateForecast(ctx, sym, bars)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			u.metrics.RecordValidationError(string(verr.Kind))
		} else {
			u.metrics.RecordError("forecast")
		}
		return nil, err
	}
	u.metrics.RecordForecast(sym, rec.Recommendation, time.Since(start).Seconds())
	u.metrics.RecordLastPrice(sym, bars[len(bars)-1].Close)

	u.persist(ctx, rec)
	return rec, nil
}

// PredictLatest forecasts from the provider history, falling back to demo history.
func (u *ForecastUsecase) PredictLatest(ctx context.Context, symbol string) (*models.ForecastRecord, error) {
	stock, err := u.stocks.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return u.Predict(ctx, stock.Symbol, stock.HistoricalData)
}

// History lists stored forecasts, newest first.
func (u *ForecastUsecase) History(ctx context.Context, symbol string, limit int) ([]*models.ForecastRecord, error) {
	sym := util.NormalizeSymbol(symbol)
	if !util.ValidSymbol(sym) {
		return nil, fmt.Errorf("%q: %w", symbol, ErrInvalidSymbol)
	}
	recs, err := u.store.ListBySymbol(ctx, sym, limit)
	if err != nil {
		u.metrics.RecordError("store")
		return nil, fmt.Errorf("forecast history: %w", err)
	}
	return recs, nil
}

// Indicators computes a snapshot over the latest history.
func (u *ForecastUsecase) Indicators(ctx context.Context, symbol string) (*models.IndicatorsResponse, error) {
	stock, err := u.stocks.GetStock(ctx, symbol)
	if err != nil {
		return nil, err
	}
	closes := models.Closes(stock.HistoricalData)
	price := stock.CurrentPrice
	if len(closes) > 0 {
		price = closes[len(closes)-1]
	}
	return &models.IndicatorsResponse{
		Symbol:     stock.Symbol,
		Price:      price,
		Indicators: u.calc.Snapshot(closes),
		DataSource: stock.DataSource,
	}, nil
}

// persist is best effort: the caller already has its forecast.
func (u *ForecastUsecase) persist(ctx context.Context, rec *models.ForecastRecord) {
	if err := u.store.Save(ctx, rec); err != nil {
		u.metrics.RecordError("store")
		u.l.Warn("forecast not stored",
			applogger.String("symbol", rec.Symbol),
			applogger.String("id", rec.ID),
			applogger.Error(err),
		)
	}
	if u.publisher == nil {
		return
	}
	if err := u.publisher.PublishForecast(ctx, rec); err != nil {
		u.metrics.RecordError("publish")
		u.l.Warn("forecast event not published",
			applogger.String("symbol", rec.Symbol),
			applogger.String("id", rec.ID),
			applogger.Error(err),
		)
	}
}
