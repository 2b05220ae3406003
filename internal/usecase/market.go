package usecase

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/mockdata"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"

	"golang.org/x/sync/errgroup"
)

type MarketUsecase struct {
	provider domrepo.QuoteProvider
	mock     *mockdata.Generator
	metrics  domrepo.ProviderMetrics
	l        *applogger.Logger
	now      func() time.Time
}

func NewMarketUsecase(provider domrepo.QuoteProvider, mock *mockdata.Generator, metrics domrepo.ProviderMetrics, l *applogger.Logger) *MarketUsecase {
	return &MarketUsecase{provider: provider, mock: mock, metrics: metrics, l: l.With("market"), now: time.Now}
}

// Overview fetches the index quotes concurrently. Each index falls back on its own.
func (u *MarketUsecase) Overview(ctx context.Context) (*models.MarketOverview, error) {
	symbols := mockdata.IndexSymbols()
	out := make([]models.MarketIndex, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, sym := range symbols {
		g.Go(func() error {
			out[i] = u.index(gctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := u.now()
	status := models.MarketClosed
	if util.IsMarketOpen(now) {
		status = models.MarketOpen
	}
	return &models.MarketOverview{
		Indices:      out,
		MarketStatus: status,
		LastUpdated:  now.UTC().Format(time.RFC3339),
	}, nil
}

func (u *MarketUsecase) index(ctx context.Context, sym string) models.MarketIndex {
	q, err := u.provider.GlobalQuote(ctx, sym)
	if err != nil {
		u.l.Debug("index quote unavailable", applogger.String("symbol", sym), applogger.Error(err))
		if u.metrics != nil {
			u.metrics.RecordFallback("market")
		}
		return u.mock.MarketIndex(sym)
	}
	return models.MarketIndex{
		Name:          mockdata.IndexName(sym),
		Symbol:        sym,
		Value:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		Volume:        q.Volume,
		LastUpdated:   q.LatestTradingDay,
	}
}
