package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/alphavantage"
	"StockCast/internal/service/mockdata"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

func newStockUsecase(p *fakeProvider, m *fakeMetrics) (*StockUsecase, *cache.MemoryCache) {
	c := cache.NewMemoryCache()
	return NewStockUsecase(p, c, mockdata.New(1, fixedNow), 15*time.Minute, m, applogger.Nop()), c
}

func TestGetStock_InvalidSymbol(t *testing.T) {
	uc, _ := newStockUsecase(&fakeProvider{}, newFakeMetrics())

	for _, sym := range []string{"", "TOOLONG", "AB1", "AAPL.TOOLONG"} {
		_, err := uc.GetStock(context.Background(), sym)
		assert.ErrorIs(t, err, ErrInvalidSymbol, sym)
	}
}

func TestGetStock_LiveThenCached(t *testing.T) {
	p := &fakeProvider{
		quote: map[string]*models.Quote{
			"AAPL": {Symbol: "AAPL", Price: 190.5, Change: 1.5, ChangePercent: 0.79, Volume: 1000, PreviousClose: 189, LatestTradingDay: "2024-03-05"},
		},
		series:   risingBars(20),
		overview: &models.CompanyInfo{Name: "Apple Inc."},
	}
	uc, _ := newStockUsecase(p, newFakeMetrics())

	first, err := uc.GetStock(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, 190.5, first.CurrentPrice)
	assert.Equal(t, models.SourceAlphaVantage, first.DataSource)
	assert.Equal(t, "Apple Inc.", first.CompanyInfo.Name)
	assert.Len(t, first.HistoricalData, 20)
	assert.False(t, first.Cached)

	second, err := uc.GetStock(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.CurrentPrice, second.CurrentPrice)
	assert.Equal(t, 1, p.quoteCalls)
}

func TestGetStock_FallsBackToMock(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rate limited", alphavantage.ErrRateLimited},
		{"no data", alphavantage.ErrNoData},
		{"transport", errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newFakeMetrics()
			uc, _ := newStockUsecase(&fakeProvider{quoteErr: tt.err}, m)

			data, err := uc.GetStock(context.Background(), "MSFT")
			require.NoError(t, err)
			assert.Equal(t, models.SourceMockData, data.DataSource)
			assert.Equal(t, mockdata.StockNote, data.Note)
			assert.Len(t, data.HistoricalData, 31)
			assert.Equal(t, 1, m.fallbackCount("stock"))
		})
	}
}

func TestGetStock_EmptySeriesAndOverviewDefaults(t *testing.T) {
	m := newFakeMetrics()
	p := &fakeProvider{
		quote:   map[string]*models.Quote{"IBM": {Symbol: "IBM", Price: 150}},
		overErr: alphavantage.ErrNoData,
	}
	uc, _ := newStockUsecase(p, m)

	data, err := uc.GetStock(context.Background(), "IBM")
	require.NoError(t, err)
	assert.Equal(t, models.SourceAlphaVantage, data.DataSource)
	assert.Len(t, data.HistoricalData, 31)
	assert.Equal(t, "IBM Corporation", data.CompanyInfo.Name)
	assert.Equal(t, "N/A", data.CompanyInfo.MarketCap)
	assert.Equal(t, 1, m.fallbackCount("history"))
}
