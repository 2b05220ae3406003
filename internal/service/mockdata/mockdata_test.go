package mockdata

import (
	"testing"
	"time"

	"StockCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC) }

func TestStock(t *testing.T) {
	g := New(42, fixedNow)
	s := g.Stock("aapl")

	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, "Apple Inc.", s.CompanyInfo.Name)
	assert.Equal(t, models.SourceMockData, s.DataSource)
	assert.Equal(t, StockNote, s.Note)
	assert.GreaterOrEqual(t, s.CurrentPrice, 50.0)
	assert.Less(t, s.CurrentPrice, 250.0)
	assert.GreaterOrEqual(t, s.Change, -5.0)
	assert.LessOrEqual(t, s.Change, 5.0)

	require.Len(t, s.HistoricalData, 31)
	assert.Equal(t, "2024-02-07", s.HistoricalData[0].Date)
	assert.Equal(t, "2024-03-08", s.HistoricalData[30].Date)
	for _, b := range s.HistoricalData {
		assert.InDelta(t, s.CurrentPrice, b.Close, 10.01)
		assert.GreaterOrEqual(t, b.Volume, int64(1_000_000))
		assert.Less(t, b.Volume, int64(11_000_000))
		assert.Greater(t, b.High, b.Low)
	}

	assert.Equal(t, "ZZZ Corporation", g.Stock("zzz").CompanyInfo.Name)
}

func TestStock_SeedReproducible(t *testing.T) {
	a := New(7, fixedNow).Stock("MSFT")
	b := New(7, fixedNow).Stock("MSFT")
	assert.Equal(t, a, b)
}

func TestSearch(t *testing.T) {
	got := Search("bank")
	require.NotEmpty(t, got)
	for _, r := range got {
		assert.Equal(t, "India", r.Region)
	}

	assert.Len(t, Search("a"), 8)
	assert.Equal(t, "AAPL", Search("AaPl")[0].Symbol)
	assert.Empty(t, Search("nothing-like-this"))
}

func TestMarketIndices(t *testing.T) {
	g := New(1, fixedNow)
	got := g.MarketIndices()
	require.Len(t, got, 3)

	assert.Equal(t, []string{"SPY", "QQQ", "DIA"}, IndexSymbols())
	assert.Equal(t, "S&P 500", got[0].Name)
	assert.GreaterOrEqual(t, got[0].Value, 4200.0)
	assert.Less(t, got[0].Value, 4600.0)
	assert.Equal(t, "NASDAQ", IndexName("QQQ"))
	assert.GreaterOrEqual(t, got[2].Volume, int64(15_000_000))
	for _, ix := range got {
		assert.Equal(t, MarketNote, ix.Note)
		assert.Equal(t, "2024-03-08", ix.LastUpdated)
	}
}
