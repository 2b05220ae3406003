package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockCast/internal/domain/models"
)

type fakeProvider struct {
	mu sync.Mutex

	quote      map[string]*models.Quote
	quoteErr   error
	series     []models.PriceBar
	seriesErr  error
	overview   *models.CompanyInfo
	overErr    error
	search     []models.SearchResult
	searchErr  error
	news       []models.Article
	newsErr    error
	quoteCalls int
}

func (f *fakeProvider) GlobalQuote(_ context.Context, symbol string) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	q, ok := f.quote[symbol]
	if !ok {
		return nil, errors.New("no quote")
	}
	return q, nil
}

func (f *fakeProvider) DailySeries(context.Context, string) ([]models.PriceBar, error) {
	return f.series, f.seriesErr
}

func (f *fakeProvider) Overview(context.Context, string) (*models.CompanyInfo, error) {
	if f.overErr != nil {
		return nil, f.overErr
	}
	return f.overview, nil
}

func (f *fakeProvider) SymbolSearch(context.Context, string) ([]models.SearchResult, error) {
	return f.search, f.searchErr
}

func (f *fakeProvider) News(_ context.Context, limit int) ([]models.Article, error) {
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	if len(f.news) > limit {
		return f.news[:limit], nil
	}
	return f.news, nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	forecasts  map[models.Recommendation]int
	validation map[string]int
	errs       map[string]int
	prices     map[string]float64
	fallbacks  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		forecasts:  map[models.Recommendation]int{},
		validation: map[string]int{},
		errs:       map[string]int{},
		prices:     map[string]float64{},
		fallbacks:  map[string]int{},
	}
}

func (m *fakeMetrics) RecordForecast(_ string, rec models.Recommendation, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts[rec]++
}

func (m *fakeMetrics) RecordValidationError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validation[kind]++
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *fakeMetrics) RecordLastPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

func (m *fakeMetrics) ObserveUpstream(string, float64, error) {}

func (m *fakeMetrics) RecordFallback(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[endpoint]++
}

func (m *fakeMetrics) fallbackCount(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fallbacks[endpoint]
}

type fakeStore struct {
	saved   []*models.ForecastRecord
	saveErr error
}

func (s *fakeStore) Save(_ context.Context, rec *models.ForecastRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *fakeStore) ListBySymbol(_ context.Context, symbol string, limit int) ([]*models.ForecastRecord, error) {
	var out []*models.ForecastRecord
	for i := len(s.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if s.saved[i].Symbol == symbol {
			out = append(out, s.saved[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []*models.ForecastRecord
	err       error
}

func (p *fakePublisher) PublishForecast(_ context.Context, rec *models.ForecastRecord) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, rec)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func risingBars(n int) []models.PriceBar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.PriceBar{
			Date:  start.AddDate(0, 0, i).Format("2006-01-02"),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}

func fixedNow() time.Time { return time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local) }
