package repository

import (
	"context"
	"strings"
	"sync"

	"StockCast/internal/domain/models"
)

// MemoryForecastStore keeps the most recent forecasts per symbol in process.
// It backs history when ClickHouse is disabled.
type MemoryForecastStore struct {
	mu    sync.RWMutex
	max   int
	items map[string][]*models.ForecastRecord
}

func NewMemoryForecastStore(maxPerSymbol int) *MemoryForecastStore {
	if maxPerSymbol <= 0 {
		maxPerSymbol = 100
	}
	return &MemoryForecastStore{max: maxPerSymbol, items: make(map[string][]*models.ForecastRecord)}
}

func (s *MemoryForecastStore) Save(_ context.Context, rec *models.ForecastRecord) error {
	sym := strings.ToUpper(rec.Symbol)
	cp := *rec
	cp.Predictions = append([]models.Prediction(nil), rec.Predictions...)

	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.items[sym], &cp)
	if len(list) > s.max {
		list = list[len(list)-s.max:]
	}
	s.items[sym] = list
	return nil
}

// ListBySymbol returns the newest forecasts first.
func (s *MemoryForecastStore) ListBySymbol(_ context.Context, symbol string, limit int) ([]*models.ForecastRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.items[strings.ToUpper(symbol)]
	out := make([]*models.ForecastRecord, 0, min(limit, len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out, nil
}
