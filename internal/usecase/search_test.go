package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/alphavantage"
	applogger "StockCast/pkg/logger"
)

func TestSearch(t *testing.T) {
	live := []models.SearchResult{{Symbol: "AAPL", Name: "Apple Inc", Type: "Equity", Region: "United States", Currency: "USD"}}

	tests := []struct {
		name       string
		query      string
		provider   *fakeProvider
		wantSource string
		wantNote   string
		wantAny    bool
	}{
		{"live", "apple", &fakeProvider{search: live}, models.SourceAlphaVantage, noteLive, true},
		{"rate limited", "apple", &fakeProvider{searchErr: alphavantage.ErrRateLimited}, models.SourceFallback, noteRateLimited, true},
		{"nothing live", "micro", &fakeProvider{}, models.SourceFallback, noteNoLive, true},
		{"nothing at all", "zzzzzz", &fakeProvider{}, models.SourceFallback, noteNoResults, false},
		{"provider error", "tesla", &fakeProvider{searchErr: errors.New("boom")}, models.SourceFallback, noteUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewSearchUsecase(tt.provider, newFakeMetrics(), applogger.Nop())
			resp, err := uc.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, resp.Source)
			assert.Equal(t, tt.wantNote, resp.Note)
			assert.Equal(t, tt.wantAny, len(resp.Results) > 0)
			assert.LessOrEqual(t, len(resp.Results), 10)
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	uc := NewSearchUsecase(&fakeProvider{}, nil, applogger.Nop())
	_, err := uc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
