package usecase

import (
	"context"
	"errors"
	"strings"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/alphavantage"
	"StockCast/internal/service/mockdata"
	applogger "StockCast/pkg/logger"
)

const (
	noteLive        = "Live data from Alpha Vantage"
	noteRateLimited = "API rate limit reached - showing cached results"
	noteNoLive      = "No live results found - showing popular stocks"
	noteNoResults   = "No results found"
	noteUnavailable = "Search service temporarily unavailable - showing popular stocks"
)

type SearchUsecase struct {
	provider domrepo.QuoteProvider
	metrics  domrepo.ProviderMetrics
	l        *applogger.Logger
}

func NewSearchUsecase(provider domrepo.QuoteProvider, metrics domrepo.ProviderMetrics, l *applogger.Logger) *SearchUsecase {
	return &SearchUsecase{provider: provider, metrics: metrics, l: l.With("search")}
}

// Search prefers live matches and otherwise filters the popular list.
func (u *SearchUsecase) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	results, err := u.provider.SymbolSearch(ctx, q)
	switch {
	case err == nil && len(results) > 0:
		return &models.SearchResponse{Results: results, Source: models.SourceAlphaVantage, Note: noteLive}, nil
	case err == nil:
		fb := mockdata.Search(q)
		note := noteNoLive
		if len(fb) == 0 {
			note = noteNoResults
		}
		return u.fallback(fb, note), nil
	case errors.Is(err, alphavantage.ErrRateLimited):
		return u.fallback(mockdata.Search(q), noteRateLimited), nil
	default:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		u.l.Warn("symbol search failed", applogger.String("query", q), applogger.Error(err))
		return u.fallback(mockdata.Search(q), noteUnavailable), nil
	}
}

func (u *SearchUsecase) fallback(results []models.SearchResult, note string) *models.SearchResponse {
	if u.metrics != nil {
		u.metrics.RecordFallback("search")
	}
	return &models.SearchResponse{Results: results, Source: models.SourceFallback, Note: note}
}
