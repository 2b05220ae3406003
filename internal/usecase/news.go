package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/alphavantage"
	applogger "StockCast/pkg/logger"
)

const (
	newsLimit          = 10
	newsUnavailableMsg = "News service temporarily unavailable - API limit reached"
)

type NewsUsecase struct {
	provider domrepo.QuoteProvider
	l        *applogger.Logger
	now      func() time.Time
}

func NewNewsUsecase(provider domrepo.QuoteProvider, l *applogger.Logger) *NewsUsecase {
	return &NewsUsecase{provider: provider, l: l.With("news"), now: time.Now}
}

// Latest returns up to 10 articles. A rate-limited provider yields an empty feed with a message.
func (u *NewsUsecase) Latest(ctx context.Context) (*models.NewsFeed, error) {
	articles, err := u.provider.News(ctx, newsLimit)
	if err != nil {
		if errors.Is(err, alphavantage.ErrRateLimited) {
			return &models.NewsFeed{Articles: []models.Article{}, Message: newsUnavailableMsg}, nil
		}
		u.l.Error("news fetch failed", applogger.Error(err))
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return &models.NewsFeed{
		Articles:    articles,
		LastUpdated: u.now().UTC().Format(time.RFC3339),
	}, nil
}
