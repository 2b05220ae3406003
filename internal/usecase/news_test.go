package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/alphavantage"
	applogger "StockCast/pkg/logger"
)

func TestNewsLatest(t *testing.T) {
	articles := make([]models.Article, 15)
	for i := range articles {
		articles[i] = models.Article{ID: fmt.Sprintf("news_%d", i), Title: "t", Sentiment: "neutral"}
	}
	uc := NewNewsUsecase(&fakeProvider{news: articles}, applogger.Nop())
	uc.now = fixedNow

	feed, err := uc.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Articles, newsLimit)
	assert.Empty(t, feed.Message)
	assert.NotEmpty(t, feed.LastUpdated)
}

func TestNewsLatest_RateLimited(t *testing.T) {
	uc := NewNewsUsecase(&fakeProvider{newsErr: alphavantage.ErrRateLimited}, applogger.Nop())

	feed, err := uc.Latest(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, feed.Articles)
	assert.Empty(t, feed.Articles)
	assert.Equal(t, newsUnavailableMsg, feed.Message)
}

func TestNewsLatest_Error(t *testing.T) {
	uc := NewNewsUsecase(&fakeProvider{newsErr: errors.New("boom")}, applogger.Nop())

	_, err := uc.Latest(context.Background())
	assert.Error(t, err)
}
