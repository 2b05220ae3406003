package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// RefreshJobType is the queue message type for scheduled forecast refreshes.
const RefreshJobType = "forecast.refresh"

// RefreshPayload is the body of a forecast.refresh message.
type RefreshPayload struct {
	Symbol string `json:"symbol"`
}

// Locker serializes refreshes of one symbol across workers and instances.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// RefreshJob recomputes and stores the forecast for one symbol.
type RefreshJob struct {
	forecasts *ForecastUsecase
	locker    Locker
	lockTTL   time.Duration
	l         *applogger.Logger
}

var _ queue.Job = (*RefreshJob)(nil)

func NewRefreshJob(forecasts *ForecastUsecase, locker Locker, l *applogger.Logger) *RefreshJob {
	return &RefreshJob{forecasts: forecasts, locker: locker, lockTTL: 2 * time.Minute, l: l.With("refresh_job")}
}

func (j *RefreshJob) Name() string { return "ForecastRefresh" }

func (j *RefreshJob) Type() string { return RefreshJobType }

func (j *RefreshJob) Handle(ctx context.Context, payload json.RawMessage) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		j.l.Error("bad refresh payload", applogger.Error(err))
		return nil
	}

	key := cache.LockKey("forecast", p.Symbol)
	ok, err := j.locker.TryLock(ctx, key, j.lockTTL)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	if !ok {
		j.l.Debug("refresh already running", applogger.String("symbol", p.Symbol))
		return nil
	}
	defer func() {
		if err := j.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
			j.l.Warn("unlock failed", applogger.String("key", key), applogger.Error(err))
		}
	}()

	rec, err := j.forecasts.PredictLatest(ctx, p.Symbol)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) || errors.Is(err, ErrInvalidSymbol) {
			// retrying cannot fix the input
			j.l.Warn("refresh skipped", applogger.String("symbol", p.Symbol), applogger.Error(err))
			return nil
		}
		return err
	}

	j.l.Info("forecast refreshed",
		applogger.String("symbol", rec.Symbol),
		applogger.String("recommendation", string(rec.Recommendation)),
		applogger.Float64("accuracy", rec.Accuracy),
	)
	return nil
}
