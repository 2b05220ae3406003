// Package scheduler enqueues periodic forecast refreshes for the watchlist.
package scheduler

import (
	"context"
	"fmt"
	"strings"

	"StockCast/internal/usecase"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
	"StockCast/pkg/util"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the refresh cron. Jobs run on queue workers, not on the cron goroutine.
type Scheduler struct {
	cron      *cron.Cron
	spec      string
	watchlist []string
	publisher queue.Publisher
	l         *applogger.Logger
}

// New parses the watchlist and registers the refresh task. spec uses the six-field format with seconds.
func New(spec string, watchlist []string, publisher queue.Publisher, l *applogger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		spec:      spec,
		publisher: publisher,
		l:         l.With("scheduler"),
	}

	seen := make(map[string]struct{}, len(watchlist))
	for _, raw := range watchlist {
		sym := util.NormalizeSymbol(strings.TrimSpace(raw))
		if !util.ValidSymbol(sym) {
			return nil, fmt.Errorf("watchlist symbol %q: %w", raw, usecase.ErrInvalidSymbol)
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		s.watchlist = append(s.watchlist, sym)
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("register refresh task %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.l.Info("scheduler started",
		applogger.String("spec", s.spec),
		applogger.Strings("watchlist", s.watchlist),
	)
}

// Stop waits for a running tick to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.l.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueAll pushes one refresh job per watchlist symbol and returns how many were queued.
func (s *Scheduler) EnqueueAll(ctx context.Context) int {
	queued := 0
	for _, sym := range s.watchlist {
		id, err := s.publisher.Enqueue(ctx, usecase.RefreshJobType, usecase.RefreshPayload{Symbol: sym})
		if err != nil {
			s.l.Error("enqueue refresh failed", applogger.String("symbol", sym), applogger.Error(err))
			continue
		}
		s.l.Debug("refresh enqueued", applogger.String("symbol", sym), applogger.String("message_id", id))
		queued++
	}
	return queued
}

func (s *Scheduler) tick() {
	n := s.EnqueueAll(context.Background())
	s.l.Info("forecast refresh scheduled", applogger.Int("queued", n), applogger.Int("watchlist", len(s.watchlist)))
}
