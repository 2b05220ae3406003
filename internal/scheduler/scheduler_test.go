package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/usecase"
	applogger "StockCast/pkg/logger"
)

type recordingPublisher struct {
	mu      sync.Mutex
	symbols []string
	failOn  string
}

func (p *recordingPublisher) Enqueue(_ context.Context, msgType string, payload interface{}) (string, error) {
	if msgType != usecase.RefreshJobType {
		return "", errors.New("unexpected type")
	}
	sym := payload.(usecase.RefreshPayload).Symbol
	if sym == p.failOn {
		return "", errors.New("redis down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.symbols = append(p.symbols, sym)
	return "id-" + sym, nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.symbols)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("not a spec", []string{"AAPL"}, &recordingPublisher{}, applogger.Nop())
	assert.Error(t, err)

	_, err = New("0 */30 * * * *", []string{"AAPL", "bad1"}, &recordingPublisher{}, applogger.Nop())
	assert.ErrorIs(t, err, usecase.ErrInvalidSymbol)
}

func TestEnqueueAll(t *testing.T) {
	pub := &recordingPublisher{failOn: "MSFT"}
	s, err := New("0 */30 * * * *", []string{"aapl", " MSFT", "AAPL", "nvda"}, pub, applogger.Nop())
	require.NoError(t, err)

	n := s.EnqueueAll(context.Background())
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"AAPL", "NVDA"}, pub.symbols)
}

func TestSchedulerFires(t *testing.T) {
	pub := &recordingPublisher{}
	s, err := New("* * * * * *", []string{"AAPL"}, pub, applogger.Nop())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return pub.count() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
