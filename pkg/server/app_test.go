package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockCast/internal/scheduler"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches int
	topic   string
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batches++
	p.topic = topic
	return nil
}

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(context.Context, string, interface{}) (string, error) { return "", nil }

type countingSweeper struct{}

func (countingSweeper) Sweep() int { return 0 }

func testConfig() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestRunContextShutsDownOnCancel(t *testing.T) {
	l := applogger.NewWriter(io.Discard, "debug")
	pub := &recordingPublisher{}
	collector := applogger.NewCollector(applogger.CollectorConfig{
		FlushInterval:  time.Hour,
		CountThreshold: 100,
		Topic:          "stockcast.logs",
		Publisher:      pub,
	})
	l.AttachCollector(collector)
	l.Warn("provider rate limited")

	sched, err := scheduler.New("@every 1h", []string{"AAPL"}, noopEnqueuer{}, l)
	require.NoError(t, err)

	srv := xhttp.NewServer(l, nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	app := New(testConfig(), l, srv, nil, sched, collector, countingSweeper{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return after cancel")
	}

	// the pending warning is flushed when the collector closes
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, 1, pub.batches)
	assert.Equal(t, "stockcast.logs", pub.topic)
	assert.Equal(t, 0, collector.Pending())
}

func TestRunContextOptionalComponents(t *testing.T) {
	srv := xhttp.NewServer(nil, nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	app := New(testConfig(), applogger.Nop(), srv, nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.RunContext(ctx))
}
