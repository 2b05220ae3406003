package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedEntry))
	return nil
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "debug").With("forecast")

	l.Info("forecast generated",
		String("symbol", "AAPL"),
		Int("bars", 30),
		Float64("volatility", 0.25),
		Duration("elapsed_ms", 1500*time.Millisecond),
		Bool("cached", false),
	)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "forecast generated", line["message"])
	assert.Equal(t, "forecast", line["component"])
	assert.Equal(t, "AAPL", line["symbol"])
	assert.Equal(t, float64(30), line["bars"])
	assert.Equal(t, float64(1500), line["elapsed_ms"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")
	l.Info("dropped")
	assert.Empty(t, buf.String())
	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestCollectorAggregatesDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewCollector(CollectorConfig{FlushInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})
	l := Nop()
	l.AttachCollector(c)

	for i := 0; i < 3; i++ {
		l.Error("provider failed", Error(errors.New("timeout")))
	}
	l.Warn("fallback used", String("symbol", "TSLA"))
	l.Info("not collected")
	assert.Equal(t, 2, c.Pending())

	l.DetachCollector()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.batches, 1)
	assert.Equal(t, "logs", pub.topic)
	counts := map[string]int{}
	for _, e := range pub.batches[0] {
		counts[e.Message] = e.Count
	}
	assert.Equal(t, 3, counts["provider failed"])
	assert.Equal(t, 1, counts["fallback used"])
}

func TestChildLoggerSeesLateCollector(t *testing.T) {
	pub := &capturePublisher{}
	root := Nop()
	child := root.With("queue")

	c := NewCollector(CollectorConfig{FlushInterval: time.Hour, CountThreshold: 100, Topic: "logs", Publisher: pub})
	root.AttachCollector(c)

	child.Error("brpop error")
	assert.Equal(t, 1, c.Pending())
	root.DetachCollector()
}
