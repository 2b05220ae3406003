package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"StockCast/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBroker struct {
	mu    sync.Mutex
	lists map[string][][]byte
	sets  map[string]map[string]time.Time
}

func newMemBroker() *memBroker {
	return &memBroker{lists: map[string][][]byte{}, sets: map[string]map[string]time.Time{}}
}

func (b *memBroker) Ping(context.Context) error { return nil }

func (b *memBroker) Push(_ context.Context, list string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists[list] = append([][]byte{data}, b.lists[list]...)
	return nil
}

func (b *memBroker) Pop(_ context.Context, list string, timeout time.Duration) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.lists[list]
	if len(l) == 0 {
		b.mu.Unlock()
		time.Sleep(timeout)
		b.mu.Lock()
		return nil, errEmpty
	}
	last := l[len(l)-1]
	b.lists[list] = l[:len(l)-1]
	return last, nil
}

func (b *memBroker) Schedule(_ context.Context, set string, at time.Time, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sets[set] == nil {
		b.sets[set] = map[string]time.Time{}
	}
	b.sets[set][string(data)] = at
	return nil
}

func (b *memBroker) Due(_ context.Context, set string, now time.Time) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for m, at := range b.sets[set] {
		if !at.After(now) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (b *memBroker) Promote(ctx context.Context, set, list, member string) error {
	b.mu.Lock()
	delete(b.sets[set], member)
	b.mu.Unlock()
	return b.Push(ctx, list, []byte(member))
}

func (b *memBroker) ListLen(_ context.Context, list string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.lists[list])), nil
}

func (b *memBroker) SetLen(_ context.Context, set string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.sets[set])), nil
}

type refreshPayload struct {
	Symbol string `json:"symbol"`
}

type recordingJob struct {
	err  error
	seen []string
}

func (j *recordingJob) Name() string { return "recording" }
func (j *recordingJob) Type() string { return "forecast.refresh" }

func (j *recordingJob) Handle(_ context.Context, payload json.RawMessage) error {
	p, err := ParsePayload[refreshPayload](payload)
	if err != nil {
		return err
	}
	j.seen = append(j.seen, p.Symbol)
	return j.err
}

func newTestQueue(t *testing.T, job Job, cfg *QueueConfig) (*RedisQueue, *memBroker) {
	t.Helper()
	b := newMemBroker()
	q := newQueue(logger.Nop(), cfg, b)
	q.RegisterJobs(job)
	return q, b
}

func TestEnqueueAndProcess(t *testing.T) {
	ctx := context.Background()
	job := &recordingJob{}
	q, _ := newTestQueue(t, job, nil)

	id, err := q.Enqueue(ctx, "forecast.refresh", refreshPayload{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)

	q.processNextMessage(ctx)
	assert.Equal(t, []string{"AAPL"}, job.seen)

	stats, _ = q.Stats(ctx)
	assert.Equal(t, Stats{}, stats)
}

func TestEnqueueUnknownType(t *testing.T) {
	q, _ := newTestQueue(t, &recordingJob{}, nil)
	_, err := q.Enqueue(context.Background(), "nope", nil)
	assert.Error(t, err)
}

func TestRetryThenDeadLetter(t *testing.T) {
	ctx := context.Background()
	job := &recordingJob{err: errors.New("provider down")}
	q, _ := newTestQueue(t, job, &QueueConfig{RetryLimit: 2, RetryDelay: time.Minute})

	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }

	_, err := q.Enqueue(ctx, "forecast.refresh", refreshPayload{Symbol: "MSFT"})
	require.NoError(t, err)

	for attempt := 1; attempt <= 2; attempt++ {
		q.processNextMessage(ctx)
		stats, _ := q.Stats(ctx)
		assert.Equal(t, int64(1), stats.Retrying, "attempt %d", attempt)

		// not due yet
		q.processRetryMessages(ctx)
		stats, _ = q.Stats(ctx)
		assert.Equal(t, int64(0), stats.Pending)

		now = now.Add(time.Minute)
		q.processRetryMessages(ctx)
		stats, _ = q.Stats(ctx)
		assert.Equal(t, int64(1), stats.Pending)
	}

	q.processNextMessage(ctx)
	stats, _ := q.Stats(ctx)
	assert.Equal(t, Stats{Dead: 1}, stats)
	assert.Equal(t, []string{"MSFT", "MSFT", "MSFT"}, job.seen)
}

func TestStartStop(t *testing.T) {
	q, _ := newTestQueue(t, &recordingJob{}, &QueueConfig{Workers: 2, PollInterval: 10 * time.Millisecond})
	require.NoError(t, q.Start(context.Background()))
	assert.Error(t, q.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, q.Stop(ctx))
	assert.NoError(t, q.Stop(ctx))
}
