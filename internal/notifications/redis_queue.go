package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grambazaar/storefront-backend/pkg/logger"
	"github.com/grambazaar/storefront-backend/pkg/metrics"
	"github.com/grambazaar/storefront-backend/pkg/redis"
)

// QueueName is the redis list notifications are pushed to.
const QueueName = "notifications"

const defaultPopTimeout = 5 * time.Second

// RedisQueue hands messages to a separate worker process through redis.
type RedisQueue struct {
	queue redis.Queue
}

func NewRedisQueue(queue redis.Queue) (*RedisQueue, error) {
	if queue == nil {
		return nil, fmt.Errorf("redis queue required")
	}
	return &RedisQueue{queue: queue}, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	payload, err := encode(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return q.queue.Push(ctx, QueueName, payload)
}

// queueLen is implemented by queues that can report their backlog.
type queueLen interface {
	Len(ctx context.Context, queue string) (int64, error)
}

// Worker pops queued messages and delivers them through a sink.
type Worker struct {
	queue      redis.Queue
	deliver    deliverer
	logg       *logger.Logger
	popTimeout time.Duration
	backoff    time.Duration
}

// NewWorker builds a queue consumer. sendTimeout bounds each delivery.
func NewWorker(queue redis.Queue, sink Sink, sendTimeout time.Duration, logg *logger.Logger, m *metrics.NotificationMetrics) (*Worker, error) {
	if queue == nil {
		return nil, fmt.Errorf("redis queue required")
	}
	if sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Worker{
		queue:      queue,
		deliver:    deliverer{sink: sink, logg: logg, metrics: m, timeout: sendTimeout},
		logg:       logg,
		popTimeout: defaultPopTimeout,
		backoff:    time.Second,
	}, nil
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logg.Info(ctx, "notifications.worker.started")
	for {
		if ctx.Err() != nil {
			w.logg.Info(ctx, "notifications.worker.stopped")
			return nil
		}
		if _, err := w.ProcessOne(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logg.Error(ctx, "notifications.worker.pop_failed", err)
			select {
			case <-ctx.Done():
			case <-time.After(w.backoff):
			}
		}
	}
}

// ProcessOne waits for a single message and delivers it. It reports whether
// a message was taken off the queue. Delivery failures are logged, not
// returned.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	payload, err := w.queue.Pop(ctx, QueueName, w.popTimeout)
	if err != nil {
		return false, err
	}
	if payload == nil {
		return false, nil
	}
	msg, err := decode(payload)
	if err != nil {
		w.logg.Error(ctx, "notifications.worker.bad_payload", err)
		return true, nil
	}
	_ = w.deliver.deliver(ctx, msg)
	w.sampleDepth(ctx)
	return true, nil
}

func (w *Worker) sampleDepth(ctx context.Context) {
	counter, ok := w.queue.(queueLen)
	if !ok || w.deliver.metrics == nil {
		return
	}
	n, err := counter.Len(ctx, QueueName)
	if err != nil {
		w.logg.Debug(ctx, "notifications.worker.depth_unavailable")
		return
	}
	w.deliver.metrics.SetQueueDepth(n)
}
